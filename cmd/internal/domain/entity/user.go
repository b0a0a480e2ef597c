package entity

// User is a registered student. Credits is the only credit balance a user has.
type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement:false"`
	Name         string `gorm:"not null"`
	Email        string `gorm:"not null;uniqueIndex"`
	PasswordHash string `gorm:"not null"`
	Department   string
	Year         int
	Credits      int   `gorm:"not null;default:0;index"`
	CreatedAt    int64 `gorm:"not null"`
	UpdatedAt    int64 `gorm:"not null;autoUpdateTime:false"`
}
