package entity

const (
	MinStars = 1
	MaxStars = 5
)

// Validation is one validator's star rating on a note. Rows are append-only.
type Validation struct {
	ID          int64  `gorm:"primaryKey;autoIncrement:false"`
	NoteID      int64  `gorm:"not null;uniqueIndex:idx_validation_note_validator"`
	ValidatorID int64  `gorm:"not null;uniqueIndex:idx_validation_note_validator;index"`
	Stars       int    `gorm:"not null"`
	Comment     string `gorm:"not null;default:''"`
	CreatedAt   int64  `gorm:"not null"`
}
