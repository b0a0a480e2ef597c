package entity

// Note is an uploaded PDF plus its metadata and accumulated validations.
type Note struct {
	ID              int64  `gorm:"primaryKey;autoIncrement:false"`
	Title           string `gorm:"not null"`
	PdfURL          string `gorm:"not null"`
	Department      string `gorm:"not null;index"`
	Subject         string `gorm:"not null;index"`
	Unit            int    `gorm:"not null"`
	Topic           string `gorm:"not null"`
	UploadedByID    int64  `gorm:"not null;index"` // References: users(id)
	CreditsRequired int    `gorm:"not null;default:0"`
	Views           int    `gorm:"not null;default:0;index"`

	// Rating and RatingCount are always derived from Validations,
	// see policy.ComputeAggregate.
	IsValidated bool    `gorm:"not null;default:false;index"`
	Rating      float64 `gorm:"not null;default:0"`
	RatingCount int     `gorm:"not null;default:0"`

	CreatedAt int64 `gorm:"not null"`
	UpdatedAt int64 `gorm:"not null;autoUpdateTime:false"`

	// Relations
	UploadedBy  *User        `gorm:"foreignKey:UploadedByID;references:ID"`
	Validations []Validation `gorm:"foreignKey:NoteID;references:ID;constraint:OnDelete:CASCADE;"`
}
