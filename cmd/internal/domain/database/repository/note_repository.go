package repository

import (
	"context"
	"errors"
	"studynotes/cmd/internal/domain/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	listOrder       = "views DESC, created_at DESC, id DESC"
	validationOrder = "created_at ASC, id ASC"
)

// NoteFilter narrows a listing. Empty fields are ignored, the rest are AND-ed.
type NoteFilter struct {
	Department string
	Subject    string
	Unit       *int
	Topic      string
}

// ValidationBuilder runs inside the validation transaction, with the note
// locked and its prior validations loaded. It must leave the new aggregate on
// the note and return the validation to insert plus the credits owed to the
// uploader. Returning an error aborts the transaction untouched.
type ValidationBuilder func(note *entity.Note) (*entity.Validation, int, error)

type DefaultNoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *DefaultNoteRepository {
	return &DefaultNoteRepository{db: db}
}

func (d *DefaultNoteRepository) Create(ctx context.Context, note *entity.Note) error {
	return d.db.WithContext(ctx).Omit(clause.Associations).Create(note).Error
}

func (d *DefaultNoteRepository) FindByID(ctx context.Context, id int64) (*entity.Note, error) {
	var note entity.Note
	err := withRelations(d.db.WithContext(ctx)).First(&note, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (d *DefaultNoteRepository) FindAll(ctx context.Context, filter NoteFilter) ([]*entity.Note, error) {
	query := withRelations(d.db.WithContext(ctx))
	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}
	if filter.Subject != "" {
		query = query.Where("subject = ?", filter.Subject)
	}
	if filter.Unit != nil {
		query = query.Where("unit = ?", *filter.Unit)
	}
	if filter.Topic != "" {
		query = query.Where("topic = ?", filter.Topic)
	}

	var notes []*entity.Note
	err := query.Order(listOrder).Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// FindNotValidatedBy returns every note the given user has not rated yet.
func (d *DefaultNoteRepository) FindNotValidatedBy(ctx context.Context, validatorID int64) ([]*entity.Note, error) {
	var notes []*entity.Note
	err := withRelations(d.db.WithContext(ctx)).
		Where("NOT EXISTS (SELECT 1 FROM validations WHERE validations.note_id = notes.id AND validations.validator_id = ?)", validatorID).
		Order(listOrder).
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (d *DefaultNoteRepository) FindValidated(ctx context.Context) ([]*entity.Note, error) {
	var notes []*entity.Note
	err := withRelations(d.db.WithContext(ctx)).
		Where("is_validated = ?", true).
		Order(listOrder).
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// FindBatch pages through all notes by ascending ID, validations included.
func (d *DefaultNoteRepository) FindBatch(ctx context.Context, afterID int64, limit int) ([]*entity.Note, error) {
	var notes []*entity.Note
	err := d.db.WithContext(ctx).
		Preload("Validations", orderValidations).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// AddValidation appends a validation in a single transaction. The unique
// (note_id, validator_id) index backs up whatever the builder checks.
func (d *DefaultNoteRepository) AddValidation(ctx context.Context, noteID int64, build ValidationBuilder) (*entity.Note, error) {
	var note entity.Note
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&note, "id = ?", noteID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoteNotFound
		}
		if err != nil {
			return err
		}

		err = tx.Where("note_id = ?", noteID).Order(validationOrder).Find(&note.Validations).Error
		if err != nil {
			return err
		}

		validation, reward, err := build(&note)
		if err != nil {
			return err
		}

		err = tx.Create(validation).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyValidated
		}
		if err != nil {
			return err
		}

		if err = saveAggregate(tx, &note); err != nil {
			return err
		}

		if reward > 0 {
			_, err = addCredits(tx, note.UploadedByID, reward)
			if err != nil && !errors.Is(err, ErrUserNotFound) {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// RepairAggregate locks the note, reloads its validations and hands it to
// repair. The aggregate is written back only when repair reports a change,
// so validations committed after the caller last read the note are never
// overwritten with stale numbers.
func (d *DefaultNoteRepository) RepairAggregate(ctx context.Context, noteID int64, repair func(note *entity.Note) bool) (bool, error) {
	changed := false
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var note entity.Note
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&note, "id = ?", noteID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoteNotFound
		}
		if err != nil {
			return err
		}

		err = tx.Where("note_id = ?", noteID).Order(validationOrder).Find(&note.Validations).Error
		if err != nil {
			return err
		}

		if !repair(&note) {
			return nil
		}
		changed = true
		return saveAggregate(tx, &note)
	})
	if err != nil {
		return false, err
	}
	return changed, nil
}

// SaveAggregate persists only the derived rating columns of the note.
func (d *DefaultNoteRepository) SaveAggregate(ctx context.Context, note *entity.Note) error {
	return saveAggregate(d.db.WithContext(ctx), note)
}

func saveAggregate(tx *gorm.DB, note *entity.Note) error {
	res := tx.Model(&entity.Note{}).
		Where("id = ?", note.ID).
		Updates(map[string]any{
			"rating":       note.Rating,
			"rating_count": note.RatingCount,
			"is_validated": note.IsValidated,
			"updated_at":   note.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoteNotFound
	}
	return nil
}

func withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("UploadedBy").Preload("Validations", orderValidations)
}

func orderValidations(db *gorm.DB) *gorm.DB {
	return db.Order(validationOrder)
}
