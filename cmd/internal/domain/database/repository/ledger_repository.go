package repository

import (
	"context"
	"studynotes/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

// DefaultLedgerRepository owns every mutation of user credit balances.
// Each mutation is a single conditional UPDATE, so concurrent requests
// can never overdraw a balance.
type DefaultLedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *DefaultLedgerRepository {
	return &DefaultLedgerRepository{db: db}
}

func (l *DefaultLedgerRepository) Balance(ctx context.Context, userID int64) (int, error) {
	return balance(l.db.WithContext(ctx), userID)
}

// Credit adds amount to the balance and returns the new balance.
func (l *DefaultLedgerRepository) Credit(ctx context.Context, userID int64, amount int) (int, error) {
	var newBalance int
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		newBalance, err = addCredits(tx, userID, amount)
		return err
	})
	return newBalance, err
}

// Debit subtracts amount only if the balance covers it, returning
// ErrInsufficientCredits otherwise.
func (l *DefaultLedgerRepository) Debit(ctx context.Context, userID int64, amount int) (int, error) {
	var newBalance int
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.User{}).
			Where("id = ? AND credits >= ?", userID, amount).
			UpdateColumn("credits", gorm.Expr("credits - ?", amount))
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			// Either the user is gone or the guard failed.
			if _, err := balance(tx, userID); err != nil {
				return err
			}
			return ErrInsufficientCredits
		}

		var err error
		newBalance, err = balance(tx, userID)
		return err
	})
	return newBalance, err
}

// RecordView bumps the note's view counter and rewards the viewer in one
// transaction. It returns the viewer's new balance.
func (l *DefaultLedgerRepository) RecordView(ctx context.Context, noteID, viewerID int64, reward int) (int, error) {
	var newBalance int
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.Note{}).
			Where("id = ?", noteID).
			UpdateColumn("views", gorm.Expr("views + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNoteNotFound
		}

		var err error
		newBalance, err = addCredits(tx, viewerID, reward)
		return err
	})
	return newBalance, err
}

// TopByCredits returns the richest users, ties broken by registration order.
func (l *DefaultLedgerRepository) TopByCredits(ctx context.Context, limit int) ([]*entity.User, error) {
	var users []*entity.User
	err := l.db.WithContext(ctx).
		Order("credits DESC, created_at ASC, id ASC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func addCredits(tx *gorm.DB, userID int64, amount int) (int, error) {
	res := tx.Model(&entity.User{}).
		Where("id = ?", userID).
		UpdateColumn("credits", gorm.Expr("credits + ?", amount))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrUserNotFound
	}
	return balance(tx, userID)
}

func balance(tx *gorm.DB, userID int64) (int, error) {
	var credits int
	res := tx.Model(&entity.User{}).
		Where("id = ?", userID).
		Limit(1).
		Pluck("credits", &credits)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrUserNotFound
	}
	return credits, nil
}
