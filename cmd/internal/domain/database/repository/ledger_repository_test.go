package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerRepository_CreditAndDebit(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedgerRepository(db)
	user := seedUser(t, db, "ana@uni.edu", 0)

	balance, err := ledger.Credit(context.Background(), user.ID, 6)
	require.NoError(t, err)
	assert.Equal(t, 6, balance)

	balance, err = ledger.Debit(context.Background(), user.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, balance)

	_, err = ledger.Debit(context.Background(), user.ID, 5)
	assert.ErrorIs(t, err, ErrInsufficientCredits)

	balance, err = ledger.Balance(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, balance)

	_, err = ledger.Debit(context.Background(), 12345, 5)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = ledger.Credit(context.Background(), 12345, 5)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestLedgerRepository_DebitBoundary(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedgerRepository(db)
	user := seedUser(t, db, "ana@uni.edu", 5)

	balance, err := ledger.Debit(context.Background(), user.ID, 5)
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestLedgerRepository_ConcurrentDebitsNeverOverdraw(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedgerRepository(db)
	user := seedUser(t, db, "ana@uni.edu", 12)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ledger.Debit(context.Background(), user.ID, 5); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 2, succeeded)
	balance, err := ledger.Balance(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, balance)
}

func TestLedgerRepository_RecordView(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedgerRepository(db)
	notes := NewNoteRepository(db)
	uploader := seedUser(t, db, "up@uni.edu", 0)
	viewer := seedUser(t, db, "view@uni.edu", 1)
	note := seedNote(t, db, uploader, nil)

	balance, err := ledger.RecordView(context.Background(), note.ID, viewer.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, balance)

	stored, err := notes.FindByID(context.Background(), note.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Views)

	_, err = ledger.RecordView(context.Background(), 999, viewer.ID, 2)
	assert.ErrorIs(t, err, ErrNoteNotFound)

	// Unknown viewer rolls back the view increment.
	_, err = ledger.RecordView(context.Background(), note.ID, 999, 2)
	assert.ErrorIs(t, err, ErrUserNotFound)
	stored, err = notes.FindByID(context.Background(), note.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Views)
}

func TestLedgerRepository_TopByCredits(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedgerRepository(db)
	low := seedUser(t, db, "low@uni.edu", 1)
	high := seedUser(t, db, "high@uni.edu", 9)
	mid := seedUser(t, db, "mid@uni.edu", 4)

	users, err := ledger.TopByCredits(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, high.ID, users[0].ID)
	assert.Equal(t, mid.ID, users[1].ID)
	assert.NotEqual(t, low.ID, users[1].ID)
}
