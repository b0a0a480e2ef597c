package jobs

import (
	"context"
	"errors"
	"studynotes/cmd/internal/domain/database/repository"
	"studynotes/cmd/internal/domain/entity"
	"studynotes/cmd/internal/domain/policy"
	"studynotes/cmd/internal/utils"
	"time"

	"github.com/labstack/gommon/log"
)

const reconcileBatchSize = 200

type NoteRepository interface {
	FindBatch(ctx context.Context, afterID int64, limit int) ([]*entity.Note, error)
	RepairAggregate(ctx context.Context, noteID int64, repair func(note *entity.Note) bool) (bool, error)
}

// ValidationReconciler re-derives every note's rating from its stored
// validations and applies the validated transition notes may have missed,
// e.g. after VALIDATION_THRESHOLD was lowered.
type ValidationReconciler struct {
	noteRepo NoteRepository
	rule     policy.ValidationRule
	interval time.Duration
}

func NewValidationReconciler(repo NoteRepository, rule policy.ValidationRule, interval time.Duration) *ValidationReconciler {
	return &ValidationReconciler{
		noteRepo: repo,
		rule:     rule,
		interval: interval,
	}
}

func (v *ValidationReconciler) Start(ctx context.Context) {
	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()

	log.Info("Validation reconciler cron started")

	// Catch up once on boot instead of waiting a full interval
	v.reconcile(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping validation reconciler...")
			return
		case <-ticker.C:
			v.reconcile(ctx)
		}
	}
}

func (v *ValidationReconciler) reconcile(ctx context.Context) {
	fixed, err := v.RunOnce(ctx)
	if err != nil {
		log.Errorf("Reconciler: failed to reconcile notes: %v", err)
		return
	}

	if fixed > 0 {
		log.Infof("Reconciler: repaired %d notes", fixed)
	}
}

// RunOnce walks all notes in ID order and returns how many were repaired.
// The batch only drives paging: each note is re-read under a row lock
// before its aggregate is derived.
func (v *ValidationReconciler) RunOnce(ctx context.Context) (int, error) {
	var (
		afterID int64
		fixed   int
	)

	for {
		notes, err := v.noteRepo.FindBatch(ctx, afterID, reconcileBatchSize)
		if err != nil {
			return fixed, err
		}

		for _, note := range notes {
			changed, err := v.noteRepo.RepairAggregate(ctx, note.ID, v.repair)
			if errors.Is(err, repository.ErrNoteNotFound) {
				continue
			}
			if err != nil {
				return fixed, err
			}
			if changed {
				fixed++
			}
		}

		if len(notes) < reconcileBatchSize {
			return fixed, nil
		}
		afterID = notes[len(notes)-1].ID
	}
}

// repair applies the derived aggregate and reports whether anything changed.
func (v *ValidationReconciler) repair(note *entity.Note) bool {
	before := *note
	v.rule.Apply(note, policy.ComputeAggregate(note.Validations))

	changed := before.Rating != note.Rating ||
		before.RatingCount != note.RatingCount ||
		before.IsValidated != note.IsValidated
	if changed {
		note.UpdatedAt = utils.NowUTC()
	}
	return changed
}
