package service

import (
	"context"
	"studynotes/cmd/internal/contract"
	"studynotes/cmd/internal/utils/apierror"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int {
	return &v
}

func TestValidationService_SubmitValidation_Aggregates(t *testing.T) {
	env := newTestEnv(t)
	uploader := env.createUser(t, "ana", 0)
	note := env.createNote(t, uploader, 0)

	steps := []struct {
		stars     int
		rating    float64
		validated bool
	}{
		{5, 5.0, false},
		{4, 4.5, false},
		{4, 4.3, true},
		{1, 3.5, true},
	}

	for i, step := range steps {
		validator := env.createUser(t, "val"+string(rune('a'+i)), 0)
		resp, apierr := env.validationService.SubmitValidation(context.Background(), validator, note.ID, &contract.ValidationRequest{
			Stars:   intPtr(step.stars),
			Comment: "ok",
		})
		require.Nil(t, apierr)
		assert.Equal(t, "Validation submitted successfully.", resp.Message)

		stored := env.reload(t, note)
		assert.Equal(t, i+1, stored.RatingCount)
		assert.Len(t, stored.Validations, i+1)
		assert.Equal(t, step.rating, stored.Rating)
		assert.Equal(t, step.validated, stored.IsValidated)
	}

	assert.Equal(t, len(steps), env.balance(t, uploader))
}

func TestValidationService_SubmitValidation_RejectsInvalidStars(t *testing.T) {
	env := newTestEnv(t)
	uploader := env.createUser(t, "ana", 0)
	validator := env.createUser(t, "bob", 0)
	note := env.createNote(t, uploader, 0)

	for _, stars := range []*int{nil, intPtr(0), intPtr(6), intPtr(-3)} {
		_, apierr := env.validationService.SubmitValidation(context.Background(), validator, note.ID, &contract.ValidationRequest{Stars: stars})
		assert.Equal(t, apierror.InvalidStarsError, apierr)
	}

	stored := env.reload(t, note)
	assert.Zero(t, stored.RatingCount)
	assert.Empty(t, stored.Validations)
	assert.Zero(t, env.balance(t, uploader))
}

func TestValidationService_SubmitValidation_Twice(t *testing.T) {
	env := newTestEnv(t)
	uploader := env.createUser(t, "ana", 0)
	validator := env.createUser(t, "bob", 0)
	note := env.createNote(t, uploader, 0)

	_, apierr := env.validationService.SubmitValidation(context.Background(), validator, note.ID, &contract.ValidationRequest{Stars: intPtr(2)})
	require.Nil(t, apierr)

	_, apierr = env.validationService.SubmitValidation(context.Background(), validator, note.ID, &contract.ValidationRequest{Stars: intPtr(5)})
	assert.Equal(t, apierror.AlreadyValidatedError, apierr)

	stored := env.reload(t, note)
	assert.Equal(t, 1, stored.RatingCount)
	assert.Equal(t, 2.0, stored.Rating)
	assert.Equal(t, 1, env.balance(t, uploader))
}

func TestValidationService_SubmitValidation_Errors(t *testing.T) {
	env := newTestEnv(t)
	validator := env.createUser(t, "bob", 0)

	_, apierr := env.validationService.SubmitValidation(context.Background(), validator, 12345, &contract.ValidationRequest{Stars: intPtr(3)})
	assert.Equal(t, apierror.NoteNotFoundError, apierr)

	uploader := env.createUser(t, "ana", 0)
	note := env.createNote(t, uploader, 0)
	long := make([]byte, contract.MaxCommentLength+1)
	for i := range long {
		long[i] = 'a'
	}
	_, apierr = env.validationService.SubmitValidation(context.Background(), validator, note.ID, &contract.ValidationRequest{
		Stars:   intPtr(3),
		Comment: string(long),
	})
	_, ok := apierr.(*apierror.StructuredError)
	assert.True(t, ok)
}

func TestValidationService_SelfValidationEarnsNothing(t *testing.T) {
	env := newTestEnv(t)
	uploader := env.createUser(t, "ana", 0)
	note := env.createNote(t, uploader, 0)

	_, apierr := env.validationService.SubmitValidation(context.Background(), uploader, note.ID, &contract.ValidationRequest{Stars: intPtr(5)})
	require.Nil(t, apierr)

	assert.Equal(t, 1, env.reload(t, note).RatingCount)
	assert.Zero(t, env.balance(t, uploader))
}

func TestValidationService_GetUnvalidatedNotes(t *testing.T) {
	env := newTestEnv(t)
	uploader := env.createUser(t, "ana", 0)
	validator := env.createUser(t, "bob", 0)
	first := env.createNote(t, uploader, 0)
	second := env.createNote(t, uploader, 0)

	_, apierr := env.validationService.SubmitValidation(context.Background(), validator, first.ID, &contract.ValidationRequest{Stars: intPtr(3)})
	require.Nil(t, apierr)

	notes, apierr := env.validationService.GetUnvalidatedNotes(context.Background(), validator)
	require.Nil(t, apierr)
	require.Len(t, notes, 1)
	assert.Equal(t, second.ID, notes[0].ID)

	notes, apierr = env.validationService.GetUnvalidatedNotes(context.Background(), uploader)
	require.Nil(t, apierr)
	assert.Len(t, notes, 2)
}

func TestValidationService_ConcurrentSubmissionsCountOnce(t *testing.T) {
	env := newTestEnv(t)
	uploader := env.createUser(t, "ana", 0)
	validator := env.createUser(t, "bob", 0)
	note := env.createNote(t, uploader, 0)

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, apierr := env.validationService.SubmitValidation(context.Background(), validator, note.ID, &contract.ValidationRequest{Stars: intPtr(4)})

			mu.Lock()
			defer mu.Unlock()
			switch apierr {
			case nil:
				succeeded++
			case apierror.AlreadyValidatedError:
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, rejected)

	stored := env.reload(t, note)
	assert.Equal(t, 1, stored.RatingCount)
	assert.Len(t, stored.Validations, 1)
	assert.Equal(t, 4.0, stored.Rating)
	assert.Equal(t, 1, env.balance(t, uploader))
}
