package service

import (
	"context"
	"studynotes/cmd/internal/contract"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Upload by A, validation by B, and B's unvalidated listing before and after.
func TestWorkflow_UploadValidateList(t *testing.T) {
	env := newTestEnv(t)
	uploader := env.createUser(t, "a", 0)
	validator := env.createUser(t, "b", 0)

	note, apierr := env.noteService.UploadNote(context.Background(), uploader, validUpload(), newFileHeader(t, "n.pdf", samplePDF))
	require.Nil(t, apierr)

	pending, apierr := env.validationService.GetUnvalidatedNotes(context.Background(), validator)
	require.Nil(t, apierr)
	require.Len(t, pending, 1)
	assert.Equal(t, note.ID, pending[0].ID)

	_, apierr = env.validationService.SubmitValidation(context.Background(), validator, note.ID, &contract.ValidationRequest{Stars: intPtr(4)})
	require.Nil(t, apierr)

	rated, apierr := env.noteService.GetNoteByID(context.Background(), note.ID)
	require.Nil(t, apierr)
	require.NotNil(t, rated.Rating)
	assert.Equal(t, 4.0, *rated.Rating)
	assert.Equal(t, 1, rated.RatingCount)

	pending, apierr = env.validationService.GetUnvalidatedNotes(context.Background(), validator)
	require.Nil(t, apierr)
	assert.Empty(t, pending)
}
