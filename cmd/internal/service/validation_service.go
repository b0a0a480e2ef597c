package service

import (
	"context"
	"errors"
	"studynotes/cmd/internal/contract"
	"studynotes/cmd/internal/domain/database/repository"
	"studynotes/cmd/internal/domain/entity"
	"studynotes/cmd/internal/domain/policy"
	"studynotes/cmd/internal/utils"
	"studynotes/cmd/internal/utils/apierror"
	"studynotes/cmd/internal/utils/uid"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

const validationSubmittedMessage = "Validation submitted successfully."

type ValidationService struct {
	NoteRepo NoteRepository
	Rule     policy.ValidationRule
	Validate *validator.Validate
}

func NewValidationService(noteRepo NoteRepository, rule policy.ValidationRule, validate *validator.Validate) *ValidationService {
	return &ValidationService{
		NoteRepo: noteRepo,
		Rule:     rule,
		Validate: validate,
	}
}

// SubmitValidation records the actor's rating of a note, refreshes the
// note's aggregate and rewards the uploader.
func (v *ValidationService) SubmitValidation(ctx context.Context, actor *entity.User, noteID int64, req *contract.ValidationRequest) (*contract.MessageResponse, apierror.ErrorResponse) {
	if req.Stars == nil || !policy.ValidStars(*req.Stars) {
		return nil, apierror.InvalidStarsError
	}

	utils.Sanitize(req)
	if valerr := v.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	stars := *req.Stars
	build := func(note *entity.Note) (*entity.Validation, int, error) {
		if policy.HasValidated(note.Validations, actor.ID) {
			return nil, 0, repository.ErrAlreadyValidated
		}

		now := utils.NowUTC()
		validation := entity.Validation{
			ID:          uid.Generate(),
			NoteID:      note.ID,
			ValidatorID: actor.ID,
			Stars:       stars,
			Comment:     req.Comment,
			CreatedAt:   now,
		}

		note.Validations = append(note.Validations, validation)
		v.Rule.Apply(note, policy.ComputeAggregate(note.Validations))
		note.UpdatedAt = now
		return &validation, v.Rule.RewardFor(note, actor.ID), nil
	}

	_, err := v.NoteRepo.AddValidation(ctx, noteID, build)
	switch {
	case errors.Is(err, repository.ErrNoteNotFound):
		return nil, apierror.NoteNotFoundError
	case errors.Is(err, repository.ErrAlreadyValidated):
		return nil, apierror.AlreadyValidatedError
	case err != nil:
		log.Errorf("user %d failed to validate note %d: %v", actor.ID, noteID, err)
		return nil, apierror.InternalServerError
	}
	return &contract.MessageResponse{Message: validationSubmittedMessage}, nil
}

// GetUnvalidatedNotes lists every note the actor has not rated yet,
// including the actor's own uploads.
func (v *ValidationService) GetUnvalidatedNotes(ctx context.Context, actor *entity.User) ([]*contract.NoteResponse, apierror.ErrorResponse) {
	notes, err := v.NoteRepo.FindNotValidatedBy(ctx, actor.ID)
	if err != nil {
		log.Errorf("failed to fetch notes not validated by %d: %v", actor.ID, err)
		return nil, apierror.InternalServerError
	}
	return toNoteResponses(notes), nil
}
