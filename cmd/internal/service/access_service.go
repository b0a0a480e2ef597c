package service

import (
	"context"
	"errors"
	"fmt"
	"studynotes/cmd/internal/contract"
	"studynotes/cmd/internal/domain/database/repository"
	"studynotes/cmd/internal/domain/entity"
	"studynotes/cmd/internal/domain/policy"
	"studynotes/cmd/internal/utils/apierror"

	"github.com/labstack/gommon/log"
)

const (
	noteViewedMessage   = "Note viewed successfully"
	downloadReadyFormat = "Download ready. %d credits deducted."
)

type LedgerRepository interface {
	Balance(ctx context.Context, userID int64) (int, error)
	Debit(ctx context.Context, userID int64, amount int) (int, error)
	RecordView(ctx context.Context, noteID, viewerID int64, reward int) (int, error)
	TopByCredits(ctx context.Context, limit int) ([]*entity.User, error)
}

// AccessService gates validated notes behind the viewer's credits.
type AccessService struct {
	NoteRepo NoteRepository
	Ledger   LedgerRepository
}

func NewAccessService(noteRepo NoteRepository, ledger LedgerRepository) *AccessService {
	return &AccessService{
		NoteRepo: noteRepo,
		Ledger:   ledger,
	}
}

// GetVisibleNotes returns all validated notes as seen by the actor.
func (a *AccessService) GetVisibleNotes(ctx context.Context, actor *entity.User) ([]*contract.VisibleNoteResponse, apierror.ErrorResponse) {
	viewer, apierr := a.freshViewer(ctx, actor)
	if apierr != nil {
		return nil, apierr
	}

	notes, err := a.NoteRepo.FindValidated(ctx)
	if err != nil {
		log.Errorf("failed to fetch validated notes: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.VisibleNoteResponse, len(notes))
	for i, note := range notes {
		resp[i] = toVisibleNoteResponse(note, viewer)
	}
	return resp, nil
}

// ViewNote counts a view and rewards the actor for it. Every call pays out.
func (a *AccessService) ViewNote(ctx context.Context, actor *entity.User, noteID int64) (*contract.NoteViewResponse, apierror.ErrorResponse) {
	credits, err := a.Ledger.RecordView(ctx, noteID, actor.ID, policy.ViewReward)
	switch {
	case errors.Is(err, repository.ErrNoteNotFound):
		return nil, apierror.NoteNotFoundError
	case errors.Is(err, repository.ErrUserNotFound):
		return nil, apierror.UserNotFoundError
	case err != nil:
		log.Errorf("user %d failed to view note %d: %v", actor.ID, noteID, err)
		return nil, apierror.InternalServerError
	}

	note, err := a.NoteRepo.FindByID(ctx, noteID)
	if err != nil || note == nil {
		log.Errorf("failed to reload note %d after view: %v", noteID, err)
		return nil, apierror.InternalServerError
	}

	viewer := *actor
	viewer.Credits = credits
	return &contract.NoteViewResponse{
		Message: noteViewedMessage,
		Note:    toVisibleNoteResponse(note, &viewer),
		Credits: credits,
	}, nil
}

// DownloadNote charges the actor and hands out the file reference.
func (a *AccessService) DownloadNote(ctx context.Context, actor *entity.User, noteID int64) (*contract.NoteDownloadResponse, apierror.ErrorResponse) {
	note, err := a.NoteRepo.FindByID(ctx, noteID)
	if err != nil {
		log.Errorf("failed to fetch note %d: %v", noteID, err)
		return nil, apierror.InternalServerError
	}

	if note == nil {
		return nil, apierror.NoteNotFoundError
	}

	credits, err := a.Ledger.Debit(ctx, actor.ID, policy.DownloadCost)
	switch {
	case errors.Is(err, repository.ErrInsufficientCredits):
		return nil, apierror.InsufficientCreditsError
	case errors.Is(err, repository.ErrUserNotFound):
		return nil, apierror.UserNotFoundError
	case err != nil:
		log.Errorf("user %d failed to download note %d: %v", actor.ID, noteID, err)
		return nil, apierror.InternalServerError
	}

	return &contract.NoteDownloadResponse{
		Message: fmt.Sprintf(downloadReadyFormat, policy.DownloadCost),
		PdfURL:  note.PdfURL,
		Credits: credits,
	}, nil
}

// freshViewer re-reads the balance so the projection never relies on the
// copy loaded at authentication time.
func (a *AccessService) freshViewer(ctx context.Context, actor *entity.User) (*entity.User, apierror.ErrorResponse) {
	credits, err := a.Ledger.Balance(ctx, actor.ID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, apierror.UserNotFoundError
	}

	if err != nil {
		log.Errorf("failed to fetch balance of %d: %v", actor.ID, err)
		return nil, apierror.InternalServerError
	}

	viewer := *actor
	viewer.Credits = credits
	return &viewer, nil
}

// toVisibleNoteResponse projects a note for one viewer. The PDF URL is
// included even when the viewer cannot access the note.
func toVisibleNoteResponse(note *entity.Note, viewer *entity.User) *contract.VisibleNoteResponse {
	var avg *float64
	if agg := policy.ComputeAggregate(note.Validations); agg.Rated() {
		avg = &agg.Rating
	}

	return &contract.VisibleNoteResponse{
		ID:              note.ID,
		Title:           note.Title,
		PdfURL:          note.PdfURL,
		Department:      note.Department,
		Subject:         note.Subject,
		Unit:            note.Unit,
		Topic:           note.Topic,
		CreditsRequired: note.CreditsRequired,
		CanAccess:       policy.CanAccess(viewer, note),
		Views:           note.Views,
		AvgStars:        avg,
		Comments:        policy.Comments(note.Validations),
	}
}
