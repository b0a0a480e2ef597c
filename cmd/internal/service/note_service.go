package service

import (
	"context"
	"io"
	"mime/multipart"
	"strconv"
	"strings"
	"studynotes/cmd/internal/contract"
	"studynotes/cmd/internal/domain/database/repository"
	"studynotes/cmd/internal/domain/entity"
	"studynotes/cmd/internal/utils"
	"studynotes/cmd/internal/utils/apierror"
	"studynotes/cmd/internal/utils/uid"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

type NoteRepository interface {
	Create(ctx context.Context, note *entity.Note) error
	FindByID(ctx context.Context, id int64) (*entity.Note, error)
	FindAll(ctx context.Context, filter repository.NoteFilter) ([]*entity.Note, error)
	FindNotValidatedBy(ctx context.Context, validatorID int64) ([]*entity.Note, error)
	FindValidated(ctx context.Context) ([]*entity.Note, error)
	AddValidation(ctx context.Context, noteID int64, build repository.ValidationBuilder) (*entity.Note, error)
}

// FileStorage persists uploaded files and hands back the reference
// clients use to fetch them.
type FileStorage interface {
	Upload(ctx context.Context, data []byte, filename, contentType string) (string, error)
	Delete(ctx context.Context, ref string) error
}

type NoteService struct {
	NoteRepo NoteRepository
	Storage  FileStorage
	Validate *validator.Validate
}

func NewNoteService(noteRepo NoteRepository, storage FileStorage, validate *validator.Validate) *NoteService {
	return &NoteService{
		NoteRepo: noteRepo,
		Storage:  storage,
		Validate: validate,
	}
}

func (n *NoteService) GetNotes(ctx context.Context, req *contract.NoteFilterRequest) ([]*contract.NoteResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	filter := repository.NoteFilter{
		Department: req.Department,
		Subject:    req.Subject,
		Topic:      req.Topic,
	}

	if req.Unit != "" {
		unit, err := strconv.Atoi(req.Unit)
		if err != nil {
			return nil, apierror.InvalidFilterError
		}
		filter.Unit = &unit
	}

	notes, err := n.NoteRepo.FindAll(ctx, filter)
	if err != nil {
		log.Errorf("failed to fetch notes: %v", err)
		return nil, apierror.InternalServerError
	}
	return toNoteResponses(notes), nil
}

func (n *NoteService) GetNoteByID(ctx context.Context, noteID int64) (*contract.NoteResponse, apierror.ErrorResponse) {
	note, err := n.NoteRepo.FindByID(ctx, noteID)
	if err != nil {
		log.Errorf("failed to fetch note %d: %v", noteID, err)
		return nil, apierror.InternalServerError
	}

	if note == nil {
		return nil, apierror.NoteNotFoundError
	}
	return toNoteResponse(note), nil
}

func (n *NoteService) UploadNote(ctx context.Context, actor *entity.User, req *contract.NoteUploadRequest, fileHeader *multipart.FileHeader) (*contract.NoteResponse, apierror.ErrorResponse) {
	if fileHeader == nil {
		return nil, apierror.MissingNoteFileError
	}

	utils.Sanitize(req)
	if valerr := n.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	unit, credits, apierr := parseUploadNumbers(req)
	if apierr != nil {
		return nil, apierr
	}

	if apierr = checkNoteFile(fileHeader); apierr != nil {
		return nil, apierr
	}

	pdfURL, apierr := n.handleNoteUpload(ctx, fileHeader)
	if apierr != nil {
		return nil, apierr
	}

	now := utils.NowUTC()
	note := &entity.Note{
		ID:              uid.Generate(),
		Title:           req.Title,
		PdfURL:          pdfURL,
		Department:      req.Department,
		Subject:         req.Subject,
		Unit:            unit,
		Topic:           req.Topic,
		UploadedByID:    actor.ID,
		CreditsRequired: credits,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := n.NoteRepo.Create(ctx, note); err != nil {
		log.Errorf("failed to create note: %v", err)
		if derr := n.Storage.Delete(context.WithoutCancel(ctx), pdfURL); derr != nil {
			log.Errorf("failed to remove orphaned upload %s: %v", pdfURL, derr)
		}
		return nil, apierror.InternalServerError
	}

	note.UploadedBy = actor
	return toNoteResponse(note), nil
}

// handleNoteUpload reads and sniffs the file, then stores it under a
// fresh UUID name.
func (n *NoteService) handleNoteUpload(ctx context.Context, fileHeader *multipart.FileHeader) (string, apierror.ErrorResponse) {
	data, apierr := readNoteFile(fileHeader)
	if apierr != nil {
		return "", apierr
	}

	if !mimetype.Detect(data).Is(contract.PDFMimeType) {
		return "", apierror.OnlyPDFAllowedError
	}

	filename := uuid.NewString() + ".pdf"
	ref, err := n.Storage.Upload(ctx, data, filename, contract.PDFMimeType)
	if err != nil {
		log.Errorf("failed to upload file: %v", err)
		return "", apierror.InternalServerError
	}
	return ref, nil
}

func parseUploadNumbers(req *contract.NoteUploadRequest) (int, int, apierror.ErrorResponse) {
	unit, err := strconv.Atoi(req.Unit)
	if err != nil {
		return 0, 0, apierror.NewInvalidParamTypeError("unit", "integer")
	}

	var credits int
	if req.CreditsRequired != "" {
		credits, err = strconv.Atoi(req.CreditsRequired)
		if err != nil {
			return 0, 0, apierror.NewInvalidParamTypeError("creditsRequired", "integer")
		}
	}
	return unit, credits, nil
}

func checkNoteFile(fileHeader *multipart.FileHeader) apierror.ErrorResponse {
	if fileHeader.Size > contract.MaxNoteFileSizeBytes {
		return apierror.NewNoteContentTooLargeError(contract.MaxNoteFileSizeBytes)
	}

	if strings.TrimSpace(fileHeader.Filename) == "" {
		return apierror.MissingFileNameError
	}

	if ext, ok := utils.CheckFileExt(fileHeader.Filename, contract.ValidNoteFileTypes); !ok {
		return apierror.NewInvalidFileExtError(ext)
	}
	return nil
}

func readNoteFile(fileHeader *multipart.FileHeader) ([]byte, apierror.ErrorResponse) {
	file, err := fileHeader.Open()
	if err != nil {
		log.Errorf("failed to open file: %v", err)
		return nil, apierror.FileUnreadableError
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, contract.MaxNoteFileSizeBytes+1))
	if err != nil {
		log.Errorf("failed to read file: %v", err)
		return nil, apierror.FileUnreadableError
	}

	if len(data) > contract.MaxNoteFileSizeBytes {
		return nil, apierror.NewNoteContentTooLargeError(contract.MaxNoteFileSizeBytes)
	}
	return data, nil
}

func toNoteResponses(notes []*entity.Note) []*contract.NoteResponse {
	resp := make([]*contract.NoteResponse, len(notes))
	for i, note := range notes {
		resp[i] = toNoteResponse(note)
	}
	return resp
}

func toNoteResponse(note *entity.Note) *contract.NoteResponse {
	var rating *float64
	if note.RatingCount > 0 {
		r := note.Rating
		rating = &r
	}

	return &contract.NoteResponse{
		ID:              note.ID,
		Title:           note.Title,
		PdfURL:          note.PdfURL,
		Department:      note.Department,
		Subject:         note.Subject,
		Unit:            note.Unit,
		Topic:           note.Topic,
		UploadedBy:      toUploaderResponse(note),
		CreditsRequired: note.CreditsRequired,
		Views:           note.Views,
		IsValidated:     note.IsValidated,
		Rating:          rating,
		RatingCount:     note.RatingCount,
		CreatedAt:       utils.FormatEpoch(note.CreatedAt),
		UpdatedAt:       utils.FormatEpoch(note.UpdatedAt),
	}
}

func toUploaderResponse(note *entity.Note) *contract.UploaderResponse {
	if note.UploadedBy == nil {
		return &contract.UploaderResponse{ID: note.UploadedByID}
	}

	return &contract.UploaderResponse{
		ID:    note.UploadedBy.ID,
		Name:  note.UploadedBy.Name,
		Email: note.UploadedBy.Email,
	}
}
