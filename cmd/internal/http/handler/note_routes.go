package handler

import (
	"context"
	"mime/multipart"
	"net/http"
	"studynotes/cmd/internal/contract"
	"studynotes/cmd/internal/domain/entity"
	"studynotes/cmd/internal/utils"
	"studynotes/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

const noteUploadedMessage = "Note uploaded successfully"

type NoteService interface {
	GetNotes(ctx context.Context, req *contract.NoteFilterRequest) ([]*contract.NoteResponse, apierror.ErrorResponse)
	GetNoteByID(ctx context.Context, noteID int64) (*contract.NoteResponse, apierror.ErrorResponse)
	UploadNote(ctx context.Context, actor *entity.User, req *contract.NoteUploadRequest, fileHeader *multipart.FileHeader) (*contract.NoteResponse, apierror.ErrorResponse)
}

type DefaultNoteRoute struct {
	NoteService NoteService
}

func NewNoteDefault(noteService NoteService) *DefaultNoteRoute {
	return &DefaultNoteRoute{NoteService: noteService}
}

func (n *DefaultNoteRoute) GetNotes(c echo.Context) error {
	var req contract.NoteFilterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.InvalidFilterError)
	}

	notes, apierr := n.NoteService.GetNotes(c.Request().Context(), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, notes)
}

func (n *DefaultNoteRoute) GetNote(c echo.Context) error {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("id", "snowflake"))
	}

	note, apierr := n.NoteService.GetNoteByID(c.Request().Context(), id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, note)
}

func (n *DefaultNoteRoute) UploadNote(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.NoteUploadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	// A missing file is reported by the service
	fileHeader, _ := c.FormFile(contract.NoteFileField)

	note, apierr := n.NoteService.UploadNote(c.Request().Context(), user, &req, fileHeader)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := &contract.NoteUploadResponse{Message: noteUploadedMessage, Note: note}
	return c.JSON(http.StatusCreated, resp)
}
