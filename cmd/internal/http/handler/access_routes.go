package handler

import (
	"context"
	"net/http"
	"studynotes/cmd/internal/contract"
	"studynotes/cmd/internal/domain/entity"
	"studynotes/cmd/internal/utils"
	"studynotes/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type AccessService interface {
	GetVisibleNotes(ctx context.Context, actor *entity.User) ([]*contract.VisibleNoteResponse, apierror.ErrorResponse)
	ViewNote(ctx context.Context, actor *entity.User, noteID int64) (*contract.NoteViewResponse, apierror.ErrorResponse)
	DownloadNote(ctx context.Context, actor *entity.User, noteID int64) (*contract.NoteDownloadResponse, apierror.ErrorResponse)
}

type DefaultAccessRoute struct {
	AccessService AccessService
}

func NewAccessDefault(accessService AccessService) *DefaultAccessRoute {
	return &DefaultAccessRoute{AccessService: accessService}
}

func (a *DefaultAccessRoute) GetVisibleNotes(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	notes, apierr := a.AccessService.GetVisibleNotes(c.Request().Context(), user)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, notes)
}

func (a *DefaultAccessRoute) ViewNote(c echo.Context) error {
	user, id, apierr := actorAndNoteID(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp, apierr := a.AccessService.ViewNote(c.Request().Context(), user, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (a *DefaultAccessRoute) DownloadNote(c echo.Context) error {
	user, id, apierr := actorAndNoteID(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp, apierr := a.AccessService.DownloadNote(c.Request().Context(), user, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func actorAndNoteID(c echo.Context) (*entity.User, int64, apierror.ErrorResponse) {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return nil, 0, cerr
	}

	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		return nil, 0, apierror.NewInvalidParamTypeError("id", "snowflake")
	}
	return user, id, nil
}
