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

type ValidationService interface {
	SubmitValidation(ctx context.Context, actor *entity.User, noteID int64, req *contract.ValidationRequest) (*contract.MessageResponse, apierror.ErrorResponse)
	GetUnvalidatedNotes(ctx context.Context, actor *entity.User) ([]*contract.NoteResponse, apierror.ErrorResponse)
}

type DefaultValidationRoute struct {
	ValidationService ValidationService
}

func NewValidationDefault(validationService ValidationService) *DefaultValidationRoute {
	return &DefaultValidationRoute{ValidationService: validationService}
}

func (v *DefaultValidationRoute) GetUnvalidatedNotes(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	notes, apierr := v.ValidationService.GetUnvalidatedNotes(c.Request().Context(), user)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, notes)
}

func (v *DefaultValidationRoute) SubmitValidation(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, ok := utils.ParseID(c.Param("noteId"))
	if !ok {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("noteId", "snowflake"))
	}

	var req contract.ValidationRequest
	if err := c.Bind(&req); err != nil {
		// Non-integer stars fail to decode
		return c.JSON(http.StatusBadRequest, apierror.InvalidStarsError)
	}

	resp, apierr := v.ValidationService.SubmitValidation(c.Request().Context(), user, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}
