package apierror

import (
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"net/http"
	"strings"
)

// ErrorResponse abstracts all API error responses to the user.
//
// This interface does not implement `error`, since its only purpose
// is to be used for API responses and not for logging circumstances.
//
// In general, the whole ErrorResponse can be sent for serialization.
type ErrorResponse interface {
	// Code is the HTTP status code to be returned.
	Code() int
}

type APIError struct {
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (a *APIError) Code() int {
	return a.Status
}

type StructuredError struct {
	Errors map[string][]string `json:"errors"`
	Status int                 `json:"-"`
}

func (s *StructuredError) Code() int {
	return s.Status
}

func (s *StructuredError) Add(field, problem string) {
	s.Errors[field] = append(s.Errors[field], problem)
}

var (
	MalformedBodyError  = NewSimple(400, "Malformed request body")
	InternalServerError = NewSimple(500, "Internal server error")

	NotFoundError      = NewSimple(404, "Resource not found")
	NoteNotFoundError  = NewSimple(404, "Note not found")
	UserNotFoundError  = NewSimple(404, "User not found")
	InvalidFilterError = NewSimple(400, "Unit filter must be a number")

	/*
	 * Used for authentications
	 */
	UnauthorizedError        = NewSimple(401, "No token provided")
	InvalidAuthTokenError    = NewSimple(401, "Invalid token")
	AuthUserNotFoundError    = NewSimple(401, "User not found")
	MissingFieldsError       = NewSimple(400, "Missing fields")
	EmailTakenError          = NewSimple(400, "Email already registered")
	InvalidCredentialsError  = NewSimple(400, "Invalid credentials")
	TooManyAuthAttemptsError = NewSimple(429, "Too many attempts, try again later")

	/*
	 * Used for the validation and credit workflow
	 */
	InvalidStarsError        = NewSimple(400, "Invalid star rating")
	AlreadyValidatedError    = NewSimple(400, "You have already validated this note.")
	InsufficientCreditsError = NewSimple(403, "Not enough credits to download this note")

	/*
	 * Used for uploads
	 */
	MissingNoteFileError = NewSimple(400, "PDF file is required")
	MissingFileNameError = NewSimple(400, "Uploaded file has no name")
	OnlyPDFAllowedError  = NewSimple(400, "Only PDF files are allowed!")
	FileUnreadableError  = NewSimple(400, "Uploaded file could not be read")
)

func FromValidationError(err error) *StructuredError {
	var ve validator.ValidationErrors
	ok := errors.As(err, &ve)
	if !ok {
		return nil
	}

	problems := map[string][]string{}
	for _, fe := range ve {
		field := strings.ToLower(fe.Field())

		switch fe.Tag() {
		case "required", "notblank":
			problems[field] = append(problems[field], "This field is required")
		case "min":
			problems[field] = append(problems[field], "Value is too small, min: "+fe.Param())
		case "max":
			problems[field] = append(problems[field], "Value is too large, max: "+fe.Param())
		case "email":
			problems[field] = append(problems[field], "Value must be a valid email address")
		case "number":
			problems[field] = append(problems[field], "Value must be a non-negative whole number")

		default:
			problems[field] = append(problems[field], "Invalid value provided")
		}
	}

	return &StructuredError{
		Errors: problems,
		Status: http.StatusBadRequest,
	}
}

func NewSimple(status int, msg string, args ...any) *APIError {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &APIError{Status: status, Message: msg}
}

func NewStructured(code int) *StructuredError {
	return &StructuredError{
		Errors: make(map[string][]string),
		Status: code,
	}
}

func NewInvalidParamTypeError(name, dataType string) *APIError {
	return NewSimple(http.StatusBadRequest, "Parameter '%s' has invalid type, expected: %s", name, dataType)
}

func NewNoteContentTooLargeError(maxBytes int) *APIError {
	return NewSimple(http.StatusBadRequest, "File is too large, max size is %d MiB", maxBytes/(1024*1024))
}

func NewInvalidFileExtError(ext string) *APIError {
	if ext == "" {
		return NewSimple(http.StatusBadRequest, "File has no extension, expected .pdf")
	}
	return NewSimple(http.StatusBadRequest, "File extension '%s' is not allowed, expected .pdf", ext)
}
