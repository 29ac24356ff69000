package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/greensocial/green/internal/db/controller/setting"
	"github.com/greensocial/green/internal/db/repository"
	"github.com/greensocial/green/internal/web/middleware/unitofwork"
)

var (
	// ErrInvalidID is returned for a malformed :id parameter.
	ErrInvalidID = errors.New("invalid id")
	// ErrInvalidBody is returned if the request body can not be decoded.
	ErrInvalidBody = errors.New("invalid request body")
)

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error  string       `json:"error"`
	Fields []FieldError `json:"fields,omitempty"`
}

// Status maps an error to its HTTP status code.
func Status(err error) int {
	var (
		fe *fiber.Error
		ve *ValidationError
	)

	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.As(err, &ve):
		return fiber.StatusBadRequest
	case errors.Is(err, setting.ErrSettingNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, setting.ErrSettingAlreadyExists):
		return fiber.StatusConflict
	case errors.Is(err, setting.ErrSettingNameEmpty),
		errors.Is(err, repository.ErrInvalidArgument),
		errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrInvalidBody):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler renders errors returned by handlers as ErrorResponse.
// Internal errors are logged and their message is not exposed.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := Status(err)
	resp := ErrorResponse{Error: err.Error()}

	var ve *ValidationError
	if errors.As(err, &ve) {
		resp.Fields = ve.Fields
	}

	if code >= fiber.StatusInternalServerError {
		log.Error().Err(err).
			Str("uow", unitofwork.ID(c)).
			Str("path", c.Path()).
			Msg("request failed")

		resp.Error = fiber.ErrInternalServerError.Message
	}

	return c.Status(code).JSON(resp)
}

// ParseID reads the :id route parameter.
func ParseID(c *fiber.Ctx) (uint64, error) {
	id, err := strconv.ParseUint(c.Params(IDParam), 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidID
	}

	return id, nil
}
