package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/server/services"
	"github.com/dmitrijs2005/gophtasks/internal/validation"
)

// Error codes carried in the "code" field of every error body.
const (
	CodeValidationFailed   = "validation_failed"
	CodeInvalidToken       = "invalid_token"
	CodeInvalidCredentials = "invalid_credentials"
	CodeForbidden          = "forbidden"
	CodeNotFound           = "not_found"
	CodeBadRequest         = "bad_request"
	CodeInternal           = "internal"
)

type errorResponse struct {
	Message string              `json:"message"`
	Code    string              `json:"code"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

const msgBadCredentials = "These credentials do not match our records."

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	status, body := s.errorResponse(c, err)
	if status == fiber.StatusUnauthorized {
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	}
	return c.Status(status).JSON(body)
}

func (s *Server) errorResponse(c *fiber.Ctx, err error) (int, errorResponse) {
	var (
		verrs    validation.Errors
		credErr  *services.CredentialError
		fiberErr *fiber.Error
	)

	switch {
	case errors.As(err, &verrs):
		return fiber.StatusUnprocessableEntity, errorResponse{
			Message: "The given data was invalid.",
			Code:    CodeValidationFailed,
			Errors:  verrs,
		}
	case errors.As(err, &credErr):
		return fiber.StatusUnauthorized, errorResponse{
			Message: credErr.Message,
			Code:    CodeInvalidCredentials,
			Errors:  map[string][]string{credErr.Field: {credErr.Message}},
		}
	case errors.Is(err, common.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, errorResponse{
			Message: msgBadCredentials,
			Code:    CodeInvalidCredentials,
			Errors:  map[string][]string{"email": {msgBadCredentials}},
		}
	case errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrorUnauthenticated):
		return fiber.StatusUnauthorized, errorResponse{Message: "Unauthenticated.", Code: CodeInvalidToken}
	case errors.Is(err, common.ErrorForbidden):
		return fiber.StatusForbidden, errorResponse{Message: "This action is unauthorized.", Code: CodeForbidden}
	case errors.Is(err, common.ErrorNotFound):
		return fiber.StatusNotFound, errorResponse{Message: "Not found.", Code: CodeNotFound}
	case errors.As(err, &fiberErr):
		return fiberErr.Code, errorResponse{Message: fiberErr.Message, Code: codeForStatus(fiberErr.Code)}
	}

	s.logger.Error(c.UserContext(), "unhandled error", "error", err, "request_id", requestID(c))
	return fiber.StatusInternalServerError, errorResponse{Message: "Server error.", Code: CodeInternal}
}

func codeForStatus(status int) string {
	switch {
	case status == fiber.StatusUnauthorized:
		return CodeInvalidToken
	case status == fiber.StatusForbidden:
		return CodeForbidden
	case status == fiber.StatusNotFound:
		return CodeNotFound
	case status == fiber.StatusUnprocessableEntity:
		return CodeValidationFailed
	case status >= fiber.StatusInternalServerError:
		return CodeInternal
	default:
		return CodeBadRequest
	}
}
