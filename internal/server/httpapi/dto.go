package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/dmitrijs2005/gophtasks/internal/validation"
)

type userResponse struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		EmailVerifiedAt: u.EmailVerifiedAt,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type profileResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

type taskResponse struct {
	ID          int64            `json:"id"`
	UserID      int64            `json:"user_id"`
	Title       string           `json:"title"`
	Description *string          `json:"description"`
	DueDate     *string          `json:"due_date"`
	Completed   bool             `json:"completed"`
	Priority    *models.Priority `json:"priority"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func newTaskResponse(t *models.Task) taskResponse {
	r := taskResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		Priority:    t.Priority,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.DueDate != nil {
		d := t.DueDate.Format(time.DateOnly)
		r.DueDate = &d
	}
	return r
}

// newTaskList never returns nil so an empty result encodes as [].
func newTaskList(tasks []*models.Task) []taskResponse {
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, newTaskResponse(t))
	}
	return out
}

// decodeBody fills dst from a JSON body. An empty body leaves dst untouched
// so the validator reports the missing fields. A value of the wrong JSON
// type becomes a field error rather than a 400; when dst can carry it, the
// rest of the body is still decoded and validated alongside.
func decodeBody(c *fiber.Ctx, dst any) error {
	body := c.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	err := c.App().Config().JSONDecoder(body, dst)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		errs := validation.Field(typeErr.Field,
			fmt.Sprintf("The %s field has an invalid type.", validation.Label(typeErr.Field)))
		if setter, ok := dst.(validation.DecodeErrorSetter); ok {
			setter.SetDecodeErrors(errs)
			return nil
		}
		return errs
	}

	return fiber.NewError(fiber.StatusBadRequest, "Malformed JSON body.")
}
