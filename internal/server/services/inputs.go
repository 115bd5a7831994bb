package services

import (
	"bytes"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/dmitrijs2005/gophtasks/internal/validation"
)

// bcrypt ignores everything past 72 bytes, so longer passwords are refused.
const maxPasswordBytes = 72

const (
	msgEmailTaken       = "The email has already been taken."
	msgPasswordMismatch = "The password field confirmation does not match."
	msgPasswordTooLong  = "The password field must not be greater than 72 bytes."
	msgCompletedBool    = "The completed field must be true or false."
	msgDueDate          = "The due date field must be a valid date."
)

type RegisterInput struct {
	validation.Decoded `json:"-" validate:"-"`

	Name                 string `json:"name" validate:"required,max=255"`
	Email                string `json:"email" validate:"required,email,max=255"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation"`
}

func (in *RegisterInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
}

type LoginInput struct {
	validation.Decoded `json:"-" validate:"-"`

	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (in *LoginInput) normalize() {
	in.Email = normalizeEmail(in.Email)
}

// ProfileInput replaces name and email. The password changes only when
// Password is set, and then PasswordCurrent must verify.
type ProfileInput struct {
	validation.Decoded `json:"-" validate:"-"`

	Name                 string  `json:"name" validate:"required,max=255"`
	Email                string  `json:"email" validate:"required,email,max=255"`
	PasswordCurrent      *string `json:"password_current"`
	Password             *string `json:"password" validate:"omitempty,min=8"`
	PasswordConfirmation *string `json:"password_confirmation"`
}

func (in *ProfileInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.PasswordCurrent = nilIfEmpty(in.PasswordCurrent)
	in.Password = nilIfEmpty(in.Password)
	in.PasswordConfirmation = nilIfEmpty(in.PasswordConfirmation)
}

// TaskInput is the full set of writable task fields. Absent optional fields
// are cleared on update.
type TaskInput struct {
	validation.Decoded `json:"-" validate:"-"`

	Title       string    `json:"title" validate:"required,max=255"`
	Description *string   `json:"description"`
	DueDate     *string   `json:"due_date"`
	Completed   *FlexBool `json:"completed"`
	Priority    *string   `json:"priority" validate:"omitempty,oneof=low medium high"`
}

func (in *TaskInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = nilIfEmpty(trimPtr(in.Description))
	in.DueDate = nilIfEmpty(trimPtr(in.DueDate))
	in.Priority = nilIfEmpty(trimPtr(in.Priority))
}

// taskFields is a validated TaskInput.
type taskFields struct {
	Title       string
	Description *string
	DueDate     *time.Time
	Completed   bool
	Priority    *models.Priority
}

func (in TaskInput) validate() (taskFields, error) {
	in.normalize()
	errs := validation.Struct(in)

	f := taskFields{Title: in.Title, Description: in.Description}

	if in.DueDate != nil {
		d, ok := parseDate(*in.DueDate)
		if ok {
			f.DueDate = &d
		} else {
			errs.Add("due_date", msgDueDate)
		}
	}

	if in.Completed != nil {
		if in.Completed.Invalid {
			errs.Add("completed", msgCompletedBool)
		}
		f.Completed = in.Completed.Value
	}

	if in.Priority != nil && !errs.Has("priority") {
		p := models.Priority(*in.Priority)
		f.Priority = &p
	}

	if err := errs.OrNil(); err != nil {
		return taskFields{}, err
	}
	return f, nil
}

func (f taskFields) apply(t *models.Task) {
	t.Title = f.Title
	t.Description = f.Description
	t.DueDate = f.DueDate
	t.Completed = f.Completed
	t.Priority = f.Priority
}

// TaskFilterInput holds the raw listing query parameters.
type TaskFilterInput struct {
	Search    string
	Completed string
	Priority  string
}

func (in TaskFilterInput) filter() (models.TaskFilter, error) {
	var f models.TaskFilter
	errs := validation.Errors{}

	if s := strings.TrimSpace(in.Search); s != "" {
		f.Search = &s
	}

	if c := strings.TrimSpace(in.Completed); c != "" {
		v, ok := ParseFlexBool(c)
		if ok {
			f.Completed = &v
		} else {
			errs.Add("completed", msgCompletedBool)
		}
	}

	if p := strings.TrimSpace(in.Priority); p != "" {
		pr := models.Priority(p)
		if pr.Valid() {
			f.Priority = &pr
		} else {
			errs.Add("priority", "The priority field must be one of: low, medium, high.")
		}
	}

	if err := errs.OrNil(); err != nil {
		return models.TaskFilter{}, err
	}
	return f, nil
}

// FlexBool decodes the loose boolean forms clients send: true, false, 1, 0
// and their quoted variants. Anything else sets Invalid instead of failing
// the whole body, so it surfaces as a field error.
type FlexBool struct {
	Value   bool
	Invalid bool
}

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	v, ok := ParseFlexBool(string(bytes.Trim(bytes.TrimSpace(data), `"`)))
	b.Value, b.Invalid = v, !ok
	return nil
}

func (b FlexBool) MarshalJSON() ([]byte, error) {
	if b.Value {
		return []byte("true"), nil
	}
	return []byte("false"), nil
}

// ParseFlexBool accepts "1", "0", "true" and "false".
func ParseFlexBool(s string) (value, ok bool) {
	switch s {
	case "1", "true":
		return true, true
	case "0", "false":
		return false, true
	}
	return false, false
}

var dateLayouts = []string{time.DateOnly, time.DateTime, time.RFC3339}

// parseDate keeps the calendar date of s at midnight UTC.
func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func nilIfEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
