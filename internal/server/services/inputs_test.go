package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/dmitrijs2005/gophtasks/internal/validation"
)

func TestFlexBool_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		body        string
		wantValue   bool
		wantInvalid bool
	}{
		{`true`, true, false},
		{`false`, false, false},
		{`1`, true, false},
		{`0`, false, false},
		{`"1"`, true, false},
		{`"0"`, false, false},
		{`"true"`, true, false},
		{`"false"`, false, false},
		{`"yes"`, false, true},
		{`2`, false, true},
		{`{}`, false, true},
		{`[true]`, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			var in TaskInput
			require.NoError(t, json.Unmarshal([]byte(`{"completed":`+tt.body+`}`), &in))
			require.NotNil(t, in.Completed)
			assert.Equal(t, tt.wantValue, in.Completed.Value)
			assert.Equal(t, tt.wantInvalid, in.Completed.Invalid)
		})
	}

	var in TaskInput
	require.NoError(t, json.Unmarshal([]byte(`{"completed":null}`), &in))
	assert.Nil(t, in.Completed)
}

func TestParseDate(t *testing.T) {
	want := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)

	for _, s := range []string{"2025-03-05", "2025-03-05 17:30:00", "2025-03-05T23:59:00+02:00"} {
		got, ok := parseDate(s)
		require.True(t, ok, s)
		assert.Equal(t, want, got, s)
	}

	for _, s := range []string{"05/03/2025", "2025-02-30", "tomorrow", ""} {
		_, ok := parseDate(s)
		assert.False(t, ok, s)
	}
}

func TestTaskInput_ValidateCollectsEveryField(t *testing.T) {
	in := TaskInput{
		Title:     "",
		DueDate:   ptr("not a date"),
		Completed: &FlexBool{Invalid: true},
		Priority:  ptr("urgent"),
	}

	_, err := in.validate()
	require.ErrorIs(t, err, common.ErrorValidation)

	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.ElementsMatch(t, []string{"title", "due_date", "completed", "priority"}, keys(errs))
}

func TestTaskInput_ValidateKeepsDecodeErrors(t *testing.T) {
	in := TaskInput{DueDate: ptr("nope"), Priority: ptr("urgent")}
	in.SetDecodeErrors(validation.Field("title", "The title field has an invalid type."))

	_, err := in.validate()
	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.ElementsMatch(t, []string{"title", "due_date", "priority"}, keys(errs))
	assert.Equal(t, []string{"The title field has an invalid type."}, errs["title"])
}

func TestTaskInput_ValidateNormalizes(t *testing.T) {
	in := TaskInput{
		Title:       "  Buy milk  ",
		Description: ptr("   "),
		DueDate:     ptr(" 2025-03-05 "),
		Priority:    ptr(""),
		Completed:   &FlexBool{Value: true},
	}

	f, err := in.validate()
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", f.Title)
	assert.Nil(t, f.Description, "blank description becomes null")
	assert.Nil(t, f.Priority, "empty priority becomes null")
	require.NotNil(t, f.DueDate)
	assert.Equal(t, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), *f.DueDate)
	assert.True(t, f.Completed)

	// the input itself is untouched
	assert.Equal(t, "  Buy milk  ", in.Title)
}

func TestTaskInput_TitleLength(t *testing.T) {
	long := make([]rune, 256)
	for i := range long {
		long[i] = 'é'
	}
	_, err := TaskInput{Title: string(long)}.validate()
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = TaskInput{Title: string(long[:255])}.validate()
	assert.NoError(t, err)
}

func TestTaskFilterInput(t *testing.T) {
	f, err := TaskFilterInput{}.filter()
	require.NoError(t, err)
	assert.Equal(t, models.TaskFilter{}, f)

	f, err = TaskFilterInput{Search: " milk ", Completed: "0", Priority: "high"}.filter()
	require.NoError(t, err)
	assert.Equal(t, "milk", *f.Search)
	assert.False(t, *f.Completed)
	assert.Equal(t, models.PriorityHigh, *f.Priority)

	f, err = TaskFilterInput{Completed: "true"}.filter()
	require.NoError(t, err)
	assert.True(t, *f.Completed)

	_, err = TaskFilterInput{Completed: "maybe", Priority: "urgent"}.filter()
	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.ElementsMatch(t, []string{"completed", "priority"}, keys(errs))
}

func TestInputsNormalizeEmail(t *testing.T) {
	in := RegisterInput{Name: " Ana ", Email: "  Ana@X.com "}
	in.normalize()
	assert.Equal(t, "Ana", in.Name)
	assert.Equal(t, "ana@x.com", in.Email)

	p := ProfileInput{Password: ptr(""), PasswordCurrent: ptr(""), PasswordConfirmation: ptr("")}
	p.normalize()
	assert.Nil(t, p.Password)
	assert.Nil(t, p.PasswordCurrent)
	assert.Nil(t, p.PasswordConfirmation)
}

func keys(errs validation.Errors) []string {
	out := make([]string, 0, len(errs))
	for k := range errs {
		out = append(out, k)
	}
	return out
}
