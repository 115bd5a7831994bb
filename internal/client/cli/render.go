package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/gophtasks/internal/client/api"
	"github.com/dmitrijs2005/gophtasks/internal/client/session"
)

func printUser(w io.Writer, u *api.User) {
	if u == nil {
		return
	}
	fmt.Fprintf(w, "%s <%s> (id %d)\n", u.Name, u.Email, u.ID)
}

func printTasks(w io.Writer, tasks []api.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDONE\tPRIORITY\tDUE\tTITLE")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", t.ID, checkbox(t.Completed), orDash(t.Priority), orDash(t.DueDate), t.Title)
	}
	_ = tw.Flush()
}

func printTask(w io.Writer, t *api.Task) {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", t.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", t.Title)
	fmt.Fprintf(tw, "Description:\t%s\n", orDash(t.Description))
	fmt.Fprintf(tw, "Due:\t%s\n", orDash(t.DueDate))
	fmt.Fprintf(tw, "Priority:\t%s\n", orDash(t.Priority))
	fmt.Fprintf(tw, "Completed:\t%t\n", t.Completed)
	fmt.Fprintf(tw, "Updated:\t%s\n", t.UpdatedAt.Local().Format("2006-01-02 15:04"))
	_ = tw.Flush()
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

// describeError turns API failures into something a person can act on.
func describeError(err error) string {
	var apiErr *api.Error

	switch {
	case errors.Is(err, session.ErrNotLoggedIn):
		return "Not logged in. Run `gophtasks login` first."
	case api.IsSessionInvalid(err):
		return "Your session has expired or was revoked. Please log in again."
	case errors.Is(err, api.ErrUnavailable):
		return "Server unavailable: " + err.Error()
	case errors.As(err, &apiErr):
		if len(apiErr.Fields) == 0 {
			return apiErr.Message
		}

		fields := make([]string, 0, len(apiErr.Fields))
		for f := range apiErr.Fields {
			fields = append(fields, f)
		}
		sort.Strings(fields)

		var b strings.Builder
		b.WriteString(apiErr.Message)
		for _, f := range fields {
			for _, msg := range apiErr.Fields[f] {
				fmt.Fprintf(&b, "\n  %s: %s", f, msg)
			}
		}
		return b.String()
	}

	return "Error: " + err.Error()
}
