package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/gophtasks/internal/client/api"
)

func (a *App) tasksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage your tasks",
	}

	cmd.AddCommand(
		a.tasksListCommand(),
		a.tasksAddCommand(),
		a.tasksShowCommand(),
		a.tasksEditCommand(),
		a.tasksSetCompletedCommand("done", "Mark a task as completed", true),
		a.tasksSetCompletedCommand("undone", "Mark a task as not completed", false),
		a.tasksRemoveCommand(),
	)
	return cmd
}

func (a *App) tasksListCommand() *cobra.Command {
	var (
		filter             api.TaskFilter
		completed, pending bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if completed || pending {
				v := completed
				filter.Completed = &v
			}

			var tasks []api.Task
			err := a.authed(cmd.Context(), func(token string) error {
				var err error
				tasks, err = a.api.ListTasks(cmd.Context(), token, filter)
				return err
			})
			if err != nil {
				return err
			}

			printTasks(a.out, tasks)
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.Search, "search", "", "match title or description")
	cmd.Flags().BoolVar(&completed, "completed", false, "only completed tasks")
	cmd.Flags().BoolVar(&pending, "pending", false, "only tasks not completed yet")
	cmd.Flags().StringVar(&filter.Priority, "priority", "", "low, medium or high")
	cmd.MarkFlagsMutuallyExclusive("completed", "pending")
	return cmd
}

// taskFlags are the optional fields shared by add and edit.
type taskFlags struct {
	description string
	due         string
	priority    string
}

func (f *taskFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.description, "description", "", "free-form description (empty clears it)")
	cmd.Flags().StringVar(&f.due, "due", "", "due date, YYYY-MM-DD (empty clears it)")
	cmd.Flags().StringVar(&f.priority, "priority", "", "low, medium or high (empty clears it)")
}

// apply copies every flag the user set onto req. An empty value clears
// the field.
func (f *taskFlags) apply(cmd *cobra.Command, req *api.TaskRequest) {
	set := func(name, value string, dst **string) {
		if !cmd.Flags().Changed(name) {
			return
		}
		if value == "" {
			*dst = nil
			return
		}
		v := value
		*dst = &v
	}
	set("description", f.description, &req.Description)
	set("due", f.due, &req.DueDate)
	set("priority", f.priority, &req.Priority)
}

func (a *App) tasksAddCommand() *cobra.Command {
	var flags taskFlags

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := api.TaskRequest{Title: args[0]}
			flags.apply(cmd, &req)

			var task *api.Task
			err := a.authed(cmd.Context(), func(token string) error {
				var err error
				task, err = a.api.CreateTask(cmd.Context(), token, req)
				return err
			})
			if err != nil {
				return err
			}

			a.printf("Created task %d\n", task.ID)
			printTask(a.out, task)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func (a *App) tasksShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}

			var task *api.Task
			err = a.authed(cmd.Context(), func(token string) error {
				var err error
				task, err = a.api.GetTask(cmd.Context(), token, id)
				return err
			})
			if err != nil {
				return err
			}

			printTask(a.out, task)
			return nil
		},
	}
}

func (a *App) tasksEditCommand() *cobra.Command {
	var (
		flags taskFlags
		title string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a task",
		Long:  "Change fields of a task. Fields without a flag keep their current values.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}

			task, err := a.modifyTask(cmd.Context(), id, func(req *api.TaskRequest) {
				if cmd.Flags().Changed("title") {
					req.Title = title
				}
				flags.apply(cmd, req)
			})
			if err != nil {
				return err
			}

			a.printf("Updated task %d\n", task.ID)
			printTask(a.out, task)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	flags.register(cmd)
	return cmd
}

func (a *App) tasksSetCompletedCommand(use, short string, completed bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}

			task, err := a.modifyTask(cmd.Context(), id, func(req *api.TaskRequest) {
				req.Completed = completed
			})
			if err != nil {
				return err
			}

			printTask(a.out, task)
			return nil
		},
	}
}

// modifyTask fetches the task, lets change edit the full body and sends it
// back. The server replaces every field on update.
func (a *App) modifyTask(ctx context.Context, id int64, change func(*api.TaskRequest)) (*api.Task, error) {
	var task *api.Task
	err := a.authed(ctx, func(token string) error {
		current, err := a.api.GetTask(ctx, token, id)
		if err != nil {
			return err
		}

		req := api.RequestFrom(current)
		change(&req)

		task, err = a.api.UpdateTask(ctx, token, id, req)
		return err
	})
	return task, err
}

func (a *App) tasksRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}

			err = a.authed(cmd.Context(), func(token string) error {
				return a.api.DeleteTask(cmd.Context(), token, id)
			})
			if err != nil {
				return err
			}

			a.printf("Deleted task %d\n", id)
			return nil
		},
	}
}

func parseTaskID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}
