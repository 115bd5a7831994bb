// Package cli implements the gophtasks command-line client on top of cobra.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/gophtasks/internal/client/api"
	"github.com/dmitrijs2005/gophtasks/internal/client/config"
	"github.com/dmitrijs2005/gophtasks/internal/client/session"
	"github.com/dmitrijs2005/gophtasks/internal/filex"
)

// App is the state shared by every command of one invocation.
type App struct {
	configFile string
	serverURL  string
	sessionDB  string

	config  *config.Config
	api     *api.Client
	store   *session.Store
	session *session.Holder

	reader *bufio.Reader
	out    io.Writer
}

func newApp(in io.Reader, out io.Writer) *App {
	return &App{reader: bufio.NewReader(in), out: out}
}

// Execute runs the CLI with args. Errors are printed to errOut in a readable
// form and also returned so the caller can pick an exit code.
func Execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	a := newApp(in, out)
	defer a.close()

	root := a.rootCommand()
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(errOut, describeError(err))
	}
	return err
}

func (a *App) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "gophtasks",
		Short:         "gophtasks - personal task manager",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "path to JSON config file")
	root.PersistentFlags().StringVar(&a.serverURL, "server", "", "base URL of the gophtasks server")
	root.PersistentFlags().StringVar(&a.sessionDB, "session-db", "", "path to the local session database")

	root.AddCommand(
		a.registerCommand(),
		a.loginCommand(),
		a.logoutCommand(),
		a.logoutAllCommand(),
		a.whoamiCommand(),
		a.profileCommand(),
		a.tasksCommand(),
	)

	return root
}

// init loads the config, lets explicit flags override it and opens the
// session store.
func (a *App) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("server") {
		cfg.ServerURL = a.serverURL
	}
	if flags.Changed("session-db") {
		cfg.SessionDB = a.sessionDB
	}
	a.config = cfg

	if err := filex.EnsureParentDir(cfg.SessionDB); err != nil {
		return fmt.Errorf("session dir: %w", err)
	}

	store, err := session.OpenStore(cmd.Context(), cfg.SessionDB)
	if err != nil {
		return err
	}
	a.store = store

	a.api = api.New(cfg.ServerURL, cfg.RequestTimeout)
	a.session = session.NewHolder(store, a.api)

	return a.session.Load(cmd.Context())
}

func (a *App) close() {
	if a.store != nil {
		_ = a.store.Close()
	}
}

// authed runs fn with the current token and lets the session react to the
// outcome.
func (a *App) authed(ctx context.Context, fn func(token string) error) error {
	token, err := a.session.Token()
	if err != nil {
		return err
	}
	return a.session.HandleError(ctx, fn(token))
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
