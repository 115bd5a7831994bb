package cli

import (
	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/gophtasks/internal/client/api"
	"github.com/dmitrijs2005/gophtasks/internal/common"
)

func (a *App) registerCommand() *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if name == "" {
				if name, err = GetSimpleText(a.reader, "Name", a.out); err != nil {
					return err
				}
			}
			if email == "" {
				if email, err = GetSimpleText(a.reader, "Email", a.out); err != nil {
					return err
				}
			}

			password, err := GetPassword(a.reader, "Password", a.out)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(password)

			confirmation, err := GetPassword(a.reader, "Confirm password", a.out)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(confirmation)

			res, err := a.api.Register(cmd.Context(), api.RegisterRequest{
				Name:                 name,
				Email:                email,
				Password:             string(password),
				PasswordConfirmation: string(confirmation),
			})
			if err != nil {
				return err
			}

			if err := a.session.Begin(cmd.Context(), res.Token, &res.User); err != nil {
				return err
			}

			a.printf("Registered and logged in as %s <%s>\n", res.User.Name, res.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	return cmd
}

func (a *App) loginCommand() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if email == "" {
				if email, err = GetSimpleText(a.reader, "Email", a.out); err != nil {
					return err
				}
			}

			password, err := GetPassword(a.reader, "Password", a.out)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(password)

			res, err := a.api.Login(cmd.Context(), email, string(password))
			if err != nil {
				return err
			}

			if err := a.session.Begin(cmd.Context(), res.Token, &res.User); err != nil {
				return err
			}

			a.printf("Logged in as %s <%s>\n", res.User.Name, res.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	return cmd
}

func (a *App) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.logout(cmd, func(token string) error {
				return a.api.Logout(cmd.Context(), token)
			})
		},
	}
}

func (a *App) logoutAllCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout-all",
		Short: "Revoke every session of the account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.logout(cmd, func(token string) error {
				return a.api.LogoutAll(cmd.Context(), token)
			})
		},
	}
}

// logout forgets the local session even when the server could not be told.
func (a *App) logout(cmd *cobra.Command, revoke func(token string) error) error {
	ctx := cmd.Context()

	token, err := a.session.Token()
	if err != nil {
		return err
	}

	revokeErr := revoke(token)

	if err := a.session.Clear(ctx); err != nil {
		return err
	}

	if revokeErr != nil && !api.IsSessionInvalid(revokeErr) {
		a.printf("Logged out locally; the server could not be reached: %v\n", revokeErr)
		return nil
	}

	a.printf("Logged out\n")
	return nil
}

func (a *App) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.session.Refresh(cmd.Context()); err != nil {
				return err
			}
			printUser(a.out, a.session.Snapshot().User)
			return nil
		},
	}
}

func (a *App) profileCommand() *cobra.Command {
	var (
		name, email    string
		changePassword bool
	)

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Change name, email or password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			// start from what the server has now
			if err := a.session.Refresh(ctx); err != nil {
				return err
			}
			current := a.session.Snapshot().User

			req := api.ProfileRequest{Name: current.Name, Email: current.Email}
			if cmd.Flags().Changed("name") {
				req.Name = name
			}
			if cmd.Flags().Changed("email") {
				req.Email = email
			}

			if changePassword {
				fields := []struct {
					prompt string
					dst    **string
				}{
					{"Current password", &req.PasswordCurrent},
					{"New password", &req.Password},
					{"Confirm new password", &req.PasswordConfirmation},
				}
				for _, f := range fields {
					pw, err := GetPassword(a.reader, f.prompt, a.out)
					if err != nil {
						return err
					}
					s := string(pw)
					common.WipeByteArray(pw)
					*f.dst = &s
				}
			}

			var user *api.User
			err := a.authed(ctx, func(token string) error {
				var err error
				user, err = a.api.UpdateProfile(ctx, token, req)
				return err
			})
			if err != nil {
				return err
			}

			token, err := a.session.Token()
			if err != nil {
				return err
			}
			if err := a.session.Begin(ctx, token, user); err != nil {
				return err
			}

			a.printf("Profile updated\n")
			printUser(a.out, user)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new display name")
	cmd.Flags().StringVar(&email, "email", "", "new email address")
	cmd.Flags().BoolVar(&changePassword, "password", false, "change the password (prompts for current and new)")
	return cmd
}
