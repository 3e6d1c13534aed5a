package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/studiowebux/authdialog/internal/auth"
)

// PasswordResetter completes a password reset with an emailed code
type PasswordResetter interface {
	ConfirmPasswordReset(ctx context.Context, code, newPassword string) (string, error)
}

var _ PasswordResetter = (*auth.Client)(nil)

// ResetOptions carries values given on the command line
type ResetOptions struct {
	Code        string
	NewPassword string
	Accessible  bool // plain prompts for screen readers
}

// ResetPassword prompts for whatever opts is missing and sets the new
// password
func ResetPassword(ctx context.Context, w io.Writer, client PasswordResetter, opts ResetOptions) error {
	if opts.Code == "" || opts.NewPassword == "" {
		if !stdinIsTerminal() {
			return errors.New("reset code and new password are required when stdin is not a terminal")
		}
		if err := promptReset(&opts); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return errors.New("password reset cancelled")
			}
			return fmt.Errorf("failed to read input: %w", err)
		}
	}

	email, err := client.ConfirmPasswordReset(ctx, strings.TrimSpace(opts.Code), opts.NewPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", auth.Message(err), err)
	}

	if email != "" {
		fmt.Fprintf(w, "%sPassword updated for %s%s\n", colorGreen, email, colorReset)
	} else {
		fmt.Fprintf(w, "%sPassword updated%s\n", colorGreen, colorReset)
	}
	return nil
}

// promptReset asks for the reset code and the new password, typed twice
func promptReset(opts *ResetOptions) error {
	var fields []huh.Field

	if opts.Code == "" {
		fields = append(fields, huh.NewInput().
			Title("Reset code").
			Description("The oobCode printed by the backend").
			Value(&opts.Code).
			Validate(required("reset code")))
	}

	if opts.NewPassword == "" {
		var verify string
		fields = append(fields,
			huh.NewInput().
				Title("New password").
				EchoMode(huh.EchoModePassword).
				Value(&opts.NewPassword).
				Validate(required("password")),
			huh.NewInput().
				Title("Verify password").
				EchoMode(huh.EchoModePassword).
				Value(&verify).
				Validate(func(s string) error {
					if s != opts.NewPassword {
						return errors.New("passwords do not match")
					}
					return nil
				}),
		)
	}

	return huh.NewForm(huh.NewGroup(fields...)).
		WithAccessible(opts.Accessible).
		Run()
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}
