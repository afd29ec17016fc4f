package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/messixieziyi/life-story/internal/application/handlers"
	"github.com/messixieziyi/life-story/internal/domain/entities"
)

type credentialFlags struct {
	email    string
	password string
}

func (f *credentialFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&f.password, "password", "p", "", "Account password (prompted when omitted)")
}

func newSignUpCmd() *cobra.Command {
	var flags credentialFlags

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			email := promptIfEmpty(flags.email, "Email")
			password := promptIfEmpty(flags.password, "Password")
			confirm := password
			if flags.password == "" {
				confirm = prompt("Confirm password")
			}

			return withAuthHandler(cmd.Context(), func(h *handlers.AuthHandler) error {
				user, err := h.HandleSignUp(cmd.Context(), email, password, confirm)
				if err != nil {
					return authFailure(err)
				}
				fmt.Printf("Welcome, %s! You are signed in.\n", user.Email)
				if !user.EmailVerified {
					fmt.Println("Verify your email with 'lifestory verify-email'.")
				}
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newLoginCmd() *cobra.Command {
	var flags credentialFlags

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to an existing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			email := promptIfEmpty(flags.email, "Email")
			password := promptIfEmpty(flags.password, "Password")

			return withAuthHandler(cmd.Context(), func(h *handlers.AuthHandler) error {
				user, err := h.HandleSignIn(cmd.Context(), email, password)
				if err != nil {
					return authFailure(err)
				}
				fmt.Printf("Signed in as %s\n", user.Email)
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAuthHandler(cmd.Context(), func(h *handlers.AuthHandler) error {
				if err := h.HandleSignOut(cmd.Context()); err != nil {
					return authFailure(err)
				}
				fmt.Println("Signed out.")
				return nil
			})
		},
	}
}

func newWhoAmICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAuthHandler(cmd.Context(), func(h *handlers.AuthHandler) error {
				user, err := h.HandleCurrent()
				if err != nil {
					return err
				}
				status := "unverified"
				if user.EmailVerified {
					status = "verified"
				}
				fmt.Printf("%s (%s)\nID: %s\n", user.Email, status, user.ID)
				return nil
			})
		},
	}
}

func newVerifyEmailCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "verify-email",
		Short: "Mark an account email as verified",
		Long:  "Stands in for the emailed confirmation link. Defaults to the signed-in account.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAuthHandler(cmd.Context(), func(h *handlers.AuthHandler) error {
				target := email
				if target == "" {
					user, err := h.HandleCurrent()
					if err != nil {
						return err
					}
					target = user.Email
				}
				if err := h.HandleVerifyEmail(cmd.Context(), target); err != nil {
					return err
				}
				fmt.Printf("Verified %s\n", target)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "Email to verify (default: signed-in account)")
	return cmd
}

// authFailure surfaces the localized message of an AuthError.
func authFailure(err error) error {
	var authErr *entities.AuthError
	if errors.As(err, &authErr) {
		return errors.New(authErr.Message())
	}
	return err
}

func promptIfEmpty(value, label string) string {
	if value != "" {
		return value
	}
	return prompt(label)
}

// stdin is shared so consecutive prompts don't lose buffered input.
var stdin = bufio.NewReader(os.Stdin)

func prompt(label string) string {
	fmt.Printf("%s: ", label)
	response, _ := stdin.ReadString('\n') // EOF leaves the answer empty
	return strings.TrimSpace(response)
}
