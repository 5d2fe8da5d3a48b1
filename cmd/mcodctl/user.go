package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/otwartedane/mcod/pkg/auth"
	"github.com/otwartedane/mcod/pkg/model"
)

// userCmd represents the user command
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage portal users",
	Long:  `Manage portal user accounts.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'user' requires a subcommand (create)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

// userCreateCmd represents the user create command
var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a portal user",
	Long: `Create an active portal user.

The password is read from MCOD_USER_PASSWORD so it does not end up in the
shell history. Roles are user, agent and admin.

Example:
  MCOD_USER_PASSWORD=... mcodctl user create --email admin@example.com --role admin`,
	Run: func(cmd *cobra.Command, args []string) {
		email, _ := cmd.Flags().GetString("email")
		fullname, _ := cmd.Flags().GetString("fullname")
		role, _ := cmd.Flags().GetString("role")

		u, err := createUser(email, fullname, role, os.Getenv("MCOD_USER_PASSWORD"))
		if err != nil {
			fail("Failed to create user", err)
		}
		fmt.Printf("Created %s user %s (id %d)\n", u.Role, u.Email, u.ID)
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userCreateCmd)
	userCreateCmd.Flags().String("email", "", "Email address used to log in")
	userCreateCmd.Flags().String("fullname", "", "Full name")
	userCreateCmd.Flags().String("role", model.UserRoleUser.String(), "Role (user, agent or admin)")
	_ = userCreateCmd.MarkFlagRequired("email")
}

func createUser(email, fullname, role, password string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if !auth.IsValidEmail(email) {
		return nil, fmt.Errorf("invalid email %q", email)
	}
	r, err := model.UserRoleString(role)
	if err != nil {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	if password == "" {
		return nil, errors.New("MCOD_USER_PASSWORD environment variable is required")
	}
	if err := auth.ValidatePassword(password); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	s, err := newApp()
	if err != nil {
		return nil, err
	}
	u := &model.User{
		Email:    email,
		Password: hash,
		Fullname: fullname,
		Role:     r,
		IsActive: true,
	}
	if err := s.UsersStore.CreateUser(context.Background(), u); err != nil {
		return nil, err
	}
	return u, nil
}
