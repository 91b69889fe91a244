package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/alextreichler/storefront/internal/access"
)

var (
	newUsername string
	newPassword string
	newRole     string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a user",
	Long: `Create a customer or admin account with a bcrypt-hashed password.

Examples:
  storectl user add --username alice --password secret
  storectl user add --username staff --password secret --role admin`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUserAdd(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userAddCmd)

	userAddCmd.Flags().StringVarP(&newUsername, "username", "u", "", "Username for the new user")
	userAddCmd.Flags().StringVarP(&newPassword, "password", "p", "", "Password for the new user")
	userAddCmd.Flags().StringVar(&newRole, "role", access.Customer.String(), "Role: customer or admin")
	userAddCmd.MarkFlagRequired("username")
	userAddCmd.MarkFlagRequired("password")
}

func runUserAdd(ctx context.Context) error {
	role, err := access.ParseRole(newRole)
	if err != nil {
		return err
	}
	if role == access.Guest {
		return fmt.Errorf("role %q cannot own an account", newRole)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user, err := st.CreateUser(ctx, newUsername, string(hashed), role.String())
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Printf("User '%s' (%s) created with id %d.\n", user.Username, user.Role, user.ID)
	return nil
}
