package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"lg/nutri-track-api/internal/config"
	"lg/nutri-track-api/internal/store"
)

var (
	newUsername string
	newEmail    string
	newPassword string
)

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create a user with a bcrypt-hashed password and an empty profile",
	Long:  "Missing --username, --email or --password values are prompted for on stdin.",
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := bufio.NewReader(cmd.InOrStdin())
		prompt := func(label, value string) string {
			if value != "" {
				return value
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ", label)
			line, _ := reader.ReadString('\n')
			return strings.TrimSpace(line)
		}
		username := prompt("Username", strings.TrimSpace(newUsername))
		email := prompt("Email", strings.TrimSpace(newEmail))
		password := prompt("Password", newPassword)
		if username == "" || password == "" {
			return fmt.Errorf("username and password are required")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		return withStore(cmd.Context(), func(st store.Store, _ config.Config) error {
			u, err := st.CreateUser(cmd.Context(), username, email, string(hash))
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nUser created successfully!\n")
			fmt.Fprintf(cmd.OutOrStdout(), "  ID:       %d\n", u.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "  Username: %s\n", u.Username)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(createUserCmd)
	createUserCmd.Flags().StringVar(&newUsername, "username", "", "Login name")
	createUserCmd.Flags().StringVar(&newEmail, "email", "", "Email address")
	createUserCmd.Flags().StringVar(&newPassword, "password", "", "Password (prompted when empty)")
}
