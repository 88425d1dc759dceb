package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/sguter90/microclimate/pkg/models"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "User management commands",
	Long:  `Commands for managing operator accounts.`,
}

var createUserCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new user",
	RunE:  withDatabase(runCreateUser),
}

var deactivateUserCmd = &cobra.Command{
	Use:   "deactivate <username>",
	Short: "Prevent a user from logging in",
	Args:  cobra.ExactArgs(1),
	RunE:  withDatabase(runSetUserActive(false)),
}

var activateUserCmd = &cobra.Command{
	Use:   "activate <username>",
	Short: "Allow a deactivated user to log in again",
	Args:  cobra.ExactArgs(1),
	RunE:  withDatabase(runSetUserActive(true)),
}

var passwdUserCmd = &cobra.Command{
	Use:   "passwd <username>",
	Short: "Set a new password for a user",
	Args:  cobra.ExactArgs(1),
	RunE:  withDatabase(runSetUserPassword),
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(createUserCmd, deactivateUserCmd, activateUserCmd, passwdUserCmd)
}

func runCreateUser(cmd *cobra.Command, args []string) error {
	dbManager := dbManagerFrom(cmd)

	reader := bufio.NewReader(os.Stdin)

	username, err := prompt(reader, "Enter username: ")
	if err != nil {
		return err
	}
	email, err := prompt(reader, "Enter email: ")
	if err != nil {
		return err
	}
	fullName, err := prompt(reader, "Enter full name (optional): ")
	if err != nil {
		return err
	}

	password, confirm, err := promptNewPassword()
	if err != nil {
		return err
	}

	user, err := dbManager.CreateUser(cmd.Context(), models.SignupRequest{
		Username:        username,
		Email:           email,
		Password:        password,
		ConfirmPassword: confirm,
		FullName:        fullName,
	})
	if err != nil {
		return err
	}

	fmt.Printf("User created successfully!\n")
	fmt.Printf("ID: %d\n", user.ID)
	fmt.Printf("Username: %s\n", user.Username)
	fmt.Printf("Email: %s\n", user.Email)
	fmt.Printf("Created: %s\n", user.CreatedAt.Format("2006-01-02 15:04:05"))

	return nil
}

func runSetUserActive(active bool) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := dbManagerFrom(cmd).SetUserActive(cmd.Context(), args[0], active); err != nil {
			return fmt.Errorf("failed to update user %s: %w", args[0], err)
		}

		state := "deactivated"
		if active {
			state = "activated"
		}
		fmt.Printf("User %s %s\n", args[0], state)
		return nil
	}
}

func runSetUserPassword(cmd *cobra.Command, args []string) error {
	password, confirm, err := promptNewPassword()
	if err != nil {
		return err
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}

	if err := dbManagerFrom(cmd).SetUserPassword(cmd.Context(), args[0], password); err != nil {
		return fmt.Errorf("failed to update password of %s: %w", args[0], err)
	}

	fmt.Printf("Password of %s updated\n", args[0])
	return nil
}

func prompt(reader *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	value, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(value), nil
}

// promptNewPassword reads a password and its confirmation without echo
func promptNewPassword() (string, string, error) {
	password, err := promptPassword("Enter password: ")
	if err != nil {
		return "", "", err
	}
	if password == "" {
		return "", "", errors.New("password cannot be empty")
	}

	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return "", "", err
	}
	return password, confirm, nil
}

func promptPassword(label string) (string, error) {
	fmt.Print(label)
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Println() // New line after password input
	return string(passwordBytes), nil
}
