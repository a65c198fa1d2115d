package commands

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCredentialsCommand(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Manage SFTP passwords in the system keyring",
		Long: `Manage SFTP passwords in the system keyring.

Accounts are written as user@host:port, the same key sftp:// references
are looked up by when they carry no password.`,
	}
	cmd.AddCommand(newCredentialsSetCommand(g), newCredentialsDeleteCommand(g))
	return cmd
}

func newCredentialsSetCommand(g *globalOptions) *cobra.Command {
	var fromStdin bool

	cmd := &cobra.Command{
		Use:   "set <user@host:port>",
		Short: "Store a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := g.credentials()
			if err != nil {
				return err
			}
			if !fromStdin {
				return creds.SetFromInput(args[0])
			}

			password, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && password == "" {
				return fmt.Errorf("read password: %w", err)
			}
			password = strings.TrimRight(password, "\r\n")
			if password == "" {
				return errors.New("empty password")
			}
			return creds.Set(args[0], password)
		},
	}
	cmd.Flags().BoolVar(&fromStdin, "password-stdin", false, "read the password from stdin instead of prompting")
	return cmd
}

func newCredentialsDeleteCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <user@host:port>",
		Short: "Remove a stored password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := g.credentials()
			if err != nil {
				return err
			}
			return creds.Delete(args[0])
		},
	}
}
