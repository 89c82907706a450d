package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication with the lifehub server (login, logout, status)",
	Long: `Manage authentication against a running lifehub server.

Subcommands let you obtain tokens (login), invalidate them (logout), and
inspect the current authentication status. Tokens are stored in the OS
keyring for use by other lifehubctl commands.

Examples:
  lifehubctl auth login
  lifehubctl auth logout
  lifehubctl auth status`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("auth called")
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
}
