package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lifehubapp/lifehub/pkg/sdk"
)

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Show information about the current authenticated user",
	Run: func(cmd *cobra.Command, args []string) {
		client, err := sdk.NewSdk()
		if err != nil {
			exitIfSdkError(err)
		}

		u, err := client.Me(cmd.Context())
		if err != nil {
			exitIfSdkError(err)
		}

		fmt.Printf("Logged in: %s\n", u.Name)
		fmt.Printf("Email: %s\n", u.Email)
		fmt.Printf("ID: %s\n", u.ID)
	},
}

func init() {
	rootCmd.AddCommand(meCmd)
}
