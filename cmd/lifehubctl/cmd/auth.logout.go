package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lifehubapp/lifehub/pkg/sdk"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored access token",
	Run: func(cmd *cobra.Command, args []string) {
		baseURL := viper.GetString(sdk.BaseUrlKey)
		if err := sdk.DeleteToken(baseURL); err != nil {
			log.Printf("no stored token for %s (%v)", baseURL, err)
			return
		}
		fmt.Println("Logged out")
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current authentication status",
	Run: func(cmd *cobra.Command, args []string) {
		baseURL := viper.GetString(sdk.BaseUrlKey)
		token, err := sdk.LoadToken(baseURL)
		if err != nil || token == "" {
			fmt.Printf("Not logged in to %s\n", baseURL)
			return
		}

		uc, err := sdk.ParseUserFromToken(token)
		if err != nil {
			fmt.Printf("Stored token is unreadable: %v\n", err)
			return
		}

		expired, _ := sdk.IsTokenExpired(token, 0)
		state := "valid"
		if expired {
			state = "expired"
		}
		fmt.Printf("Logged in to %s as %s <%s> (token %s)\n", baseURL, uc.Name, uc.Email, state)
	},
}

func init() {
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)
}
