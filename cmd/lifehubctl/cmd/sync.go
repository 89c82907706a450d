package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/lifehubapp/lifehub/pkg/sdk"
)

var syncCmd = &cobra.Command{
	Use:   "sync <garmin|strava>",
	Short: "Trigger a sync pass for a linked provider",
	Long: `Trigger a server-side sync pass for one of your linked providers.

Examples:
  lifehubctl sync garmin
  lifehubctl sync strava --days 60`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		provider := args[0]
		if provider != "garmin" && provider != "strava" {
			log.Fatalf("unknown provider %q (want garmin or strava)", provider)
		}
		days, _ := cmd.Flags().GetInt("days")

		client, err := sdk.NewSdk()
		if err != nil {
			exitIfSdkError(err)
		}

		result, err := client.Sync(cmd.Context(), provider, days)
		if err != nil {
			exitIfSdkError(err)
		}

		fmt.Printf("Synced %s: %d items (%d created, %d updated)\n",
			provider, result.ItemsSynced, result.ItemsCreated, result.ItemsUpdated)
		if !result.Success {
			fmt.Println("Sync did not complete cleanly:")
		}
		for _, e := range result.Errors {
			fmt.Printf("  - %s\n", e)
		}
	},
}

var connectionCmd = &cobra.Command{
	Use:   "connection <garmin|strava>",
	Short: "Show the link status for a provider",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		provider := args[0]
		if provider != "garmin" && provider != "strava" {
			log.Fatalf("unknown provider %q (want garmin or strava)", provider)
		}

		client, err := sdk.NewSdk()
		if err != nil {
			exitIfSdkError(err)
		}

		snap, err := client.Connection(cmd.Context(), provider)
		if err != nil {
			exitIfSdkError(err)
		}

		fmt.Printf("Provider: %s\n", snap.Provider)
		fmt.Printf("Status: %s\n", snap.SyncStatus)
		if snap.DisplayName != "" {
			fmt.Printf("Account: %s\n", snap.DisplayName)
		}
		if snap.LastSyncAt != nil {
			fmt.Printf("Last sync: %s\n", snap.LastSyncAt.Format("2006-01-02 15:04:05"))
		}
		if snap.LastError != "" {
			fmt.Printf("Last error: %s\n", snap.LastError)
		}
	},
}

func init() {
	syncCmd.Flags().Int("days", 0, "days of history to sync (0 = server default)")
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(connectionCmd)
}
