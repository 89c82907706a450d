package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lifehubapp/lifehub/pkg/sdk"
)

var workCmd = &cobra.Command{
	Use:   "work",
	Short: "Report work metrics from this machine",
}

var workReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Push one work metric heartbeat",
	Long: `Push a single work metric packet to the server's ingest endpoint.

The packet is authenticated with the shared ingest API key (config key
ingestApiKey or LIFEHUB_INGESTAPIKEY), not your login token, so it can run
from cron or a tracker daemon. The target user comes from the userId config
key.

Examples:
  lifehubctl work report --screen-time 25 --focus 80 --category coding
  lifehubctl work report --screen-time 15`,
	Run: func(cmd *cobra.Command, args []string) {
		apiKey := viper.GetString(sdk.IngestApiKeyKey)
		if apiKey == "" {
			log.Fatalf("no ingest API key configured (set ingestApiKey or LIFEHUB_INGESTAPIKEY)")
		}
		userID := viper.GetString(sdk.UserIdKey)
		if userID == "" {
			log.Fatalf("no user id configured (set userId or LIFEHUB_USERID)")
		}

		packet := &sdk.WorkPacket{
			UserID:    userID,
			Timestamp: time.Now().UTC(),
		}
		if cmd.Flags().Changed("screen-time") {
			v, _ := cmd.Flags().GetInt("screen-time")
			packet.ScreenTimeMinutes = &v
		}
		if cmd.Flags().Changed("focus") {
			v, _ := cmd.Flags().GetInt("focus")
			packet.FocusScore = &v
		}
		packet.ActiveWindowCategory, _ = cmd.Flags().GetString("category")

		client, err := sdk.NewSdk()
		if err != nil {
			exitIfSdkError(err)
		}

		if err := client.IngestWork(cmd.Context(), apiKey, packet); err != nil {
			exitIfSdkError(err)
		}
		fmt.Println("Work metric recorded")
	},
}

func init() {
	workReportCmd.Flags().Int("screen-time", 0, "screen time in minutes since the last report")
	workReportCmd.Flags().Int("focus", 0, "focus score 0-100")
	workReportCmd.Flags().String("category", "", "active window category (e.g. coding, browsing)")
	workCmd.AddCommand(workReportCmd)
	rootCmd.AddCommand(workCmd)
}
