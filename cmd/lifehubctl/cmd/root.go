package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lifehubapp/lifehub/pkg/sdk"
)

type contextKey string

const configContextKey contextKey = "lifehubconfig"

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "lifehubctl",
		Short: "CLI for interacting with a lifehub server (auth, sync, work tracking)",
		Long: `lifehubctl is a small command-line tool for interacting with a running
lifehub API. It provides subcommands to authenticate, inspect your profile
and provider connections, trigger syncs, and push work metrics from this
machine. Use the auth subcommands to obtain and manage tokens; use sync to
pull fresh data from Garmin or Strava; and use work to report screen time
and focus heartbeats.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := sdk.LoadConfig(cfgFile)
			if err != nil {
				return err
			}

			if err := cfg.Viper().BindPFlags(cmd.Flags()); err != nil {
				return err
			}

			// Mirror resolved values into the global viper so sdk.NewSdk and
			// subcommands see the same config.
			if v := cmd.Flag("base-url").Value.String(); v != "" {
				viper.Set(sdk.BaseUrlKey, v)
			} else {
				viper.Set(sdk.BaseUrlKey, cfg.GetString(sdk.BaseUrlKey))
			}
			viper.Set(sdk.IngestApiKeyKey, cfg.GetString(sdk.IngestApiKeyKey))
			viper.Set(sdk.UserIdKey, cfg.GetString(sdk.UserIdKey))

			ctx := context.WithValue(cmd.Context(), configContextKey, cfg)
			cmd.SetContext(ctx)

			return nil
		},
	}
)

// GetConfig retrieves the Config from the command context
func GetConfig(cmd *cobra.Command) (*sdk.Config, error) {
	ctx := cmd.Context()
	cfg, ok := ctx.Value(configContextKey).(*sdk.Config)
	if !ok {
		return nil, errors.New("no config in context")
	}
	return cfg, nil
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML). Searches: lifehub.yaml, .lifehub/config.yaml, $XDG_CONFIG_HOME/lifehub")
	rootCmd.PersistentFlags().String("base-url", "", "Base URL for the lifehub server (overrides config)")
}
