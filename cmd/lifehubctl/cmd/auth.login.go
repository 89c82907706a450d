package cmd

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lifehubapp/lifehub/pkg/sdk"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate to a lifehub server",
	Long: `Log in to a lifehub server with your email and password.

Examples:
	# prompt for email and password
	lifehubctl auth login

	# non-interactive (password still prompted)
	lifehubctl auth login --email me@example.com

The access token is stored in the OS keyring for subsequent commands.`,
	Run: runLogin,
}

func runLogin(cmd *cobra.Command, args []string) {
	email, _ := cmd.Flags().GetString("email")
	if email == "" {
		fmt.Print("Email: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			log.Fatalf("failed to read email: %v", err)
		}
		email = strings.TrimSpace(line)
	}

	fmt.Print("Password: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		log.Fatalf("failed to read password: %v", err)
	}

	client, err := sdk.NewSdk()
	if err != nil {
		log.Fatalf("failed to create client: %v", err)
	}

	tok, err := client.Login(cmd.Context(), email, string(pw))
	if err != nil {
		exitIfSdkError(err)
	}

	if uc, err := sdk.ParseUserFromToken(tok.AccessToken); err == nil {
		expStr := "unknown"
		if uc.Exp > 0 {
			expStr = time.Unix(uc.Exp, 0).Format(time.RFC3339)
		}
		fmt.Printf("Logged in as: %s <%s>\n", uc.Name, uc.Email)
		fmt.Printf("Token expires: %s\n", expStr)
	} else {
		log.Printf("warning: failed to parse token claims: %v", err)
	}

	if err := sdk.SaveToken(client.BaseURL, tok.AccessToken); err != nil {
		log.Printf("warning: failed to save token to keyring: %v", err)
	} else {
		fmt.Println("Access token saved")
	}
}

func init() {
	loginCmd.Flags().String("email", "", "account email (prompted when omitted)")
	authCmd.AddCommand(loginCmd)
}
