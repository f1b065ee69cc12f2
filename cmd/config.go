package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dp-coding/zammad-tui/internal/config"
	"github.com/dp-coding/zammad-tui/internal/zammad"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the stored Zammad settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := config.Open()
		if err != nil {
			return err
		}
		fmt.Printf("url:   %s\n", store.URL())
		fmt.Printf("token: %s\n", maskToken(store.Token()))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <url> <token>",
	Short: "Store the Zammad base URL and API token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := config.Open()
		if err != nil {
			return err
		}
		svc := zammad.NewService(store)
		if err := svc.Initialize(args[0], args[1]); err != nil {
			return err
		}
		fmt.Println("Settings saved.")
		return nil
	},
}

func maskToken(token string) string {
	if token == "" {
		return "(not set)"
	}
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return token[:2] + strings.Repeat("*", len(token)-4) + token[len(token)-2:]
}

func init() {
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
