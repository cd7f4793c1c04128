package cli

import (
	"fmt"
	"os"

	"github.com/pickteum-api/pkg/client"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Server    string
	Token     string
	CronToken string
	Format    string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for pickteumctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "pickteumctl",
		Short: "Command line client for the Pickteum news API",
		Long:  "Reads the public feed and runs admin operations such as scheduled publishing against a Pickteum API server.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.Server, "server", envOr("PICKTEUM_API_URL", "http://localhost:8080"), "API base URL")
	cmd.PersistentFlags().StringVar(&opts.Token, "token", os.Getenv("PICKTEUM_TOKEN"), "admin session token")
	cmd.PersistentFlags().StringVar(&opts.CronToken, "cron-token", os.Getenv("PICKTEUM_CRON_TOKEN"), "scheduler trigger token")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewPublishScheduledCommand(opts))
	cmd.AddCommand(NewFeedCommand(opts))
	cmd.AddCommand(NewCategoriesCommand(opts))

	return cmd
}

// newClient builds an API client from the global flags
func (o *RootOptions) newClient() *client.Client {
	c := client.New(o.Server)
	if o.Token != "" {
		c.SetToken(o.Token)
	}
	if o.CronToken != "" {
		c.SetCronToken(o.CronToken)
	}
	return c
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
