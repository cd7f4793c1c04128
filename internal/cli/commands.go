package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/pickteum-api/pkg/client"
	"github.com/spf13/cobra"
)

// failureCode distinguishes server answers from transport problems
func failureCode(err error) int {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return ExitFailure
	}
	return ExitCommandError
}

// NewPublishScheduledCommand creates the publish-scheduled command.
func NewPublishScheduledCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "publish-scheduled",
		Short: "Publish every scheduled article whose time has come",
		Long: `Triggers one scheduled-publish pass on the server.

Authenticates with --cron-token (PICKTEUM_CRON_TOKEN) when set, otherwise
with the admin session in --token. Suitable for an external crontab.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}

			if rootOpts.CronToken == "" && rootOpts.Token == "" {
				return out.Failure(ExitCommandError, "publish-scheduled", errors.New("either --cron-token or --token is required"))
			}

			result, err := rootOpts.newClient().PublishScheduled(cmd.Context())
			if err != nil {
				return out.Failure(failureCode(err), "publish-scheduled failed", err)
			}

			return out.Success(result, func(w io.Writer) {
				fmt.Fprintf(w, "published %d article(s)\n", result.PublishedCount)
			})
		},
	}
}

// FeedOptions holds flags for the feed command.
type FeedOptions struct {
	Category string
	Limit    int
	Pages    int
}

// NewFeedCommand creates the feed command.
func NewFeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FeedOptions{}

	cmd := &cobra.Command{
		Use:          "feed",
		Short:        "Read the public article feed",
		Long:         "Loads feed pages one after another, the way the reader's infinite scroll does, and prints the merged list.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFeed(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Category, "category", "all", "category display name, or all")
	cmd.Flags().IntVar(&opts.Limit, "limit", 10, "articles per page (1-50)")
	cmd.Flags().IntVar(&opts.Pages, "pages", 1, "maximum pages to load; 0 loads until the feed ends")

	return cmd
}

func runFeed(cmd *cobra.Command, rootOpts *RootOptions, opts *FeedOptions) error {
	out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}

	if opts.Limit < 1 || opts.Limit > 50 {
		return out.Failure(ExitCommandError, "feed", fmt.Errorf("--limit must be between 1 and 50, got %d", opts.Limit))
	}
	if opts.Pages < 0 {
		return out.Failure(ExitCommandError, "feed", fmt.Errorf("--pages must not be negative, got %d", opts.Pages))
	}

	acc := client.NewFeedAccumulator(rootOpts.newClient(), opts.Category, opts.Limit)
	for acc.HasMore() && (opts.Pages == 0 || acc.Pages() < opts.Pages) {
		if _, err := acc.Next(cmd.Context()); err != nil {
			return out.Failure(failureCode(err), "feed failed", err)
		}
	}

	articles := acc.Articles()
	data := map[string]interface{}{
		"articles": articles,
		"hasMore":  acc.HasMore(),
		"pages":    acc.Pages(),
	}

	return out.Success(data, func(w io.Writer) {
		for _, a := range articles {
			category := "-"
			if a.Category != nil {
				category = a.Category.Name
			}
			fmt.Fprintf(w, "%s  [%s]  %s  (%s)\n", a.Date, category, a.Title, a.Slug)
		}
		if acc.HasMore() {
			fmt.Fprintf(w, "... more available after page %d\n", acc.Pages())
		}
	})
}

// NewCategoriesCommand creates the categories command.
func NewCategoriesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "categories",
		Short:        "List categories",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}

			categories, err := rootOpts.newClient().Categories(cmd.Context())
			if err != nil {
				return out.Failure(failureCode(err), "categories failed", err)
			}

			return out.Success(categories, func(w io.Writer) {
				for _, c := range categories {
					fmt.Fprintf(w, "%d\t%s\t%s\n", c.SortOrder, c.Name, c.Color)
				}
			})
		},
	}
}
