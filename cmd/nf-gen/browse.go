package main

import (
	"github.com/spf13/cobra"

	"Go2NetForge/internal/engine/profile"
)

var (
	flagBrowseClient     string
	flagBrowseClientBase string
	flagBrowseUsers      int
	flagBrowsePages      int
	flagBrowseResolver   string
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Generate benign web-browsing traffic",
	Long: `Generate one or more simulated users browsing the web. Each page
visit resolves the host over DNS, opens a TCP connection, fetches the page
and its assets over HTTP and closes the connection.`,
	RunE: browseCommand,
}

func init() {
	browseCmd.Flags().StringVar(&flagBrowseClient, "client", "", "Client address (single user, derived from seed when unset)")
	browseCmd.Flags().StringVar(&flagBrowseClientBase, "client-base", "", "First client address for multi-user runs")
	browseCmd.Flags().IntVar(&flagBrowseUsers, "users", 1, "Number of concurrent users")
	browseCmd.Flags().IntVar(&flagBrowsePages, "pages", 6, "Pages visited per user")
	browseCmd.Flags().StringVar(&flagBrowseResolver, "resolver", "", "DNS resolver address")
	rootCmd.AddCommand(browseCmd)
}

func browseCommand(cmd *cobra.Command, args []string) error {
	client, err := parseIPFlag("client", flagBrowseClient)
	if err != nil {
		return err
	}
	clientBase, err := parseIPFlag("client-base", flagBrowseClientBase)
	if err != nil {
		return err
	}
	resolver, err := parseIPFlag("resolver", flagBrowseResolver)
	if err != nil {
		return err
	}
	start, err := startTime()
	if err != nil {
		return err
	}

	batch, summary, err := profile.Browsing(profile.BrowsingConfig{
		Client:     client,
		ClientBase: clientBase,
		Users:      flagBrowseUsers,
		Pages:      flagBrowsePages,
		Resolver:   resolver,
		Verbose:    flagVerbose,
		Seed:       seedContext(),
		Start:      start,
	})
	if err != nil {
		return err
	}
	return emit(batch, summary)
}
