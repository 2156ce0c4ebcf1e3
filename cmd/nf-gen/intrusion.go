package main

import (
	"github.com/spf13/cobra"

	"Go2NetForge/internal/engine/profile"
)

var (
	flagIntrusionVictim    string
	flagIntrusionAttacker  string
	flagIntrusionServer    string
	flagIntrusionDownloads int
)

var intrusionCmd = &cobra.Command{
	Use:   "intrusion",
	Short: "Generate a staged intrusion against one victim",
	Long: `Generate a three-phase intrusion: credential harvesting over the
victim's control port, payload downloads from a drop server, then remote
command execution.`,
	RunE: intrusionCommand,
}

func init() {
	intrusionCmd.Flags().StringVar(&flagIntrusionVictim, "victim", "", "Victim address (required)")
	intrusionCmd.Flags().StringVar(&flagIntrusionAttacker, "attacker", "", "Attacker address (derived from seed when unset)")
	intrusionCmd.Flags().StringVar(&flagIntrusionServer, "server", "", "Drop server address (derived from seed when unset)")
	intrusionCmd.Flags().IntVar(&flagIntrusionDownloads, "downloads", 3, "Number of staged payload downloads")
	intrusionCmd.MarkFlagRequired("victim")
	rootCmd.AddCommand(intrusionCmd)
}

func intrusionCommand(cmd *cobra.Command, args []string) error {
	victim, err := parseIPFlag("victim", flagIntrusionVictim)
	if err != nil {
		return err
	}
	attacker, err := parseIPFlag("attacker", flagIntrusionAttacker)
	if err != nil {
		return err
	}
	server, err := parseIPFlag("server", flagIntrusionServer)
	if err != nil {
		return err
	}
	start, err := startTime()
	if err != nil {
		return err
	}

	batch, summary, err := profile.Intrusion(profile.IntrusionConfig{
		Victim:    victim,
		Attacker:  attacker,
		Server:    server,
		Downloads: flagIntrusionDownloads,
		Seed:      seedContext(),
		Start:     start,
	})
	if err != nil {
		return err
	}
	return emit(batch, summary)
}
