package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"Go2NetForge/internal/engine/profile"
)

var (
	flagFloodVictim    string
	flagFloodPort      uint16
	flagFloodPorts     []int
	flagFloodAttackers int
	flagFloodWindow    time.Duration
)

var synfloodCmd = &cobra.Command{
	Use:   "synflood",
	Short: "Generate a SYN flood against one victim",
	Long: `Generate a half-open connection flood: every spoofed attacker sends
a SYN to the victim and the victim answers with a SYN|ACK that is never
acknowledged.`,
	RunE: synfloodCommand,
}

func init() {
	synfloodCmd.Flags().StringVar(&flagFloodVictim, "victim", "", "Victim address (required)")
	synfloodCmd.Flags().Uint16Var(&flagFloodPort, "port", 80, "Target port")
	synfloodCmd.Flags().IntSliceVar(&flagFloodPorts, "ports", nil, "Target ports for a multi-port sweep (overrides --port)")
	synfloodCmd.Flags().IntVar(&flagFloodAttackers, "attackers", 100, "Number of spoofed source addresses")
	synfloodCmd.Flags().DurationVar(&flagFloodWindow, "window", 10*time.Second, "Time window the flood spans")
	synfloodCmd.MarkFlagRequired("victim")
	rootCmd.AddCommand(synfloodCmd)
}

func synfloodCommand(cmd *cobra.Command, args []string) error {
	victim, err := parseIPFlag("victim", flagFloodVictim)
	if err != nil {
		return err
	}
	start, err := startTime()
	if err != nil {
		return err
	}
	ports := make([]uint16, len(flagFloodPorts))
	for i, p := range flagFloodPorts {
		if p <= 0 || p > 65535 {
			return fmt.Errorf("invalid port %d", p)
		}
		ports[i] = uint16(p)
	}

	batch, summary, err := profile.SYNFlood(profile.SYNFloodConfig{
		Victim:    victim,
		Port:      flagFloodPort,
		Ports:     ports,
		Attackers: flagFloodAttackers,
		Window:    flagFloodWindow,
		Seed:      seedContext(),
		Start:     start,
	})
	if err != nil {
		return err
	}
	return emit(batch, summary)
}
