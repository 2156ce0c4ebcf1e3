package main

import (
	"log"

	"github.com/spf13/cobra"

	"Go2NetForge/pkg/capture"
)

var mergeCmd = &cobra.Command{
	Use:   "merge <capture>...",
	Short: "Merge pcap files into the output capture",
	Long: `Merge one or more pcap files into the output capture, keeping the
result in timestamp order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: mergeCommand,
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}

func mergeCommand(cmd *cobra.Command, args []string) error {
	for _, path := range args {
		records, err := capture.ReadFile(path)
		if err != nil {
			return err
		}
		total, err := capture.Merge(flagOut, records)
		if err != nil {
			return err
		}
		log.Printf("Merged %d frames from %s into %s (%d total)", len(records), path, flagOut, total)
	}
	return nil
}
