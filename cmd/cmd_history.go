package main

import (
	"github.com/itsatony/sensorscore/internal/events"
	"github.com/itsatony/sensorscore/internal/models"
	"github.com/itsatony/sensorscore/internal/server"
	"github.com/spf13/cobra"
)

var (
	historyZone  string
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent generation records",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyZone, "zone", "", "only records of this zone")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of records")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	svc, cleanup, err := server.NewMusicService(cmd.Context(), cfg, events.NewBus())
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := svc.History(cmd.Context(), models.GenerationFilters{Zone: historyZone, Limit: historyLimit})
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}
