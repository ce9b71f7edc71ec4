package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/itsatony/sensorscore/internal/events"
	"github.com/itsatony/sensorscore/internal/models"
	"github.com/itsatony/sensorscore/internal/server"
	"github.com/spf13/cobra"
)

var (
	generateLengthMs   int
	generateModelID    string
	generatePromptOnly bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [snapshot.json|-]",
	Short: "Run one generation for a sensor snapshot",
	Long: `Reads a sensor snapshot as JSON from a file, or from stdin when the
argument is "-" or missing, runs the pipeline and prints the result.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().IntVar(&generateLengthMs, "length", models.DefaultMusicLengthMs, "track length in milliseconds")
	generateCmd.Flags().StringVar(&generateModelID, "model", models.DefaultModelID, "composition model id")
	generateCmd.Flags().BoolVar(&generatePromptOnly, "prompt-only", false, "stop after the prompt, do not compose")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open snapshot: %w", err)
		}
		defer f.Close()
		in = f
	}

	var snapshot models.SensorSnapshot
	if err := json.NewDecoder(in).Decode(&snapshot); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	svc, cleanup, err := server.NewMusicService(cmd.Context(), cfg, events.NewBus())
	if err != nil {
		return err
	}
	defer cleanup()

	var result interface{}
	if generatePromptOnly {
		result, err = svc.GeneratePrompt(cmd.Context(), &snapshot)
	} else {
		result, err = svc.GenerateMusic(cmd.Context(), &snapshot, models.ComposeRequest{
			MusicLengthMs: generateLengthMs,
			ModelID:       generateModelID,
		})
	}
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
