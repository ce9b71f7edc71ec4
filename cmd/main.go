// FilePath: cmd/main.go
package main

import (
	"fmt"
	"os"

	tm "github.com/buger/goterm"
	"github.com/itsatony/sensorscore/internal/config"
	"github.com/spf13/cobra"
	nuts "github.com/vaudience/go-nuts"
)

var configDir string

var rootCmd = &cobra.Command{
	Use:   "sensorscore",
	Short: "SensorScore - ambient music from building sensors",
	Long: `SensorScore turns building sensor snapshots into ambient music.
Without a subcommand it starts the HTTP server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "./config", "directory containing config.yaml")
}

func main() {
	// Initialize version info
	nuts.InitVersion()
	config.LoadDotEnv()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// ClearConsole clears the console and moves the cursor to the top left.
func ClearConsole() {
	tm.Clear()
	tm.MoveCursor(1, 1)
	tm.Flush()
}

func DrawLogo() {
	fmt.Println()
	lines := []string{
		"   ____                              ____                    ",
		"  / __/__ ___  ___ ___  ____  ____  / __/______  _______ ",
		" _\\ \\/ -_) _ \\(_-</ _ \\/ __/ (_-< / _/ __/ _ \\/ __/ -_)",
		"/___/\\__/_//_/___/\\___/_/   /___/ \\__/\\__/\\___/_/  \\__/ ",
		"..........................................................  " + nuts.GetVersion(),
	}

	for _, line := range lines {
		fmt.Println(line)
	}
}
