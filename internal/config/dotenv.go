package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	nuts "github.com/vaudience/go-nuts"
)

// LoadDotEnv loads .env.local and .env from the working directory.
// Variables already set in the environment are kept.
// Set SENSORSCORE_DOTENV=off to skip.
func LoadDotEnv() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(envPrefix + "_DOTENV"))) {
	case "0", "false", "off", "no":
		return
	}

	for _, p := range []string{".env.local", ".env"} {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			nuts.L.Warnf("[Config] Failed to load %s: %v", p, err)
			continue
		}
		nuts.L.Infof("[Config] Loaded env from %s", p)
	}
}
