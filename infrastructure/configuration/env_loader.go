package configuration

import (
	"github.com/joho/godotenv"

	"imospy/infrastructure/logger"
)

// LoadEnvFromFile loads KEY=VALUE pairs from config.env, .env and the like.
// Variables already present in the environment are not overridden; missing
// files are skipped.
func LoadEnvFromFile(paths ...string) []string {
	loaded := make([]string, 0, len(paths))
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			continue
		}
		loaded = append(loaded, p)
	}
	if len(loaded) > 0 {
		logger.GetLogger().WithField("files", loaded).Info("Loaded environment files")
	}
	return loaded
}
