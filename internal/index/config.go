package index

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"

	"github.com/tailscale/hujson"

	"github.com/starford/othala/internal/models"
)

// ConfigFileName is the directory-level configuration file at the content root.
const ConfigFileName = "_config.json"

// loadConfig reads _config.json from the content root. A missing or
// unparsable file falls back to the default config; a broken config must
// never block the index from loading.
func (s *Scanner) loadConfig() models.Config {
	data, err := s.store.Read(ConfigFileName)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("index: config unreadable, using defaults",
				slog.String("error", err.Error()))
		}
		return models.DefaultConfig()
	}
	return parseConfig(data, s.logger)
}

// parseConfig decodes config bytes leniently (comments and trailing commas
// tolerated), substituting defaults on failure or missing fields.
func parseConfig(data []byte, logger *slog.Logger) models.Config {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		logger.Warn("index: config unparsable, using defaults", slog.String("error", err.Error()))
		return models.DefaultConfig()
	}
	var cfg models.Config
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		logger.Warn("index: config unparsable, using defaults", slog.String("error", err.Error()))
		return models.DefaultConfig()
	}
	if cfg.Title == "" {
		cfg.Title = models.DefaultWikiTitle
	}
	return cfg
}
