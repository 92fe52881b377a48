// Package config loads the API configuration from the environment.
package config

import (
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds the runtime settings of the API.
type Config struct {
	Port        string
	MongoURI    string
	MongoDB     string
	CORSOrigin  string
	Environment string
}

// Load reads a .env file when present and builds the configuration from the
// environment. Missing variables fall back to development defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, using environment variables")
	}

	return Config{
		Port:        getenv("PORT", "8080"),
		MongoURI:    getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:     getenv("MONGO_DB", "rastreapp"),
		CORSOrigin:  getenv("CORS_ORIGIN", "*"),
		Environment: getenv("APP_ENV", "development"),
	}
}

// IsProduction reports whether the API runs in the production environment.
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
