package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// LoadDotEnv loads .env in development, production variables are set directly.
// Values from the file override the system environment.
func LoadDotEnv(log zerolog.Logger, path string) {
	if os.Getenv("ENV") == "production" || os.Getenv("APP_ENV") == "production" {
		return
	}

	if wd, err := os.Getwd(); err != nil {
		log.Warn().Err(err).Msg("could not get working directory")
	} else {
		log.Debug().Str("dir", wd).Msg("current working directory")
	}

	if err := godotenv.Overload(path); err != nil {
		log.Warn().Err(err).Str("path", path).Msg(".env file not found, using system environment variables")
		return
	}
	log.Info().Str("path", path).Msg("loaded environment variables (overriding system variables)")
}
