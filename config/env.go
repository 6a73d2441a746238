package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variable overrides from a ".env" file at
// path into the process environment, if the file exists. It's a no-op
// (not an error) when the file is absent, since most deployments won't
// have one.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}
