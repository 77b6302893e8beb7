package config

import (
	"os"

	"github.com/joho/godotenv"
)

// dotenv candidates in priority order. godotenv.Load never overwrites
// already-set variables, so OS env wins over .env.local, which wins
// over .env.
var dotenvCandidates = []string{".env.local", ".env"}

// LoadDotEnv loads the dotenv files that exist and returns their names,
// for the startup log.
func LoadDotEnv() []string {
	var found []string
	for _, f := range dotenvCandidates {
		if _, err := os.Stat(f); err == nil {
			found = append(found, f)
		}
	}
	if len(found) > 0 {
		_ = godotenv.Load(found...)
	}
	return found
}
