package initializers

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv reads .env and .env.local if present. Variables already set in the
// process environment are never overridden.
func LoadEnv() {
	for _, path := range []string{".env", ".env.local"} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			log.Printf("Error loading %s: %v", path, err)
		}
	}
}
