package config

import (
	stderrors "errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// envFiles are read in order. Earlier files win because godotenv never
// overrides a variable that is already set.
var envFiles = []string{".env.local", ".env"}

// loadEnvFiles loads the env files that exist in the working directory and
// returns the ones it read.
func loadEnvFiles() ([]string, error) {
	var loaded []string
	for _, name := range envFiles {
		if _, err := os.Stat(name); err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				continue
			}
			return loaded, err
		}
		if err := godotenv.Load(name); err != nil {
			return loaded, err
		}
		loaded = append(loaded, name)
	}
	return loaded, nil
}
