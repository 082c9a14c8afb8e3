package dotenv

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// LoadEnv loads environment variables from the given .env files. Variables
// already present in the process environment win. With no arguments the
// default .env in the working directory is loaded when it exists.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		err := godotenv.Load(defaultEnvFile)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	return godotenv.Load(paths...)
}
