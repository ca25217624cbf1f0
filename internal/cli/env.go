package cli

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// envFileVar points at an env file that wins over the --env flag.
const envFileVar = "LEXICORE_ENV_FILE"

// EnvLoader loads .env files with a predictable override order: the
// LEXICORE_ENV_FILE variable first, then the --env flag value, then the
// default path. A missing default file is not an error.
type EnvLoader struct {
	value       *string
	defaultPath string
}

// AddEnvFlag registers an --env flag on fs and returns an EnvLoader.
func AddEnvFlag(fs *flag.FlagSet, defaultPath string) *EnvLoader {
	if fs == nil {
		fs = flag.CommandLine
	}
	if defaultPath == "" {
		defaultPath = ".env"
	}
	value := fs.String("env", defaultPath, "Path to the .env file")
	return &EnvLoader{value: value, defaultPath: defaultPath}
}

// Load resolves and loads environment variables using the configured flag
// value. The loaded path is returned; an empty path means nothing was
// loaded, which is only an error when a file was explicitly requested.
func (l *EnvLoader) Load() (string, error) {
	if l == nil {
		return "", fmt.Errorf("env loader is nil")
	}

	log.SetOutput(os.Stderr)

	if custom := strings.TrimSpace(os.Getenv(envFileVar)); custom != "" {
		if err := godotenv.Overload(custom); err != nil {
			return "", fmt.Errorf("load %s=%s: %w", envFileVar, custom, err)
		}
		return custom, nil
	}

	requested := strings.TrimSpace(derefString(l.value))
	if requested == "" {
		requested = l.defaultPath
	}

	if err := godotenv.Overload(requested); err != nil {
		if requested != l.defaultPath {
			return "", fmt.Errorf("load env file %s: %w", requested, err)
		}
		return "", nil
	}
	return requested, nil
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
