// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials for the upstream
// medical services. Each file in the secrets directory holds one
// secret: the filename is the key name and the file contents (trimmed)
// are the value. An environment variable of the form
// HEALTHBOT_<KEY> (dashes to underscores, upper-cased) overrides the
// file of the same name, so containerized runs can skip the directory
// entirely.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Keys lists the secret names the application understands.
var Keys = []string{
	"openfda-api-key",
	"umls-api-key",
	"contact-email",
}

// Load reads all files in dir, applies environment overrides for the
// known keys, and returns a map of key name to value. A missing
// directory or missing files are not errors. Unreadable files produce
// a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	secrets := make(map[string]string)

	entries, err := os.ReadDir(dir)
	switch {
	case os.IsNotExist(err):
		// fall through to the environment
	case err != nil:
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	default:
		for _, entry := range entries {
			if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
				continue
			}

			data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", entry.Name(), err)
				continue
			}

			if value := strings.TrimSpace(string(data)); value != "" {
				secrets[entry.Name()] = value
			}
		}
	}

	for _, key := range Keys {
		if v := os.Getenv(EnvName(key)); v != "" {
			secrets[key] = v
		}
	}

	return secrets, nil
}

// EnvName maps a key name to its override variable, e.g.
// openfda-api-key to HEALTHBOT_OPENFDA_API_KEY.
func EnvName(key string) string {
	return "HEALTHBOT_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}
