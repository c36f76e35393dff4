package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source points at a secret needed at startup, such as the GitHub token or
// the Gemini API key.
type Source struct {
	// Name labels the secret in error messages.
	Name string
	// Value holds the secret inline, usually from the config file.
	Value string
	// File is a path to read the secret from. It wins over Value.
	File string
}

// Load resolves the secret, preferring File over Value, and trims surrounding
// whitespace. Loading fails when the source yields nothing usable.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	if file := strings.TrimSpace(src.File); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from %q: %w", name, file, err)
		}
		secret := strings.TrimSpace(string(data))
		if secret == "" {
			return "", fmt.Errorf("%s file %q is empty", name, file)
		}
		return secret, nil
	}

	if secret := strings.TrimSpace(src.Value); secret != "" {
		return secret, nil
	}

	return "", fmt.Errorf("%s is not configured", name)
}
