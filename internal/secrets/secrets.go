// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves the API credential the analyzer needs. Keys are
// read from a directory of plain-text files (the filename is the key name,
// the trimmed contents are the value), with the process environment as a
// fallback.
//
// Supported key file: openai-api-key (environment fallback: OPENAI_API_KEY).
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// openaiKeyFile is the key file holding the OpenAI credential.
const openaiKeyFile = "openai-api-key"

// openaiKeyEnv is the environment variable fallback.
const openaiKeyEnv = "OPENAI_API_KEY"

// Load reads all files in dir and returns a map of filename to trimmed
// contents. A missing directory is not an error; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// OpenAIKey resolves the OpenAI API credential from the loaded secrets,
// falling back to the environment. A missing credential is an error: the
// tool must refuse to start processing without one.
func OpenAIKey(loaded map[string]string) (string, error) {
	if v, ok := loaded[openaiKeyFile]; ok && v != "" {
		return v, nil
	}
	if v := strings.TrimSpace(os.Getenv(openaiKeyEnv)); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("no API credential: create .secrets/%s or set %s", openaiKeyFile, openaiKeyEnv)
}
