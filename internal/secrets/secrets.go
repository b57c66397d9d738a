// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads wiki credentials from a directory of plain-text
// files. Each file is one secret: the filename is the key and the
// trimmed contents are the value.
//
// Recognized keys: wiki-username, wiki-password. The username is a bot
// password login of the form "User@BotName".
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/citelink/pkg/types"
)

const (
	KeyWikiUsername = "wiki-username"
	KeyWikiPassword = "wiki-password"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory is not an error; Load returns an empty map.
// Unreadable files are logged and skipped.
func Load(dir string, logger *zap.Logger) (map[string]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		name := entry.Name()
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("could not read secret", zap.String("name", name), zap.Error(err))
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}
	return secrets, nil
}

// ApplyWiki fills cfg's empty username and password from secrets.
// Values already set (flags, config file, environment) win.
func ApplyWiki(cfg *types.WikiConfig, secrets map[string]string) {
	if cfg.Username == "" {
		cfg.Username = secrets[KeyWikiUsername]
	}
	if cfg.Password == "" {
		cfg.Password = secrets[KeyWikiPassword]
	}
}

// HasWikiLogin reports whether cfg carries both halves of a login.
func HasWikiLogin(cfg types.WikiConfig) bool {
	return cfg.Username != "" && cfg.Password != ""
}
