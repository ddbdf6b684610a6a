// Package identity provides system identity information for the agent.
package identity

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// DefaultVersion is the fallback version string when metadata.json is not found.
const DefaultVersion = "1.0.0-go"

// GetHostname returns the system hostname.
func GetHostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "css-signage"
	}
	return h
}

// GetVersion reads the version from <configDir>/metadata.json, written by the
// install/update scripts. Falls back to DefaultVersion if the file is missing
// or unreadable.
func GetVersion(configDir string) string {
	data, err := os.ReadFile(filepath.Join(configDir, "metadata.json"))
	if err != nil {
		return DefaultVersion
	}

	var meta map[string]interface{}
	if err := json.Unmarshal(data, &meta); err != nil {
		return DefaultVersion
	}

	if v, ok := meta["version"].(string); ok && v != "" {
		return v
	}
	return DefaultVersion
}
