// Package config handles XDG configuration directory and file paths.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// AppName is the application directory name.
	AppName = "tood"

	// ServerFile names the backend endpoint configuration file.
	ServerFile = "server.json"

	// SessionFile names the stored session file.
	SessionFile = "session.json"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// Server identifies the remote backend: the shared base URL of the
// auth and store collaborators plus the project's publishable key.
type Server struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/tood or $HOME/.config/tood.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{Dir: dir}, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// ServerPath returns the path to the backend endpoint file.
func (c *Config) ServerPath() string {
	return filepath.Join(c.Dir, ServerFile)
}

// SessionPath returns the path to the stored session file.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasServer checks if the backend endpoint file exists.
func (c *Config) HasServer() bool {
	_, err := os.Stat(c.ServerPath())
	return err == nil
}

// HasSession checks if the session file exists.
func (c *Config) HasSession() bool {
	_, err := os.Stat(c.SessionPath())
	return err == nil
}

// RemoveSession deletes the session file.
func (c *Config) RemoveSession() error {
	return os.Remove(c.SessionPath())
}

// LoadServer reads and validates the backend endpoint file.
func (c *Config) LoadServer() (Server, error) {
	data, err := os.ReadFile(c.ServerPath())
	if err != nil {
		return Server{}, fmt.Errorf("failed to read %s: %w", ServerFile, err)
	}
	var s Server
	if err := json.Unmarshal(data, &s); err != nil {
		return Server{}, fmt.Errorf("invalid %s: %w", ServerFile, err)
	}
	if s.URL == "" || s.Key == "" {
		return Server{}, fmt.Errorf("invalid %s: url and key are required", ServerFile)
	}
	return s, nil
}

// SaveServer writes the backend endpoint file with mode 0600.
func (c *Config) SaveServer(s Server) error {
	if err := c.EnsureDir(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.ServerPath(), data, 0600)
}
