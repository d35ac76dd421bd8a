// Package devport persists the local development server port so the
// embedded admin frontend can discover the backend across restarts.
package devport

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
)

// DefaultPort is used when no port-settings file exists yet.
const DefaultPort = 61406

// Settings is the on-disk shape of the port-settings file.
type Settings struct {
	Port int `json:"port"`
}

// Store reads and writes the port-settings file.
type Store struct {
	mu       sync.Mutex
	filePath string
	fallback int
	logger   *zap.Logger
}

// NewStore creates a Store backed by the given file path. A zero
// fallback defaults to DefaultPort.
func NewStore(filePath string, fallback int, logger *zap.Logger) *Store {
	if fallback == 0 {
		fallback = DefaultPort
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		filePath: filePath,
		fallback: fallback,
		logger:   logger,
	}
}

// Get returns the saved port, or the fallback when the file is missing
// or unreadable.
func (s *Store) Get() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("Failed to read port settings file",
				zap.String("path", s.filePath),
				zap.Error(err),
			)
		}
		return Settings{Port: s.fallback}
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil || settings.Port <= 0 {
		s.logger.Warn("Invalid port settings file, using fallback",
			zap.String("path", s.filePath),
		)
		return Settings{Port: s.fallback}
	}
	return settings
}

// Set validates and persists the port. The write goes through a temp
// file and rename so a crashed write never leaves a truncated file.
func (s *Store) Set(port int) (Settings, error) {
	if port < 1 || port > 65535 {
		return Settings{}, fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(Settings{Port: port})
	if err != nil {
		return Settings{}, fmt.Errorf("failed to marshal port settings: %w", err)
	}

	tmpPath := s.filePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return Settings{}, fmt.Errorf("failed to write port settings: %w", err)
	}
	if err := os.Rename(tmpPath, s.filePath); err != nil {
		_ = os.Remove(tmpPath)
		return Settings{}, fmt.Errorf("failed to save port settings: %w", err)
	}

	s.logger.Info("Saved development port", zap.Int("port", port))
	return Settings{Port: port}, nil
}
