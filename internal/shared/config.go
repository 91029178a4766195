package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Storage     StorageConfig     `toml:"storage"`
	Server      ServerConfig      `toml:"server"`
	Bridge      BridgeConfig      `toml:"bridge"`
	Speakers    []SpeakerConfig   `toml:"speakers"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials and the one-time auth code.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	AuthCode     string `toml:"auth_code"`
	RedirectURI  string `toml:"redirect_uri"`
}

// StorageConfig contains paths for the token file and the transition journal.
type StorageConfig struct {
	TokenPath    string `toml:"token_path"`
	JournalPath  string `toml:"journal_path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains settings for the OAuth callback server.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// BridgeConfig contains timing knobs for the reconciler and token refresh.
type BridgeConfig struct {
	PollIntervalSeconds  int     `toml:"poll_interval_seconds"`
	RefreshIntervalHours int     `toml:"refresh_interval_hours"`
	RateLimit            float64 `toml:"rate_limit"`
}

// SpeakerConfig describes one configured playback target.
type SpeakerConfig struct {
	Name       string `toml:"name"`
	DeviceID   string `toml:"device_id"`
	PlaylistID string `toml:"playlist_id"`
	Type       string `toml:"type"`
	Shuffle    bool   `toml:"shuffle"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that the credentials required for any remote call are
// present. Missing client id, client secret, or auth code is fatal for the
// whole bridge; individual speakers are validated later and skipped instead.
func (c *Config) Validate() error {
	s := c.Credentials.Spotify
	if s.ClientID == "" || s.ClientID == "your_spotify_client_id" {
		return fmt.Errorf("%w: spotify client_id", ErrMissingCredentials)
	}
	if s.ClientSecret == "" || s.ClientSecret == "your_spotify_client_secret" {
		return fmt.Errorf("%w: spotify client_secret", ErrMissingCredentials)
	}
	if s.AuthCode == "" {
		return fmt.Errorf("%w: spotify auth_code", ErrMissingCredentials)
	}
	return nil
}

// PollInterval returns the reconciler poll interval in seconds, defaulting to 20.
func (c *Config) PollInterval() int {
	if c.Bridge.PollIntervalSeconds <= 0 {
		return 20
	}
	return c.Bridge.PollIntervalSeconds
}

// RefreshInterval returns the proactive token refresh interval in hours, defaulting to 24.
func (c *Config) RefreshInterval() int {
	if c.Bridge.RefreshIntervalHours <= 0 {
		return 24
	}
	return c.Bridge.RefreshIntervalHours
}
