package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/Rorical/RoriMeans/internal/models"
)

const (
	DefaultServerURL      = "http://localhost:3000"
	DefaultClusters       = 3
	DefaultMethod         = models.MethodRandom
	DefaultPlotWidth      = 72
	DefaultPlotHeight     = 22
	DefaultRequestTimeout = Duration(30 * time.Second)

	homeEnv      = "RORIMEANS_HOME"
	serverURLEnv = "RORIMEANS_SERVER_URL"
)

// Duration is a time.Duration stored as a string like "30s".
type Duration time.Duration

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

type Profile struct {
	ServerURL      string        `json:"server_url"`
	Clusters       int           `json:"clusters"`
	Method         models.Method `json:"method"`
	PlotWidth      int           `json:"plot_width,omitempty"`
	PlotHeight     int           `json:"plot_height,omitempty"`
	RequestTimeout Duration      `json:"request_timeout,omitempty"`
}

// DefaultProfile returns the profile written on first run.
func DefaultProfile() Profile {
	return Profile{
		ServerURL:      DefaultServerURL,
		Clusters:       DefaultClusters,
		Method:         DefaultMethod,
		PlotWidth:      DefaultPlotWidth,
		PlotHeight:     DefaultPlotHeight,
		RequestTimeout: DefaultRequestTimeout,
	}
}

// Validate checks the fields a session cannot start without.
func (p Profile) Validate() error {
	u, err := url.Parse(p.ServerURL)
	if err != nil {
		return fmt.Errorf("invalid server url %q: %w", p.ServerURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid server url %q: scheme must be http or https", p.ServerURL)
	}
	if p.Clusters < 1 {
		return fmt.Errorf("clusters must be at least 1, got %d", p.Clusters)
	}
	if p.Method == "" {
		return fmt.Errorf("method must not be empty")
	}
	return nil
}

func (p *Profile) applyDefaults() {
	if p.ServerURL == "" {
		p.ServerURL = DefaultServerURL
	}
	if p.Clusters == 0 {
		p.Clusters = DefaultClusters
	}
	if p.Method == "" {
		p.Method = DefaultMethod
	}
	if p.PlotWidth <= 0 {
		p.PlotWidth = DefaultPlotWidth
	}
	if p.PlotHeight <= 0 {
		p.PlotHeight = DefaultPlotHeight
	}
	if p.RequestTimeout < 0 {
		p.RequestTimeout = 0
	}
}

type Config struct {
	Profiles       map[string]Profile `json:"profiles"`
	ActiveProfile  string             `json:"active_profile"`
	currentProfile *Profile
	path           string
}

// LoadConfig reads the config file, creating a default one when missing,
// and applies environment overrides. A .env file in the working directory is
// loaded first when present.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	return LoadConfigFrom(configPath)
}

// LoadConfigFrom reads the config file at configPath.
func LoadConfigFrom(configPath string) (*Config, error) {
	// Ensure config directory exists
	if err := ensureConfigDir(configPath); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	config.path = configPath

	if err := config.setCurrentProfile(); err != nil {
		return nil, fmt.Errorf("failed to set current profile: %w", err)
	}

	if serverURL := os.Getenv(serverURLEnv); serverURL != "" {
		config.currentProfile.ServerURL = serverURL
	}

	return config, nil
}

// Current returns a copy of the active profile with environment overrides applied.
func (c *Config) Current() Profile {
	if c.currentProfile == nil {
		return DefaultProfile()
	}
	return *c.currentProfile
}

// OverrideServerURL replaces the server url for this run only.
func (c *Config) OverrideServerURL(serverURL string) {
	if c.currentProfile == nil {
		p := DefaultProfile()
		c.currentProfile = &p
	}
	c.currentProfile.ServerURL = serverURL
}

func (c *Config) IsValid() bool {
	return c.currentProfile != nil && c.currentProfile.Validate() == nil
}

// GetConfigPath returns where the config file lives.
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetConfigDir returns the application directory that holds config and logs.
func GetConfigDir() (string, error) {
	var baseDir string

	// Use RORIMEANS_HOME if set, otherwise use user's home directory
	if home := os.Getenv(homeEnv); home != "" {
		baseDir = home
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		baseDir = homeDir
	}

	return filepath.Join(baseDir, ".rorimeans"), nil
}

func ensureConfigDir(configPath string) error {
	configDir := filepath.Dir(configPath)
	return os.MkdirAll(configDir, 0755)
}

func loadConfigFile(configPath string) (*Config, error) {
	// If config file doesn't exist, create default
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	for name, p := range config.Profiles {
		p.applyDefaults()
		config.Profiles[name] = p
	}

	return &config, nil
}

func createDefaultConfig(configPath string) (*Config, error) {
	config := &Config{
		Profiles: map[string]Profile{
			"default": DefaultProfile(),
		},
		ActiveProfile: "default",
	}

	if err := saveConfig(config, configPath); err != nil {
		return nil, err
	}

	return config, nil
}

func saveConfig(config *Config, configPath string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600)
}

func (c *Config) Save() error {
	configPath := c.path
	if configPath == "" {
		var err error
		configPath, err = GetConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
	}

	return saveConfig(c, configPath)
}

func (c *Config) setCurrentProfile() error {
	if len(c.Profiles) == 0 {
		return fmt.Errorf("no profiles defined")
	}

	profile, exists := c.Profiles[c.ActiveProfile]
	if !exists {
		// If active profile doesn't exist, try to use the first available profile
		for name, p := range c.Profiles {
			c.ActiveProfile = name
			profile = p
			exists = true
			break
		}
	}

	if !exists {
		return fmt.Errorf("no valid profiles found")
	}

	c.currentProfile = &profile
	return nil
}
