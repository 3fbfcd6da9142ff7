package config

import (
	"dropletbot/internal/domain"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	appName               = "dropletbot"
	defaultConfigName     = "config.json"
	defaultDatabaseFile   = "settings.db"
	defaultKeysDir        = "keys"
	defaultDropletID      = "449984469"
	defaultLowUsageSize   = "s-2vcpu-8gb-amd"
	defaultPeakUsageSize  = "s-4vcpu-16gb-amd"
	defaultAPIBaseURL     = "https://api.digitalocean.com"
	defaultCommandPrefix  = "!"
	defaultConfirmTimeout = 30
	defaultHTTPTimeout    = 30
	doTokenFile           = "digitaloceanapi.key"
	discordTokenFile      = "discordapi.key"
	triggerPhraseFile     = "vinnycommand.key"
	envDigitalOceanToken  = "DROPLETBOT_DO_TOKEN"
	envDiscordToken       = "DROPLETBOT_DISCORD_TOKEN"
	envTriggerPhrase      = "DROPLETBOT_TRIGGER_PHRASE"
	envDev                = "DROPLETBOT_DEV"
	envConfigDir          = "DROPLETBOT_CONFIG_DIR"
)

type Config struct {
	DropletID             string   `json:"droplet_id"`
	LowUsageSize          string   `json:"low_usage_size"`
	PeakUsageSize         string   `json:"peak_usage_size"`
	APIBaseURL            string   `json:"api_base_url"`
	DatabasePath          string   `json:"database_path"`
	KeysPath              string   `json:"keys_path"`
	GuildID               string   `json:"guild_id"`
	CommandPrefix         string   `json:"command_prefix"`
	ConfirmTimeoutSeconds int      `json:"confirm_timeout_seconds"`
	HTTPTimeoutSeconds    int      `json:"http_timeout_seconds"`
	AdminUserIDs          []string `json:"admin_user_ids"`
}

// Secrets are never written back to disk.
type Secrets struct {
	DigitalOceanToken string
	DiscordToken      string
	TriggerPhrase     string
}

func IsDev() bool {
	return os.Getenv(envDev) != ""
}

// DefaultConfigDir honours DROPLETBOT_CONFIG_DIR, then the user config directory.
func DefaultConfigDir() (string, error) {
	if dir := os.Getenv(envConfigDir); dir != "" {
		return dir, nil
	}
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("error getting user config directory: %w", err)
	}
	name := appName
	if IsDev() {
		name = appName + "-dev"
	}
	return filepath.Join(userConfigDir, name), nil
}

func LoadConfig(configDir string) (*Config, error) {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, err
	}

	configPath := filepath.Join(configDir, defaultConfigName)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig(configPath, configDir)
	}

	file, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(file, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", configPath, err)
	}

	cfg.applyDefaults(configDir)
	return &cfg, nil
}

func defaultConfig(configDir string) Config {
	var cfg Config
	cfg.applyDefaults(configDir)
	return cfg
}

func (c *Config) applyDefaults(configDir string) {
	if c.DropletID == "" {
		c.DropletID = defaultDropletID
	}
	if c.LowUsageSize == "" {
		c.LowUsageSize = defaultLowUsageSize
	}
	if c.PeakUsageSize == "" {
		c.PeakUsageSize = defaultPeakUsageSize
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = defaultAPIBaseURL
	}
	if c.DatabasePath == "" {
		c.DatabasePath = filepath.Join(configDir, defaultDatabaseFile)
	}
	if c.KeysPath == "" {
		c.KeysPath = filepath.Join(configDir, defaultKeysDir)
	}
	if c.CommandPrefix == "" {
		c.CommandPrefix = defaultCommandPrefix
	}
	if c.ConfirmTimeoutSeconds <= 0 {
		c.ConfirmTimeoutSeconds = defaultConfirmTimeout
	}
	if c.HTTPTimeoutSeconds <= 0 {
		c.HTTPTimeoutSeconds = defaultHTTPTimeout
	}
}

func createDefaultConfig(configPath, configDir string) (*Config, error) {
	cfg := defaultConfig(configDir)

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Sizes() map[domain.Tier]string {
	return map[domain.Tier]string{
		domain.TierLowUsage:  c.LowUsageSize,
		domain.TierPeakUsage: c.PeakUsageSize,
	}
}

func (c *Config) ConfirmTimeout() time.Duration {
	return time.Duration(c.ConfirmTimeoutSeconds) * time.Second
}

func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// IsAdmin reports whether userID may replace the authorized roles. With no admins
// configured anyone may.
func (c *Config) IsAdmin(userID string) bool {
	if len(c.AdminUserIDs) == 0 {
		return true
	}
	for _, id := range c.AdminUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// LoadSecrets reads each secret from its environment variable, falling back to the
// key file of the same purpose. The trigger phrase is matched case-insensitively.
func LoadSecrets(keysDir string) (*Secrets, error) {
	doToken, err := loadSecret(keysDir, envDigitalOceanToken, doTokenFile)
	if err != nil {
		return nil, err
	}
	discordToken, err := loadSecret(keysDir, envDiscordToken, discordTokenFile)
	if err != nil {
		return nil, err
	}
	phrase, err := loadSecret(keysDir, envTriggerPhrase, triggerPhraseFile)
	if err != nil {
		return nil, err
	}
	return &Secrets{
		DigitalOceanToken: doToken,
		DiscordToken:      discordToken,
		TriggerPhrase:     strings.ToLower(phrase),
	}, nil
}

// LoadAPIToken is enough for the terminal commands, which never connect to Discord.
func LoadAPIToken(keysDir string) (string, error) {
	return loadSecret(keysDir, envDigitalOceanToken, doTokenFile)
}

func loadSecret(keysDir, envName, fileName string) (string, error) {
	if value := strings.TrimSpace(os.Getenv(envName)); value != "" {
		return value, nil
	}

	path := filepath.Join(keysDir, fileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("missing secret: set %s or create %s", envName, path)
		}
		return "", fmt.Errorf("error reading %s: %w", path, err)
	}

	value := strings.TrimSpace(string(data))
	if value == "" {
		return "", fmt.Errorf("secret file %s is empty", path)
	}
	return value, nil
}
