/*
Package config manages TOML config for catalogserve.

Every section has built-in defaults matching production behavior, so a
missing or partly broken file degrades to defaults instead of failing:

	[search]
	full_query_bonus = 12
	term_bonus = 4
	tag_bonus = 3

	[synonyms]
	ar = ["augmented reality"]
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/catalogserve/internal/utils"
	"github.com/charmbracelet/log"
)

// FileName is the config file looked up in the config dir.
const FileName = "catalogserve.toml"

// Config holds the entire config structure
type Config struct {
	Server    ServerConfig        `toml:"server"`
	Search    SearchConfig        `toml:"search"`
	Suggest   SuggestConfig       `toml:"suggest"`
	Analytics AnalyticsConfig     `toml:"analytics"`
	Listing   ListingConfig       `toml:"listing"`
	CLI       CliConfig           `toml:"cli"`
	Synonyms  map[string][]string `toml:"synonyms"`
}

// ServerConfig has IPC server options.
type ServerConfig struct {
	Catalog  string `toml:"catalog"`
	MaxLimit int    `toml:"max_limit"`
}

// SearchConfig holds ranking weights and result caps.
type SearchConfig struct {
	FullQueryBonus int `toml:"full_query_bonus"`
	TermBonus      int `toml:"term_bonus"`
	TagBonus       int `toml:"tag_bonus"`
	MinTermLen     int `toml:"min_term_len"`
	TopMatches     int `toml:"top_matches"`
	TopIDs         int `toml:"top_ids"`
}

// SuggestConfig caps each suggestion stage.
type SuggestConfig struct {
	PopularLimit int `toml:"popular_limit"`
	KeywordLimit int `toml:"keyword_limit"`
	MaxResults   int `toml:"max_results"`
}

// AnalyticsConfig controls search event emission.
type AnalyticsConfig struct {
	Enabled     bool `toml:"enabled"`
	MinQueryLen int  `toml:"min_query_len"`
}

// ListingConfig holds schema.org listing options.
type ListingConfig struct {
	BaseURL  string `toml:"base_url"`
	Currency string `toml:"currency"`
	Limit    int    `toml:"limit"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit    int  `toml:"default_limit"`
	ShowSuggestions bool `toml:"show_suggestions"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/catalogserve
// 2. ~/Library/Application Support/catalogserve (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", "catalogserve")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "catalogserve")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for catalogserve.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, FileName), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from -config flag
// 2. Default path: [UserConfigDir]/catalogserve/catalogserve.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Catalog:  "data/catalog.yaml",
			MaxLimit: 64,
		},
		Search: SearchConfig{
			FullQueryBonus: 12,
			TermBonus:      4,
			TagBonus:       3,
			MinTermLen:     2,
			TopMatches:     12,
			TopIDs:         5,
		},
		Suggest: SuggestConfig{
			PopularLimit: 6,
			KeywordLimit: 6,
			MaxResults:   10,
		},
		Analytics: AnalyticsConfig{
			Enabled:     true,
			MinQueryLen: 2,
		},
		Listing: ListingConfig{
			BaseURL:  "https://projectmentorhub.com",
			Currency: "INR",
			Limit:    12,
		},
		CLI: CliConfig{
			DefaultLimit:    12,
			ShowSuggestions: true,
		},
		Synonyms: map[string][]string{},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse keeps every section that still decodes as a table and
// falls back to defaults for the rest.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "search"); ok {
		extractSearchConfig(section, &config.Search)
	}
	if section, ok := utils.ExtractSection(tempConfig, "suggest"); ok {
		extractSuggestConfig(section, &config.Suggest)
	}
	if section, ok := utils.ExtractSection(tempConfig, "analytics"); ok {
		extractAnalyticsConfig(section, &config.Analytics)
	}
	if section, ok := utils.ExtractSection(tempConfig, "listing"); ok {
		extractListingConfig(section, &config.Listing)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	if section, ok := utils.ExtractSection(tempConfig, "synonyms"); ok {
		for key := range section {
			if list, ok := utils.ExtractStringList(section, key); ok {
				config.Synonyms[key] = list
			}
		}
	}
	return config, nil
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractString(data, "catalog"); ok {
		server.Catalog = val
	}
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
}

func extractSearchConfig(data map[string]any, search *SearchConfig) {
	if val, ok := utils.ExtractInt64(data, "full_query_bonus"); ok {
		search.FullQueryBonus = val
	}
	if val, ok := utils.ExtractInt64(data, "term_bonus"); ok {
		search.TermBonus = val
	}
	if val, ok := utils.ExtractInt64(data, "tag_bonus"); ok {
		search.TagBonus = val
	}
	if val, ok := utils.ExtractInt64(data, "min_term_len"); ok {
		search.MinTermLen = val
	}
	if val, ok := utils.ExtractInt64(data, "top_matches"); ok {
		search.TopMatches = val
	}
	if val, ok := utils.ExtractInt64(data, "top_ids"); ok {
		search.TopIDs = val
	}
}

func extractSuggestConfig(data map[string]any, suggest *SuggestConfig) {
	if val, ok := utils.ExtractInt64(data, "popular_limit"); ok {
		suggest.PopularLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "keyword_limit"); ok {
		suggest.KeywordLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "max_results"); ok {
		suggest.MaxResults = val
	}
}

func extractAnalyticsConfig(data map[string]any, analytics *AnalyticsConfig) {
	if val, ok := utils.ExtractBool(data, "enabled"); ok {
		analytics.Enabled = val
	}
	if val, ok := utils.ExtractInt64(data, "min_query_len"); ok {
		analytics.MinQueryLen = val
	}
}

func extractListingConfig(data map[string]any, listing *ListingConfig) {
	if val, ok := utils.ExtractString(data, "base_url"); ok {
		listing.BaseURL = val
	}
	if val, ok := utils.ExtractString(data, "currency"); ok {
		listing.Currency = val
	}
	if val, ok := utils.ExtractInt64(data, "limit"); ok {
		listing.Limit = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.ExtractBool(data, "show_suggestions"); ok {
		cli.ShowSuggestions = val
	}
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
