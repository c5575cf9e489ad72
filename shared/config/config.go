package config

import (
	"log"
	"sync"

	"github.com/spf13/viper"
)

// OverviewConfig selects the layout profile for rendered reports.
type OverviewConfig struct {
	ChainSlug        string `mapstructure:"chain_slug"`
	ExplorerBase     string `mapstructure:"explorer_base"`
	IncludeLiquidity bool   `mapstructure:"include_liquidity"`
	IncludeAudit     bool   `mapstructure:"include_audit"`
}

// TelegramConfig defines the structure for Telegram-related configurations
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	GroupID  int64  `mapstructure:"group_id"`
}

// Config defines the global configuration structure
type Config struct {
	App struct {
		Port        string `mapstructure:"port"`
		Environment string `mapstructure:"environment"`
	} `mapstructure:"app"`

	Logging struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"logging"`

	Overview OverviewConfig `mapstructure:"overview"`

	Telegram TelegramConfig `mapstructure:"telegram"`
}

var (
	globalConfig *Config
	configLock   sync.RWMutex
)

// LoadConfig loads configuration from the specified file path and merges it with environment variables
func LoadConfig(path string) (*Config, error) {
	log.Printf("Starting to load configuration from file: %s", path)

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	viper.SetEnvPrefix("APP")
	viper.BindEnv("app.port", "PORT")
	viper.BindEnv("app.environment", "ENVIRONMENT")
	viper.BindEnv("logging.level", "LOG_LEVEL")

	viper.BindEnv("telegram.bot_token", "TELEGRAM_BOT_TOKEN")
	viper.BindEnv("telegram.group_id", "TELEGRAM_GROUP_ID")

	viper.BindEnv("overview.chain_slug", "DEXTOOLS_CHAIN")
	viper.BindEnv("overview.explorer_base", "EXPLORER_BASE_URL")

	viper.SetDefault("overview.chain_slug", "apechain")
	viper.SetDefault("overview.explorer_base", "https://apescan.io")
	viper.SetDefault("overview.include_liquidity", true)
	viper.SetDefault("overview.include_audit", true)
	viper.SetDefault("logging.level", "info")

	var cfg Config

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		log.Printf("Error unmarshalling configuration: %v", err)
		return nil, err
	}

	log.Printf("Loaded configuration from file: %s", path)
	return &cfg, nil
}

// SetGlobalConfig sets the loaded configuration globally
func SetGlobalConfig(cfg *Config) {
	configLock.Lock()
	defer configLock.Unlock()
	globalConfig = cfg
}

// GetGlobalConfig retrieves the globally set configuration
func GetGlobalConfig() *Config {
	configLock.RLock()
	defer configLock.RUnlock()
	if globalConfig == nil {
		log.Println("GetGlobalConfig: Global configuration is nil.")
	}
	return globalConfig
}
