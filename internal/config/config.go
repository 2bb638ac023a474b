package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/garyjia/charge-information/internal/domain/chargeversion"
)

// Draft store backends
const (
	DraftBackendMemory = "memory"
	DraftBackendBolt   = "bolt"
)

// EnvPrefix prefixes every environment override, e.g. CHARGE_INFO_SERVER_PORT
const EnvPrefix = "CHARGE_INFO"

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Drafts    DraftsConfig    `mapstructure:"drafts"`
	Reference ReferenceConfig `mapstructure:"reference"`
	Charging  ChargingConfig  `mapstructure:"charging"`
	Export    ExportConfig    `mapstructure:"export"`
	Logger    LoggerConfig    `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database configuration. An empty MigrationsDir
// applies the migrations embedded in the binary.
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	BusyTimeout     time.Duration `mapstructure:"busy_timeout"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
}

// DraftsConfig selects where in-progress drafts are kept
type DraftsConfig struct {
	Backend       string        `mapstructure:"backend"`
	Path          string        `mapstructure:"path"`
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// ReferenceConfig locates the reference data catalogue
type ReferenceConfig struct {
	Path string `mapstructure:"path"`
}

// ChargingConfig holds charging scheme settings
type ChargingConfig struct {
	SrocCutover      string `mapstructure:"sroc_cutover"`
	ChangeReasonType string `mapstructure:"change_reason_type"`
}

// Cutover parses the sroc cutover date
func (c ChargingConfig) Cutover() (chargeversion.Date, error) {
	return chargeversion.ParseDate(c.SrocCutover)
}

// ExportConfig holds check answers export settings
type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables. Variables
// in a .env file next to the working directory are loaded first; variables
// already set in the environment win.
func Load(configPath string) (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	v.SetDefault("database.path", "data/charge_information.db")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.busy_timeout", 5*time.Second)
	v.SetDefault("database.migrations_dir", "")

	v.SetDefault("drafts.backend", DraftBackendMemory)
	v.SetDefault("drafts.path", "data/drafts.bolt")
	v.SetDefault("drafts.ttl", 24*time.Hour)
	v.SetDefault("drafts.sweep_interval", time.Duration(0))

	v.SetDefault("reference.path", "configs/reference.yaml")

	v.SetDefault("charging.sroc_cutover", chargeversion.SrocCutover.String())
	v.SetDefault("charging.change_reason_type", "new_chargeable_charge_version")

	v.SetDefault("export.dir", "data/exports")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	switch c.Drafts.Backend {
	case DraftBackendMemory:
	case DraftBackendBolt:
		if c.Drafts.Path == "" {
			return fmt.Errorf("drafts.path is required for the bolt backend")
		}
	default:
		return fmt.Errorf("drafts.backend %q is not one of memory, bolt", c.Drafts.Backend)
	}
	if c.Drafts.TTL < 0 {
		return fmt.Errorf("drafts.ttl must not be negative")
	}
	if c.Drafts.SweepInterval < 0 {
		return fmt.Errorf("drafts.sweep_interval must not be negative")
	}

	if c.Reference.Path == "" {
		return fmt.Errorf("reference.path is required")
	}
	if _, err := c.Charging.Cutover(); err != nil {
		return fmt.Errorf("charging.sroc_cutover: %w", err)
	}
	if c.Export.Dir == "" {
		return fmt.Errorf("export.dir is required")
	}

	return nil
}
