// internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"escpos-service/pkg/escpos"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig    `mapstructure:"server"`
	Database DatabaseConfig  `mapstructure:"database"`
	Security SecurityConfig  `mapstructure:"security"`
	Logging  LoggingConfig   `mapstructure:"logging"`
	Jobs     JobsConfig      `mapstructure:"jobs"`
	Ports    PortConfig      `mapstructure:"default_ports"`
	Printers []PrinterConfig `mapstructure:"printers"`
	App      AppConfig       `mapstructure:"app"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	TLS          TLSConfig     `mapstructure:"tls"`
}

// TLSConfig represents TLS configuration
type TLSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
}

// DatabaseConfig represents database configuration. When disabled, job
// history is kept in memory.
type DatabaseConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	DBName         string        `mapstructure:"dbname"`
	SSLMode        string        `mapstructure:"sslmode"`
	MaxOpenConns   int           `mapstructure:"max_open_conns"`
	MaxIdleConns   int           `mapstructure:"max_idle_conns"`
	MaxLifetime    time.Duration `mapstructure:"max_lifetime"`
	MigrateOnStart bool          `mapstructure:"migrate_on_start"`
}

// SecurityConfig represents security configuration
type SecurityConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// JobsConfig controls print job execution
type JobsConfig struct {
	RetryAttempts int           `mapstructure:"retry_attempts"`
	RetryDelay    time.Duration `mapstructure:"retry_delay"`
	FlushTimeout  time.Duration `mapstructure:"flush_timeout"`
	ListLimit     int           `mapstructure:"list_limit"`
}

// PortConfig holds connection defaults applied when a printer omits them
type PortConfig struct {
	Serial SerialPortConfig `mapstructure:"serial"`
	TCP    TCPPortConfig    `mapstructure:"tcp"`
	USB    USBPortConfig    `mapstructure:"usb"`
}

// SerialPortConfig represents serial port configuration
type SerialPortConfig struct {
	BaudRate int           `mapstructure:"baud_rate"`
	DataBits int           `mapstructure:"data_bits"`
	StopBits int           `mapstructure:"stop_bits"`
	Parity   string        `mapstructure:"parity"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// TCPPortConfig represents TCP port configuration
type TCPPortConfig struct {
	Port           int           `mapstructure:"port"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	KeepAlive      bool          `mapstructure:"keep_alive"`
}

// USBPortConfig represents USB port configuration
type USBPortConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// PrinterConfig describes one attached printer
type PrinterConfig struct {
	ID             string                 `mapstructure:"id"`
	Name           string                 `mapstructure:"name"`
	Model          string                 `mapstructure:"model"`
	Charset        string                 `mapstructure:"charset"`
	PaperWidth     int                    `mapstructure:"paper_width"`
	ConnectionType string                 `mapstructure:"connection_type"`
	Connection     map[string]interface{} `mapstructure:"connection"`
}

// AppConfig represents application metadata
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// Load reads configuration from path (or ./config.yaml, ./configs/config.yaml
// when path is empty) and ESCPOS_SERVICE_* environment variables
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	// Environment variable support
	v.SetEnvPrefix("ESCPOS_SERVICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8084")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.tls.enabled", false)

	// Database defaults
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "escpos_service")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.max_lifetime", "5m")
	v.SetDefault("database.migrate_on_start", true)

	// Security defaults
	v.SetDefault("security.allowed_origins", []string{"*"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 28)
	v.SetDefault("logging.compress", true)

	// Job defaults
	v.SetDefault("jobs.retry_attempts", 3)
	v.SetDefault("jobs.retry_delay", "500ms")
	v.SetDefault("jobs.flush_timeout", "10s")
	v.SetDefault("jobs.list_limit", 100)

	// Port defaults
	v.SetDefault("default_ports.serial.baud_rate", 9600)
	v.SetDefault("default_ports.serial.data_bits", 8)
	v.SetDefault("default_ports.serial.stop_bits", 1)
	v.SetDefault("default_ports.serial.parity", "none")
	v.SetDefault("default_ports.serial.timeout", "5s")

	v.SetDefault("default_ports.tcp.port", 9100)
	v.SetDefault("default_ports.tcp.connect_timeout", "5s")
	v.SetDefault("default_ports.tcp.write_timeout", "10s")
	v.SetDefault("default_ports.tcp.keep_alive", true)

	v.SetDefault("default_ports.usb.timeout", "5s")

	// App defaults
	v.SetDefault("app.name", "escpos-service")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.Host == "" {
		return fmt.Errorf("server.host is required")
	}
	if config.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if config.Database.Enabled && config.Database.Host == "" {
		return fmt.Errorf("database.host is required when database is enabled")
	}
	if config.Jobs.RetryAttempts < 1 {
		return fmt.Errorf("jobs.retry_attempts must be at least 1")
	}

	// Validate environment
	validEnvs := []string{"development", "staging", "production", "test"}
	if !contains(validEnvs, config.App.Environment) {
		return fmt.Errorf("app.environment must be one of: %v", validEnvs)
	}

	// Validate logging level
	validLevels := []string{"debug", "info", "warn", "error", "fatal"}
	if !contains(validLevels, config.Logging.Level) {
		return fmt.Errorf("logging.level must be one of: %v", validLevels)
	}

	seen := make(map[string]bool, len(config.Printers))
	for i, p := range config.Printers {
		if p.ID == "" {
			return fmt.Errorf("printers[%d].id is required", i)
		}
		if seen[p.ID] {
			return fmt.Errorf("printers[%d].id %q is duplicated", i, p.ID)
		}
		seen[p.ID] = true

		if _, err := escpos.ParseModel(p.Model); err != nil {
			return fmt.Errorf("printers[%d].model: %w", i, err)
		}
		if p.Charset != "" {
			if _, err := escpos.ParseCharset(p.Charset); err != nil {
				return fmt.Errorf("printers[%d].charset: %w", i, err)
			}
		}
		if p.ConnectionType == "" {
			return fmt.Errorf("printers[%d].connection_type is required", i)
		}
		if p.PaperWidth < 0 {
			return fmt.Errorf("printers[%d].paper_width must not be negative", i)
		}
	}

	return nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

// DSN returns the lib/pq connection string
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return c.Database.DSN()
}

// GetServerAddr returns the server address
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// IsProduction checks if the environment is production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDebugEnabled checks if debug mode is enabled
func (c *Config) IsDebugEnabled() bool {
	return c.App.Debug || c.App.Environment == "development"
}

// FindPrinter returns the printer with the given id
func (c *Config) FindPrinter(id string) (PrinterConfig, bool) {
	for _, p := range c.Printers {
		if p.ID == id {
			return p, true
		}
	}
	return PrinterConfig{}, false
}
