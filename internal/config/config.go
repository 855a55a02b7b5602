package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"
)

// Config is the application configuration, built once at startup and
// handed to the handlers.
type Config struct {
	DB       DBConfig
	HTTPPort string
	LogLevel string
	LogFile  string

	// Warnings lists the database variables that were missing from the
	// environment and fell back to their defaults.
	Warnings []string
}

// DBConfig holds the MySQL connection parameters.
type DBConfig struct {
	Host           string
	Port           int
	Name           string
	User           string
	Password       string
	ConnectTimeout time.Duration
}

type setting struct {
	key    string
	env    string
	def    string
	warn   bool
	secret bool
}

var settings = []setting{
	{key: "db.host", env: "DB_HOST", def: "db", warn: true},
	{key: "db.name", env: "MYSQL_DATABASE", def: "iaas_demo", warn: true},
	{key: "db.user", env: "MYSQL_USER", def: "iaasuser", warn: true},
	{key: "db.password", env: "MYSQL_PASSWORD", def: "iaaspass", warn: true, secret: true},
	{key: "db.port", env: "DB_PORT", def: "3306"},
	{key: "db.connect_timeout", env: "DB_CONNECT_TIMEOUT", def: "3s"},
	{key: "http.port", env: "PORT", def: "8080"},
	{key: "log.level", env: "LOG_LEVEL", def: "info"},
	{key: "log.file", env: "LOG_FILE", def: ""},
}

var validLogLevels = []string{"debug", "info", "warn", "error"}

// Load builds the configuration from environment variables. Missing
// variables get their defaults; an empty value counts as missing.
func Load() (*Config, error) {
	v := viper.New()

	var warnings []string
	for _, s := range settings {
		v.SetDefault(s.key, s.def)
		if err := v.BindEnv(s.key, s.env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", s.env, err)
		}
		if s.warn && os.Getenv(s.env) == "" {
			warnings = append(warnings, missingWarning(s))
		}
	}

	port, err := strconv.Atoi(v.GetString("db.port"))
	if err != nil || port < 1 || port > 65535 {
		return nil, fmt.Errorf("DB_PORT must be a port number between 1 and 65535, got %q", v.GetString("db.port"))
	}

	timeout, err := time.ParseDuration(v.GetString("db.connect_timeout"))
	if err != nil {
		return nil, fmt.Errorf("DB_CONNECT_TIMEOUT: %w", err)
	}

	level := strings.ToLower(v.GetString("log.level"))
	if !validLevel(level) {
		return nil, fmt.Errorf("LOG_LEVEL must be one of %v, got %q", validLogLevels, level)
	}

	return &Config{
		DB: DBConfig{
			Host:           v.GetString("db.host"),
			Port:           port,
			Name:           v.GetString("db.name"),
			User:           v.GetString("db.user"),
			Password:       v.GetString("db.password"),
			ConnectTimeout: timeout,
		},
		HTTPPort: v.GetString("http.port"),
		LogLevel: level,
		LogFile:  v.GetString("log.file"),
		Warnings: warnings,
	}, nil
}

func missingWarning(s setting) string {
	if s.secret {
		return fmt.Sprintf("%s is not set, using the default", s.env)
	}
	return fmt.Sprintf("%s is not set, using default %q", s.env, s.def)
}

func validLevel(level string) bool {
	for _, l := range validLogLevels {
		if l == level {
			return true
		}
	}
	return false
}

// Addr returns the host:port pair of the database server.
func (c DBConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// DSN returns the go-sql-driver/mysql data source name for this config.
func (c DBConfig) DSN() string {
	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = c.Addr()
	mc.DBName = c.Name
	mc.ParseTime = true
	mc.Timeout = c.ConnectTimeout
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}
