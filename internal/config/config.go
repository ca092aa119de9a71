// Package config provides Viper-based configuration loading for the spellbook tools.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// RedisConfig holds the battle log stream settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// LogKeyPrefix prefixes the per-character list key, e.g. "spellbook:log:".
	LogKeyPrefix string `mapstructure:"log_key_prefix"`
	// MaxLogLines caps each list; older lines are trimmed.
	MaxLogLines int64 `mapstructure:"max_log_lines"`
}

// StorageConfig selects the character store.
type StorageConfig struct {
	// Driver is one of "memory", "postgres", "sqlite".
	Driver string `mapstructure:"driver"`
	// SQLitePath is the database file used by the sqlite driver.
	SQLitePath string `mapstructure:"sqlite_path"`
}

// ContentConfig locates the static YAML tables.
type ContentConfig struct {
	Dir string `mapstructure:"dir"`
}

// EngineConfig holds the fixed combat numbers used by spells and abilities.
type EngineConfig struct {
	AttackBonus      int `mapstructure:"attack_bonus"`
	SpellAttackBonus int `mapstructure:"spell_attack_bonus"`
	SpellSaveDC      int `mapstructure:"spell_save_dc"`
	// DefaultHitDie is used by short rests when the class declares none.
	DefaultHitDie int `mapstructure:"default_hit_die"`
	// DiceSource is "crypto" or "toolkit".
	DiceSource string `mapstructure:"dice_source"`
}

// TelnetConfig holds the table server listener settings used by spellbook serve.
type TelnetConfig struct {
	Host string `mapstructure:"host"`
	// Port 0 picks a free port.
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// Color enables ANSI styling of prompts and warnings.
	Color bool `mapstructure:"color"`
}

// Addr returns the "host:port" listen address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (t TelnetConfig) Addr() string {
	return fmt.Sprintf("%s:%d", t.Host, t.Port)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// BattleLogConfig selects where battle log lines are appended.
type BattleLogConfig struct {
	// Sink is one of "memory", "redis", "stdout", "postgres". The postgres
	// sink writes to the battle_log table and needs the postgres storage driver.
	Sink string `mapstructure:"sink"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Content   ContentConfig   `mapstructure:"content"`
	Engine    EngineConfig    `mapstructure:"engine"`
	BattleLog BattleLogConfig `mapstructure:"battlelog"`
	Telnet    TelnetConfig    `mapstructure:"telnet"`
}

// Validate checks all configuration invariants. The database section is
// only checked for the postgres driver and the redis section only for the redis sink.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateStorage(c.Storage); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Storage.Driver == "postgres" {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateEngine(c.Engine); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateBattleLog(c.BattleLog); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateTelnet(c.Telnet); err != nil {
		errs = append(errs, err.Error())
	}
	if c.BattleLog.Sink == "postgres" && c.Storage.Driver != "postgres" {
		errs = append(errs, "battlelog.sink postgres requires storage.driver postgres")
	}
	if c.BattleLog.Sink == "redis" {
		if err := validateRedis(c.Redis); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateRedis(r RedisConfig) error {
	var errs []string
	if r.Addr == "" {
		errs = append(errs, "redis.addr must not be empty")
	}
	if r.DB < 0 {
		errs = append(errs, fmt.Sprintf("redis.db must be >= 0, got %d", r.DB))
	}
	if r.MaxLogLines < 1 {
		errs = append(errs, fmt.Sprintf("redis.max_log_lines must be >= 1, got %d", r.MaxLogLines))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateTelnet(t TelnetConfig) error {
	var errs []string
	if t.Port < 0 || t.Port > 65535 {
		errs = append(errs, fmt.Sprintf("telnet.port must be 0-65535, got %d", t.Port))
	}
	if t.ReadTimeout < 0 {
		errs = append(errs, "telnet.read_timeout must not be negative")
	}
	if t.WriteTimeout < 0 {
		errs = append(errs, "telnet.write_timeout must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateStorage(s StorageConfig) error {
	validDrivers := map[string]bool{"memory": true, "postgres": true, "sqlite": true}
	if !validDrivers[s.Driver] {
		return fmt.Errorf("storage.driver must be one of [memory, postgres, sqlite], got %q", s.Driver)
	}
	if s.Driver == "sqlite" && s.SQLitePath == "" {
		return errors.New("storage.sqlite_path must not be empty for the sqlite driver")
	}
	return nil
}

func validateContent(c ContentConfig) error {
	if c.Dir == "" {
		return errors.New("content.dir must not be empty")
	}
	return nil
}

func validateEngine(e EngineConfig) error {
	var errs []string
	if e.SpellSaveDC < 1 {
		errs = append(errs, fmt.Sprintf("engine.spell_save_dc must be >= 1, got %d", e.SpellSaveDC))
	}
	validDice := map[int]bool{4: true, 6: true, 8: true, 10: true, 12: true}
	if !validDice[e.DefaultHitDie] {
		errs = append(errs, fmt.Sprintf("engine.default_hit_die must be one of [4, 6, 8, 10, 12], got %d", e.DefaultHitDie))
	}
	validSources := map[string]bool{"crypto": true, "toolkit": true}
	if !validSources[e.DiceSource] {
		errs = append(errs, fmt.Sprintf("engine.dice_source must be one of [crypto, toolkit], got %q", e.DiceSource))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateBattleLog(b BattleLogConfig) error {
	validSinks := map[string]bool{"memory": true, "redis": true, "stdout": true, "postgres": true}
	if !validSinks[b.Sink] {
		return fmt.Errorf("battlelog.sink must be one of [memory, redis, stdout, postgres], got %q", b.Sink)
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := NewViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// NewViper returns a Viper instance with defaults and SPELLBOOK_ environment overrides applied.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("SPELLBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "spellbook")
	v.SetDefault("database.password", "spellbook")
	v.SetDefault("database.name", "spellbook")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.log_key_prefix", "spellbook:log:")
	v.SetDefault("redis.max_log_lines", 500)

	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.sqlite_path", "spellbook.db")

	v.SetDefault("content.dir", "content")

	v.SetDefault("engine.attack_bonus", 7)
	v.SetDefault("engine.spell_attack_bonus", 7)
	v.SetDefault("engine.spell_save_dc", 15)
	v.SetDefault("engine.default_hit_die", 8)
	v.SetDefault("engine.dice_source", "crypto")

	v.SetDefault("battlelog.sink", "stdout")

	v.SetDefault("telnet.host", "127.0.0.1")
	v.SetDefault("telnet.port", 4000)
	v.SetDefault("telnet.read_timeout", "30m")
	v.SetDefault("telnet.write_timeout", "30s")
	v.SetDefault("telnet.color", true)
}
