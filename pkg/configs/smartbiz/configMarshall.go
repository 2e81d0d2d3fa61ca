package smartbiz

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/robfig/cron/v3"
)

const (
	DefaultPort         = 5000
	DefaultLogLevel     = "info"
	DefaultJWTExpiresIn = 7 * 24 * time.Hour
	DefaultUploadDir    = "uploads"
	DefaultMaxFileSize  = int64(10 * 1024 * 1024)
	DefaultMaxFiles     = 3
	DefaultTimezone     = "Asia/Kolkata"

	DefaultExpireSchedule  = "0 * * * *"
	DefaultCleanupSchedule = "0 2 * * *"
	DefaultNotifySchedule  = "0 9 * * *"
)

// Configuration of the server.
//
// This type is marshalling value and mutable.
// Consider to use immutable version, `Config`.
type ConfigMarshall struct {
	Port     int                   `yaml:"port,omitempty"`
	Env      string                `yaml:"env,omitempty"`
	LogLevel string                `yaml:"logLevel,omitempty"`
	Database string                `yaml:"database"`
	Auth     *AuthConfigMarshall   `yaml:"auth"`
	Upload   *UploadConfigMarshall `yaml:"upload,omitempty"`
	Sweep    *SweepConfigMarshall  `yaml:"sweep,omitempty"`
}

type AuthConfigMarshall struct {
	JWTSecret string `yaml:"jwtSecret"`

	// go duration ("12h") or days ("7d").
	JWTExpiresIn string `yaml:"jwtExpiresIn,omitempty"`
}

type UploadConfigMarshall struct {
	Dir         string `yaml:"dir,omitempty"`
	MaxFileSize int64  `yaml:"maxFileSize,omitempty"`
	MaxFiles    int    `yaml:"maxFiles,omitempty"`
}

type SweepConfigMarshall struct {
	Timezone string `yaml:"timezone,omitempty"`
	Expire   string `yaml:"expire,omitempty"`
	Cleanup  string `yaml:"cleanup,omitempty"`
	Notify   string `yaml:"notify,omitempty"`
}

// verify configuration value and create "readonly" version of this.
//
// IT WILL PANIC if any misconfiguration is found.
func (c *ConfigMarshall) TrySeal() *Config {
	return c.trySeal("(root)")
}

func (c *ConfigMarshall) trySeal(path string) *Config {
	env := Environment(orDefault(c.Env, string(Development)))
	switch env {
	case Development, Production:
	default:
		panic(fmt.Errorf("%s.env should be development or production: %s", path, c.Env))
	}

	logLevel := strings.ToLower(orDefault(c.LogLevel, DefaultLogLevel))
	switch logLevel {
	case "debug", "info", "warn", "error", "off":
	default:
		panic(fmt.Errorf("%s.logLevel is unknown: %s", path, c.LogLevel))
	}

	port := c.Port
	if port == 0 {
		port = DefaultPort
	}
	if port < 0 || 65535 < port {
		panic(fmt.Errorf("%s.port is out of range: %d", path, port))
	}

	upload := c.Upload
	if upload == nil {
		upload = &UploadConfigMarshall{}
	}
	sweep := c.Sweep
	if sweep == nil {
		sweep = &SweepConfigMarshall{}
	}

	return &Config{
		port:     port,
		env:      env,
		logLevel: logLevel,
		database: required(c.Database, path+".database"),
		auth:     nonnil(c.Auth, path+".auth").trySeal(path + ".auth"),
		upload:   upload.trySeal(path + ".upload"),
		sweep:    sweep.trySeal(path + ".sweep"),
	}
}

func (a *AuthConfigMarshall) trySeal(path string) *AuthConfig {
	expiresIn := DefaultJWTExpiresIn
	if a.JWTExpiresIn != "" {
		d, err := ParseDuration(a.JWTExpiresIn)
		if err != nil {
			panic(fmt.Errorf("%s.jwtExpiresIn can not be parsed: %w", path, err))
		}
		if d <= 0 {
			panic(fmt.Errorf("%s.jwtExpiresIn should be positive: %s", path, a.JWTExpiresIn))
		}
		expiresIn = d
	}
	return &AuthConfig{
		jwtSecret:    required(a.JWTSecret, path+".jwtSecret"),
		jwtExpiresIn: expiresIn,
	}
}

func (u *UploadConfigMarshall) trySeal(path string) *UploadConfig {
	maxFileSize := u.MaxFileSize
	if maxFileSize == 0 {
		maxFileSize = DefaultMaxFileSize
	}
	if maxFileSize < 0 {
		panic(fmt.Errorf("%s.maxFileSize should be positive: %d", path, u.MaxFileSize))
	}
	maxFiles := u.MaxFiles
	if maxFiles == 0 {
		maxFiles = DefaultMaxFiles
	}
	if maxFiles < 0 {
		panic(fmt.Errorf("%s.maxFiles should be positive: %d", path, u.MaxFiles))
	}
	return &UploadConfig{
		dir:         orDefault(u.Dir, DefaultUploadDir),
		maxFileSize: maxFileSize,
		maxFiles:    maxFiles,
	}
}

func (s *SweepConfigMarshall) trySeal(path string) *SweepConfig {
	tzName := orDefault(s.Timezone, DefaultTimezone)
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		panic(fmt.Errorf("%s.timezone is unknown: %w", path, err))
	}
	return &SweepConfig{
		timezone: tz,
		expire:   schedule(orDefault(s.Expire, DefaultExpireSchedule), path+".expire"),
		cleanup:  schedule(orDefault(s.Cleanup, DefaultCleanupSchedule), path+".cleanup"),
		notify:   schedule(orDefault(s.Notify, DefaultNotifySchedule), path+".notify"),
	}
}

// ParseDuration parses go duration ("90m", "12h") or days ("7d").
func ParseDuration(s string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("'%s' is not a duration: %w", s, err)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}

func schedule(spec string, path string) string {
	if _, err := cron.ParseStandard(spec); err != nil {
		panic(fmt.Errorf("%s is not a cron expression: %w", path, err))
	}
	return spec
}

func orDefault[T comparable](v T, d T) T {
	if v == *new(T) {
		return d
	}
	return v
}

func required[T comparable](v T, path string) T {
	if v == *new(T) {
		panic(fmt.Errorf("%s is required", path))
	}
	return v
}

func nonnil[T any](v *T, path string) *T {
	if v == nil {
		panic(fmt.Errorf("%s is required", path))
	}
	return v
}
