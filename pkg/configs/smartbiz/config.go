package smartbiz

import "time"

// Environment the server runs in.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

// Config is the sealed, readonly configuration of the server.
//
// To get a Config instance, use `Load` or `Unmarshal`.
type Config struct {
	port     int
	env      Environment
	logLevel string
	database string
	auth     *AuthConfig
	upload   *UploadConfig
	sweep    *SweepConfig
}

// port to listen on. default = 5000
func (c *Config) Port() int {
	return c.port
}

func (c *Config) Env() Environment {
	return c.env
}

// IsProduction tells whether details of errors should be hidden from clients.
func (c *Config) IsProduction() bool {
	return c.env == Production
}

// one of debug, info, warn, error, off. default = "info"
func (c *Config) LogLevel() string {
	return c.logLevel
}

// Connection string for database.
func (c *Config) Database() string {
	return c.database
}

func (c *Config) Auth() *AuthConfig {
	return c.auth
}

func (c *Config) Upload() *UploadConfig {
	return c.upload
}

func (c *Config) Sweep() *SweepConfig {
	return c.sweep
}

type AuthConfig struct {
	jwtSecret    string
	jwtExpiresIn time.Duration
}

// key to sign tokens with HS256.
func (a *AuthConfig) JWTSecret() []byte {
	return []byte(a.jwtSecret)
}

// lifetime of tokens. default = 7 days
func (a *AuthConfig) JWTExpiresIn() time.Duration {
	return a.jwtExpiresIn
}

type UploadConfig struct {
	dir         string
	maxFileSize int64
	maxFiles    int
}

// where uploaded images are stored. default = "uploads"
func (u *UploadConfig) Dir() string {
	return u.dir
}

// in bytes. default = 10 MiB
func (u *UploadConfig) MaxFileSize() int64 {
	return u.maxFileSize
}

// per request. default = 3
func (u *UploadConfig) MaxFiles() int {
	return u.maxFiles
}

// Timing of sweeps.
//
// Schedules are standard 5-field cron expressions, evaluated in Timezone.
type SweepConfig struct {
	timezone *time.Location
	expire   string
	cleanup  string
	notify   string
}

// default = Asia/Kolkata
func (s *SweepConfig) Timezone() *time.Location {
	return s.timezone
}

// default = "0 * * * *"
func (s *SweepConfig) Expire() string {
	return s.expire
}

// default = "0 2 * * *"
func (s *SweepConfig) Cleanup() string {
	return s.cleanup
}

// default = "0 9 * * *"
func (s *SweepConfig) Notify() string {
	return s.notify
}
