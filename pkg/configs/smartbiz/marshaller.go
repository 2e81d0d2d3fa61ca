package smartbiz

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Getenv looks up an environment variable. os.Getenv is one.
type Getenv func(string) string

// environment variables overriding values in config file.
const (
	EnvDatabaseURL   = "DATABASE_URL"
	EnvJWTSecret     = "JWT_SECRET"
	EnvJWTExpiresIn  = "JWT_EXPIRES_IN"
	EnvMaxFileSize   = "MAX_FILE_SIZE"
	EnvAppEnv        = "APP_ENV"
	EnvNodeEnv       = "NODE_ENV"
	EnvPort          = "PORT"
	EnvUploadDir     = "UPLOAD_DIR"
	EnvLogLevel      = "LOG_LEVEL"
	EnvSweepTimezone = "SWEEP_TIMEZONE"
)

// load server config from a file, then override it with environment variables.
//
// args:
//   - filepath: filepath refers a config file. If empty, only environment variables are used.
//
// returns *Config, error:
//
//	When loading success, returns `(*Config, nil)`.
//	Otherwise, returns `(nil, error)`.
func Load(filepath string) (*Config, error) {
	content := []byte{}
	if filepath != "" {
		c, err := os.ReadFile(filepath)
		if err != nil {
			return nil, err
		}
		content = c
	}
	return Unmarshal(content, os.Getenv)
}

func Unmarshal(conf []byte, getenv Getenv) (out *Config, err error) {
	marshall := &ConfigMarshall{}
	if err := yaml.Unmarshal(conf, marshall); err != nil {
		return nil, err
	}
	if err := marshall.Override(getenv); err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			out = nil
			if e, ok := r.(error); ok {
				err = e
			} else {
				err = fmt.Errorf("%v", r)
			}
		}
	}()
	return marshall.TrySeal(), nil
}

// Override replaces values with environment variables which are not empty.
func (c *ConfigMarshall) Override(getenv Getenv) error {
	str := func(name string, dest *string) {
		if v := getenv(name); v != "" {
			*dest = v
		}
	}

	str(EnvDatabaseURL, &c.Database)
	str(EnvLogLevel, &c.LogLevel)
	str(EnvNodeEnv, &c.Env)
	str(EnvAppEnv, &c.Env)

	if v := getenv(EnvPort); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s is not a number: %w", EnvPort, err)
		}
		c.Port = p
	}

	if getenv(EnvJWTSecret) != "" || getenv(EnvJWTExpiresIn) != "" {
		if c.Auth == nil {
			c.Auth = &AuthConfigMarshall{}
		}
		str(EnvJWTSecret, &c.Auth.JWTSecret)
		str(EnvJWTExpiresIn, &c.Auth.JWTExpiresIn)
	}

	if getenv(EnvUploadDir) != "" || getenv(EnvMaxFileSize) != "" {
		if c.Upload == nil {
			c.Upload = &UploadConfigMarshall{}
		}
		str(EnvUploadDir, &c.Upload.Dir)
		if v := getenv(EnvMaxFileSize); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return fmt.Errorf("%s is not a number: %w", EnvMaxFileSize, err)
			}
			c.Upload.MaxFileSize = n
		}
	}

	if getenv(EnvSweepTimezone) != "" {
		if c.Sweep == nil {
			c.Sweep = &SweepConfigMarshall{}
		}
		str(EnvSweepTimezone, &c.Sweep.Timezone)
	}

	return nil
}
