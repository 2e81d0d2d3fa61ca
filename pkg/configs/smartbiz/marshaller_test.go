package smartbiz_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	ksmartbiz "github.com/smartbiz-gst/smartbiz/pkg/configs/smartbiz"
	"github.com/smartbiz-gst/smartbiz/pkg/utils/try"
)

func env(vars map[string]string) ksmartbiz.Getenv {
	return func(name string) string { return vars[name] }
}

func TestUnmarshal(t *testing.T) {
	t.Run("it loads config from yaml", func(t *testing.T) {
		content := try.To(os.ReadFile(filepath.Join("testdata", "smartbiz.yaml"))).OrFatal(t)
		result := try.To(ksmartbiz.Unmarshal(content, env(nil))).OrFatal(t)

		if result.Port() != 8080 {
			t.Errorf(".port = %d", result.Port())
		}
		if !result.IsProduction() {
			t.Errorf(".env = %s", result.Env())
		}
		if result.LogLevel() != "warn" {
			t.Errorf(".logLevel = %s", result.LogLevel())
		}
		if result.Database() != "postgres://smartbiz:secret@db:5432/smartbiz" {
			t.Errorf(".database = %s", result.Database())
		}
		if string(result.Auth().JWTSecret()) != "file-secret" {
			t.Errorf(".auth.jwtSecret = %s", result.Auth().JWTSecret())
		}
		if result.Auth().JWTExpiresIn() != 12*time.Hour {
			t.Errorf(".auth.jwtExpiresIn = %s", result.Auth().JWTExpiresIn())
		}
		if result.Upload().Dir() != "/var/lib/smartbiz/uploads" {
			t.Errorf(".upload.dir = %s", result.Upload().Dir())
		}
		if result.Upload().MaxFileSize() != 5*1024*1024 {
			t.Errorf(".upload.maxFileSize = %d", result.Upload().MaxFileSize())
		}
		if result.Upload().MaxFiles() != ksmartbiz.DefaultMaxFiles {
			t.Errorf(".upload.maxFiles = %d", result.Upload().MaxFiles())
		}
		if result.Sweep().Timezone() != time.UTC {
			t.Errorf(".sweep.timezone = %s", result.Sweep().Timezone())
		}
		if result.Sweep().Expire() != "*/15 * * * *" {
			t.Errorf(".sweep.expire = %s", result.Sweep().Expire())
		}
		if result.Sweep().Cleanup() != ksmartbiz.DefaultCleanupSchedule {
			t.Errorf(".sweep.cleanup = %s", result.Sweep().Cleanup())
		}
	})

	t.Run("it fills defaults with environment variables only", func(t *testing.T) {
		result := try.To(ksmartbiz.Unmarshal(nil, env(map[string]string{
			ksmartbiz.EnvDatabaseURL: "postgres://localhost/smartbiz",
			ksmartbiz.EnvJWTSecret:   "env-secret",
		}))).OrFatal(t)

		if result.Port() != ksmartbiz.DefaultPort {
			t.Errorf(".port = %d", result.Port())
		}
		if result.Env() != ksmartbiz.Development {
			t.Errorf(".env = %s", result.Env())
		}
		if result.Auth().JWTExpiresIn() != 7*24*time.Hour {
			t.Errorf(".auth.jwtExpiresIn = %s", result.Auth().JWTExpiresIn())
		}
		if result.Upload().MaxFileSize() != 10*1024*1024 || result.Upload().Dir() != "uploads" {
			t.Errorf(".upload = %+v", result.Upload())
		}
		if result.Sweep().Timezone().String() != "Asia/Kolkata" {
			t.Errorf(".sweep.timezone = %s", result.Sweep().Timezone())
		}
		if result.Sweep().Expire() != "0 * * * *" || result.Sweep().Notify() != "0 9 * * *" {
			t.Errorf(".sweep = %+v", result.Sweep())
		}
	})

	t.Run("environment variables win over the file", func(t *testing.T) {
		content := try.To(os.ReadFile(filepath.Join("testdata", "smartbiz.yaml"))).OrFatal(t)
		result := try.To(ksmartbiz.Unmarshal(content, env(map[string]string{
			ksmartbiz.EnvDatabaseURL:   "postgres://override/smartbiz",
			ksmartbiz.EnvJWTSecret:     "env-secret",
			ksmartbiz.EnvJWTExpiresIn:  "3d",
			ksmartbiz.EnvMaxFileSize:   "1024",
			ksmartbiz.EnvPort:          "9000",
			ksmartbiz.EnvNodeEnv:       "development",
			ksmartbiz.EnvUploadDir:     "/tmp/uploads",
			ksmartbiz.EnvLogLevel:      "DEBUG",
			ksmartbiz.EnvSweepTimezone: "Asia/Tokyo",
		}))).OrFatal(t)

		if result.Database() != "postgres://override/smartbiz" {
			t.Errorf(".database = %s", result.Database())
		}
		if string(result.Auth().JWTSecret()) != "env-secret" || result.Auth().JWTExpiresIn() != 72*time.Hour {
			t.Errorf(".auth = %+v", result.Auth())
		}
		if result.Upload().MaxFileSize() != 1024 || result.Upload().Dir() != "/tmp/uploads" {
			t.Errorf(".upload = %+v", result.Upload())
		}
		if result.Port() != 9000 || result.IsProduction() || result.LogLevel() != "debug" {
			t.Errorf("(port, env, logLevel) = (%d, %s, %s)", result.Port(), result.Env(), result.LogLevel())
		}
		if result.Sweep().Timezone().String() != "Asia/Tokyo" {
			t.Errorf(".sweep.timezone = %s", result.Sweep().Timezone())
		}
	})

	t.Run("APP_ENV takes precedence over NODE_ENV", func(t *testing.T) {
		result := try.To(ksmartbiz.Unmarshal(nil, env(map[string]string{
			ksmartbiz.EnvDatabaseURL: "postgres://localhost/smartbiz",
			ksmartbiz.EnvJWTSecret:   "env-secret",
			ksmartbiz.EnvNodeEnv:     "development",
			ksmartbiz.EnvAppEnv:      "production",
		}))).OrFatal(t)
		if !result.IsProduction() {
			t.Errorf(".env = %s", result.Env())
		}
	})

	for name, testcase := range map[string]struct {
		when map[string]string
	}{
		"missing database": {
			when: map[string]string{ksmartbiz.EnvJWTSecret: "s"},
		},
		"missing jwt secret": {
			when: map[string]string{ksmartbiz.EnvDatabaseURL: "postgres://localhost/smartbiz"},
		},
		"broken expiry": {
			when: map[string]string{
				ksmartbiz.EnvDatabaseURL: "postgres://localhost/smartbiz", ksmartbiz.EnvJWTSecret: "s",
				ksmartbiz.EnvJWTExpiresIn: "a week",
			},
		},
		"unknown env": {
			when: map[string]string{
				ksmartbiz.EnvDatabaseURL: "postgres://localhost/smartbiz", ksmartbiz.EnvJWTSecret: "s",
				ksmartbiz.EnvAppEnv: "staging",
			},
		},
		"unknown timezone": {
			when: map[string]string{
				ksmartbiz.EnvDatabaseURL: "postgres://localhost/smartbiz", ksmartbiz.EnvJWTSecret: "s",
				ksmartbiz.EnvSweepTimezone: "Mars/Olympus",
			},
		},
		"broken port": {
			when: map[string]string{
				ksmartbiz.EnvDatabaseURL: "postgres://localhost/smartbiz", ksmartbiz.EnvJWTSecret: "s",
				ksmartbiz.EnvPort: "http",
			},
		},
	} {
		t.Run("it returns error when "+name, func(t *testing.T) {
			result, err := ksmartbiz.Unmarshal(nil, env(testcase.when))
			if err == nil {
				t.Errorf("no error: %+v", result)
			}
		})
	}

	t.Run("it returns error for a broken cron expression", func(t *testing.T) {
		_, err := ksmartbiz.Unmarshal([]byte(`
database: postgres://localhost/smartbiz
auth:
  jwtSecret: s
sweep:
  cleanup: "every night"
`), env(nil))
		if err == nil {
			t.Error("no error")
		}
	})
}

func TestParseDuration(t *testing.T) {
	for name, testcase := range map[string]struct {
		when string
		then time.Duration
	}{
		"days":     {when: "7d", then: 7 * 24 * time.Hour},
		"hours":    {when: "36h", then: 36 * time.Hour},
		"compound": {when: "1h30m", then: 90 * time.Minute},
	} {
		t.Run(name, func(t *testing.T) {
			actual := try.To(ksmartbiz.ParseDuration(testcase.when)).OrFatal(t)
			if actual != testcase.then {
				t.Errorf("ParseDuration(%s) = %s, expected %s", testcase.when, actual, testcase.then)
			}
		})
	}

	if _, err := ksmartbiz.ParseDuration("xd"); err == nil {
		t.Error("no error for xd")
	}
}
