package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/willemschots/signups/internal/db"
)

// config is the configuration for the server command.
//
// Every field is read from the environment variable in its envconfig tag.
type config struct {
	Addr                string        `envconfig:"ADDR" default:"127.0.0.1:8080"`
	HTTPReadTimeout     time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"5s"`
	HTTPWriteTimeout    time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"10s"`
	HTTPIdleTimeout     time.Duration `envconfig:"HTTP_IDLE_TIMEOUT" default:"120s"`
	HTTPShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"15s"`
	HTTPViewDir         string        `envconfig:"HTTP_VIEW_DIR"`
	HTTPSSLRedirect     bool          `envconfig:"HTTP_SSL_REDIRECT" default:"false"`

	DatabaseURL       string        `envconfig:"DATABASE_URL" required:"true"`
	DBDriver          string        `envconfig:"DB_DRIVER" default:"sqlite3"`
	DBMigrate         bool          `envconfig:"DB_MIGRATE" default:"true"`
	DBMaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
	DBMaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	DBConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`

	LogFormat string     `envconfig:"LOG_FORMAT" default:"text"`
	LogLevel  slog.Level `envconfig:"LOG_LEVEL" default:"info"`
	LogFile   string     `envconfig:"LOG_FILE"`
}

func (c config) dbConfig() db.Config {
	return db.Config{
		URL:             c.DatabaseURL,
		SQLiteDriver:    c.DBDriver,
		MaxOpenConns:    c.DBMaxOpenConns,
		MaxIdleConns:    c.DBMaxIdleConns,
		ConnMaxLifetime: c.DBConnMaxLifetime,
	}
}

// configFromEnv returns a config with values from the environment. It falls
// back to default values for any missing optional environment variables.
//
// It does a best effort to validate provided values, so that mistakes are
// caught ASAP. However, there is no guarantee that the returned config
// is valid and will work.
func configFromEnv() (config, error) {
	var c config
	err := envconfig.Process("", &c)
	if err != nil {
		return c, fmt.Errorf("invalid env variable: %w", err)
	}

	return c, c.validate()
}

// validate reports all invalid values at once.
func (c config) validate() error {
	errs := []error{
		confNotEmpty("ADDR", c.Addr),
		confDuration("HTTP_READ_TIMEOUT", c.HTTPReadTimeout, 0, math.MaxInt64),
		confDuration("HTTP_WRITE_TIMEOUT", c.HTTPWriteTimeout, 0, math.MaxInt64),
		confDuration("HTTP_IDLE_TIMEOUT", c.HTTPIdleTimeout, 0, math.MaxInt64),
		confDuration("HTTP_SHUTDOWN_TIMEOUT", c.HTTPShutdownTimeout, 0, math.MaxInt64),
		confNotEmpty("DATABASE_URL", c.DatabaseURL),
		confOneOf("DB_DRIVER", c.DBDriver, db.DriverCGO, db.DriverPure),
		confInt("DB_MAX_OPEN_CONNS", c.DBMaxOpenConns, 1, math.MaxInt),
		confInt("DB_MAX_IDLE_CONNS", c.DBMaxIdleConns, 0, math.MaxInt),
		confDuration("DB_CONN_MAX_LIFETIME", c.DBConnMaxLifetime, 0, math.MaxInt64),
		confOneOf("LOG_FORMAT", c.LogFormat, "text", "json"),
	}

	return errors.Join(errs...)
}

// confDuration checks if v is in the provided range (inclusive).
func confDuration(key string, v, min, max time.Duration) error {
	if v < min || v > max {
		return fmt.Errorf("invalid env variable %s: duration %s not in range [%s, %s] (inclusive)", key, v, min, max)
	}
	return nil
}

// confInt checks if v is in the provided range (inclusive).
func confInt(key string, v, min, max int) error {
	if v < min || v > max {
		return fmt.Errorf("invalid env variable %s: %d not in range [%d, %d] (inclusive)", key, v, min, max)
	}
	return nil
}

func confNotEmpty(key, v string) error {
	if v == "" {
		return fmt.Errorf("invalid env variable %s: must not be empty", key)
	}
	return nil
}

func confOneOf(key, v string, options ...string) error {
	for _, o := range options {
		if v == o {
			return nil
		}
	}
	return fmt.Errorf("invalid env variable %s: %q is not one of %q", key, v, options)
}
