package memcake

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// defaultTimeout is applied to every fluent op unless overridden with
// .Timeout.
const defaultTimeout = 2 * time.Second

// Options holds pool settings: address, connection count, and default
// timeout. OptionsFromEnv populates it from the process environment;
// pool.New takes pool.Option values, not an Options.
type Options struct {
	Addr           string        `envconfig:"MEMCAKE_ADDR" default:"127.0.0.1:11211"`
	MaxConnections int           `envconfig:"MEMCAKE_MAX_CONNECTIONS" default:"1"`
	DefaultTimeout time.Duration `envconfig:"MEMCAKE_DEFAULT_TIMEOUT" default:"5s"`
}

// OptionsFromEnv reads MEMCAKE_ADDR, MEMCAKE_MAX_CONNECTIONS, and
// MEMCAKE_DEFAULT_TIMEOUT, falling back to Options' defaults for any
// unset variable.
func OptionsFromEnv() (Options, error) {
	var o Options
	if err := envconfig.Process("", &o); err != nil {
		return Options{}, err
	}
	return o, nil
}
