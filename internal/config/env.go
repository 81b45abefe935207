package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Env holds process-level settings that are not part of a run: where
// results go and how loud logging is.
type Env struct {
	DataDir  string `mapstructure:"data"`
	LogLevel string `mapstructure:"log-level"`
	DB       string `mapstructure:"db"`
}

// LoadEnv resolves Env from defaults, FIXSTEP_* environment variables and
// any changed flags in flags, in increasing precedence. flags may be nil.
func LoadEnv(flags *pflag.FlagSet) (Env, error) {
	v := viper.New()

	v.SetDefault("data", ".fixstep")
	v.SetDefault("log-level", "info")
	v.SetDefault("db", "")

	v.SetEnvPrefix("FIXSTEP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Env{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	var e Env
	if err := v.Unmarshal(&e); err != nil {
		return Env{}, fmt.Errorf("unmarshal env: %w", err)
	}
	return e, nil
}
