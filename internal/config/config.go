package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/moegirlwiki/mwsiteconfig/mwapi"
)

const envPrefix = "MWSITECONFIG"

// ErrUsage means the command line itself was wrong.
var ErrUsage = errors.New("invalid use")

type Config struct {
	Host string `mapstructure:"-"`

	UserAgent string        `mapstructure:"user_agent"`
	Scheme    string        `mapstructure:"scheme"`
	APIPath   string        `mapstructure:"api_path"`
	Format    string        `mapstructure:"format"`
	Output    string        `mapstructure:"output"`
	LogLevel  string        `mapstructure:"log_level"`
	Timeout   time.Duration `mapstructure:"timeout"`

	MaxBodySize int64 `mapstructure:"max_body_size"`
}

// Load resolves the configuration from .env files, MWSITECONFIG_* variables
// and args, later sources winning. args must hold exactly one positional
// argument, the wiki host name. With no envFiles, ".env" in the working
// directory is tried; missing files are ignored and already-set variables
// are never overridden.
func Load(args []string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	if err := loadDotEnv(envFiles); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("parsing environment failed: %w", err)
	}

	fs := flag.NewFlagSet("mwsiteconfig", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.UserAgent, "user-agent", cfg.UserAgent, "User-Agent header sent to the wiki")
	fs.StringVar(&cfg.Scheme, "scheme", cfg.Scheme, "URL scheme of the wiki")
	fs.StringVar(&cfg.APIPath, "api-path", cfg.APIPath, "path of api.php on the wiki host")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "output format: rust, json or yaml")
	fs.StringVar(&cfg.Output, "o", cfg.Output, "write output to this file instead of stdout")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "request timeout (0 means none)")
	fs.Int64Var(&cfg.MaxBodySize, "max-body-size", cfg.MaxBodySize, "maximum bytes read from the response body")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() != 1 {
		return nil, fmt.Errorf("%w: expected exactly one host name, got %d arguments", ErrUsage, fs.NArg())
	}
	cfg.Host = fs.Arg(0)

	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("timeout must not be negative: %s", cfg.Timeout)
	}
	if cfg.MaxBodySize <= 0 {
		return nil, fmt.Errorf("max body size must be positive: %d", cfg.MaxBodySize)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("user_agent", "mwsiteconfig/0.1")
	v.SetDefault("scheme", "https")
	v.SetDefault("api_path", "/w/api.php")
	v.SetDefault("format", "rust")
	v.SetDefault("output", "")
	v.SetDefault("log_level", "warn")
	v.SetDefault("timeout", time.Duration(0))
	v.SetDefault("max_body_size", int64(mwapi.DefaultMaxBodySize))
}

func loadDotEnv(files []string) error {
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
		existing = append(existing, f)
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("reading env file failed: %w", err)
	}
	return nil
}
