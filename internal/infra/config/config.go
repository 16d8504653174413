// Package config loads hub settings from an optional YAML file, LIBRAHUB_*
// environment variables and explicit overrides, in increasing precedence.
package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"librahub/internal/domain"
	"librahub/internal/infra/store"
)

const envPrefix = "LIBRAHUB"

const (
	KeyStorePath             = "storePath"
	KeyWidgetIntervalSeconds = "widget.intervalSeconds"
	KeyWidgetOutputPath      = "widget.outputPath"
	KeyInboxDir              = "inbox.dir"
	KeyObservabilityAddress  = "observability.listenAddress"
	KeyLogLevel              = "log.level"
)

const defaultWidgetFile = "widgets.json"

type Config struct {
	StorePath     string              `mapstructure:"storePath"`
	Widget        WidgetConfig        `mapstructure:"widget"`
	Inbox         InboxConfig         `mapstructure:"inbox"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Log           LogConfig           `mapstructure:"log"`
}

type WidgetConfig struct {
	IntervalSeconds int `mapstructure:"intervalSeconds"`
	// OutputPath is where the widget payload file is written. Empty disables it.
	OutputPath string `mapstructure:"outputPath"`
}

func (w WidgetConfig) Interval() time.Duration {
	return time.Duration(w.IntervalSeconds) * time.Second
}

type InboxConfig struct {
	Dir string `mapstructure:"dir"`
}

type ObservabilityConfig struct {
	ListenAddress string `mapstructure:"listenAddress"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Options selects the inputs of Load.
type Options struct {
	Path      string
	Overrides map[string]any
}

type Loader struct {
	logger *zap.Logger
}

func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		return &Loader{logger: zap.NewNop()}
	}
	return &Loader{logger: logger.Named("config")}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	_ = v.BindEnv(KeyWidgetOutputPath)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyStorePath, "")
	v.SetDefault(KeyWidgetIntervalSeconds, domain.DefaultWidgetIntervalSeconds)
	v.SetDefault(KeyInboxDir, "")
	v.SetDefault(KeyObservabilityAddress, "")
	v.SetDefault(KeyLogLevel, domain.DefaultLogLevel)
}

func (l *Loader) Load(ctx context.Context, opts Options) (Config, error) {
	v := newViper()
	if opts.Path != "" {
		data, err := os.ReadFile(opts.Path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		l.logger.Debug("config file loaded", zap.String("path", opts.Path))
	}
	for key, value := range opts.Overrides {
		v.Set(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if strings.TrimSpace(cfg.StorePath) == "" {
		cfg.StorePath = store.ResolveDefaultPath()
	}
	if !v.IsSet(KeyWidgetOutputPath) {
		cfg.Widget.OutputPath = filepath.Join(filepath.Dir(cfg.StorePath), defaultWidgetFile)
	}
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, ctx.Err()
}

func Validate(cfg Config) error {
	var errs []string
	if cfg.Widget.IntervalSeconds <= 0 {
		errs = append(errs, fmt.Sprintf("%s must be > 0", KeyWidgetIntervalSeconds))
	}
	if _, err := zapcore.ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, fmt.Sprintf("%s: unknown level %q", KeyLogLevel, cfg.Log.Level))
	}
	if len(errs) > 0 {
		return domain.E(domain.CodeInvalidArgument, "load config", strings.Join(errs, "; "), errors.New("invalid config"))
	}
	return nil
}
