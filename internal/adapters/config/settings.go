package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/bnema/vmsim/internal/application"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = ".vmsim"
	envPrefix  = "VMSIM"

	loadDelayKey       = "simulation.load_delay"
	swapInDelayKey     = "simulation.swap_in_delay"
	closeDelayKey      = "simulation.close_delay"
	capacityOptionsKey = "simulation.capacity_options"
)

type Settings struct {
	Delays          application.Delays
	CapacityOptions []int
}

// Load reads ~/.vmsim/config.toml into cfg, tolerating a missing file, and
// resolves simulation settings with VMSIM_* environment overrides.
func Load(cfg *viper.Viper) (Settings, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Settings{}, fmt.Errorf("resolve home directory: %w", err)
	}

	defaults := application.DefaultDelays()
	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, configDir))
	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()
	cfg.SetDefault(loadDelayKey, defaults.Load)
	cfg.SetDefault(swapInDelayKey, defaults.SwapIn)
	cfg.SetDefault(closeDelayKey, defaults.Close)
	cfg.SetDefault(capacityOptionsKey, application.DefaultCapacityOptions)

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Settings{}, fmt.Errorf("read config file: %w", err)
		}
	}

	capacityOptions, err := parseCapacityOptions(cfg.Get(capacityOptionsKey))
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", capacityOptionsKey, err)
	}

	settings := Settings{
		Delays: application.Delays{
			Load:   cfg.GetDuration(loadDelayKey),
			SwapIn: cfg.GetDuration(swapInDelayKey),
			Close:  cfg.GetDuration(closeDelayKey),
		},
		CapacityOptions: capacityOptions,
	}

	if err := settings.validate(); err != nil {
		return Settings{}, err
	}

	return settings, nil
}

// parseCapacityOptions accepts a TOML array or an environment string such as
// "2 4 8" or "2,4,8".
func parseCapacityOptions(raw any) ([]int, error) {
	text, ok := raw.(string)
	if !ok {
		return cast.ToIntSliceE(raw)
	}

	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	options := make([]int, 0, len(fields))
	for _, field := range fields {
		capacity, err := cast.ToIntE(field)
		if err != nil {
			return nil, fmt.Errorf("parse capacity %q: %w", field, err)
		}
		options = append(options, capacity)
	}

	return options, nil
}

func (s Settings) validate() error {
	for key, delay := range map[string]time.Duration{
		loadDelayKey:   s.Delays.Load,
		swapInDelayKey: s.Delays.SwapIn,
		closeDelayKey:  s.Delays.Close,
	} {
		if delay < 0 {
			return fmt.Errorf("%s must not be negative, got %s", key, delay)
		}
	}

	if len(s.CapacityOptions) == 0 {
		return fmt.Errorf("%s must list at least one capacity", capacityOptionsKey)
	}
	for _, capacity := range s.CapacityOptions {
		if capacity <= 0 {
			return fmt.Errorf("%s must be positive, got %d", capacityOptionsKey, capacity)
		}
	}

	return nil
}
