// Package config loads scanner settings: built-in defaults, an optional YAML
// file, then BIOID_* environment overrides, validated before use.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ensigniasec/bio-id/internal/scanner"
	"github.com/ensigniasec/bio-id/internal/validate"
)

// DefaultPath is where the CLI looks for a config file when none is given.
const DefaultPath = "~/.config/bio-id/config.yaml"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the full settings tree.
type Config struct {
	Scanner ScannerConfig `yaml:"scanner"`
	Labels  LabelsConfig  `yaml:"labels"`
	UI      UIConfig      `yaml:"ui"`
}

// ScannerConfig holds the controller timings.
type ScannerConfig struct {
	TickInterval  time.Duration `yaml:"tick_interval"  env:"BIOID_TICK_INTERVAL"  validate:"gt=0"`
	RevealDelay   time.Duration `yaml:"reveal_delay"   env:"BIOID_REVEAL_DELAY"   validate:"gte=0"`
	InterruptHold time.Duration `yaml:"interrupt_hold" env:"BIOID_INTERRUPT_HOLD" validate:"gte=0"`
	MinStep       float64       `yaml:"min_step"       env:"BIOID_MIN_STEP"       validate:"gte=0,ltfield=MaxStep"`
	MaxStep       float64       `yaml:"max_step"       env:"BIOID_MAX_STEP"       validate:"gt=0,lte=100"`
	// Seed fixes the jitter sequence; 0 draws one from crypto/rand.
	Seed uint64 `yaml:"seed,omitempty" env:"BIOID_SEED"`
}

// LabelsConfig holds the two outcome labels.
type LabelsConfig struct {
	A string `yaml:"a" env:"BIOID_LABEL_A" validate:"notblank,max=32"`
	B string `yaml:"b" env:"BIOID_LABEL_B" validate:"notblank,max=32"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Locale string `yaml:"locale" env:"BIOID_LOCALE" validate:"required,bcp47_language_tag"`
	// Hidden trigger zone in the top-left corner, in terminal cells.
	SecretZoneWidth  int  `yaml:"secret_zone_width"  env:"BIOID_SECRET_ZONE_WIDTH"  validate:"gte=1,lte=40"`
	SecretZoneHeight int  `yaml:"secret_zone_height" env:"BIOID_SECRET_ZONE_HEIGHT" validate:"gte=1,lte=20"`
	Haptics          bool `yaml:"haptics"            env:"BIOID_HAPTICS"`
	AltScreen        bool `yaml:"alt_screen"         env:"BIOID_ALT_SCREEN"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Scanner: ScannerConfig{
			TickInterval:  scanner.DefaultTickInterval,
			RevealDelay:   scanner.DefaultRevealDelay,
			InterruptHold: scanner.DefaultInterruptHold,
			MinStep:       scanner.DefaultMinStep,
			MaxStep:       scanner.DefaultMaxStep,
		},
		Labels: LabelsConfig{
			A: scanner.DefaultLabelA,
			B: scanner.DefaultLabelB,
		},
		UI: UIConfig{
			Locale:           "en-US",
			SecretZoneWidth:  12,
			SecretZoneHeight: 4,
			Haptics:          true,
			AltScreen:        true,
		},
	}
}

// Load builds the effective config. An empty path skips the file. A missing
// file is only an error when mustExist is set.
func Load(path string, mustExist bool) (Config, error) {
	cfg := Default()

	if path != "" {
		expanded, err := expandTilde(path)
		if err != nil {
			return Config{}, err
		}
		if err := cfg.readFile(expanded); err != nil {
			if !os.IsNotExist(err) || mustExist {
				return Config{}, err
			}
			logrus.Debugf("no config file at %s; using defaults", expanded)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	logrus.Debug("Loading config file from: ", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays BIOID_* environment variables.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks every field rule.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalid, validate.Describe(err))
	}
	return nil
}

// Marshal renders the config as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// ScannerOptions maps the config onto controller options.
func (c Config) ScannerOptions() scanner.Options {
	return scanner.Options{
		TickInterval:  c.Scanner.TickInterval,
		RevealDelay:   c.Scanner.RevealDelay,
		InterruptHold: c.Scanner.InterruptHold,
		MinStep:       c.Scanner.MinStep,
		MaxStep:       c.Scanner.MaxStep,
		LabelA:        c.Labels.A,
		LabelB:        c.Labels.B,
	}
}

// expandTilde expands the tilde in a path to the user's home directory.
func expandTilde(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}
