package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/fragdyn/internal/dynamo"
	"github.com/san-kum/fragdyn/internal/fnn"
	"github.com/san-kum/fragdyn/internal/lyapunov"
)

const (
	DefaultMaxDim  = 5
	DefaultMaxEmb  = 5
	DefaultRatio   = 2.0
	DefaultWorkers = 1
)

type Config struct {
	Lyapunov LyapunovConfig `yaml:"lyapunov"`
	FNN      FNNConfig      `yaml:"fnn"`
	Fragment FragmentConfig `yaml:"fragment"`
}

type LyapunovConfig struct {
	MinDim          int     `yaml:"min_dim" validate:"min=2,max=50"`
	MaxDim          int     `yaml:"max_dim" validate:"min=2,max=50,gtefield=MinDim"`
	Delay           int     `yaml:"delay" validate:"min=1"`
	Window          int     `yaml:"window" validate:"min=0"`
	EpsilonMin      float64 `yaml:"epsilon_min" validate:"gt=0"`
	EpsilonMax      float64 `yaml:"epsilon_max" validate:"gt=0"`
	EpsilonCount    int     `yaml:"epsilon_count" validate:"min=1"`
	Horizon         int     `yaml:"horizon" validate:"min=0"`
	Reference       int     `yaml:"reference" validate:"min=0"`
	AbsoluteEpsilon bool    `yaml:"absolute_epsilon"`
	Workers         int     `yaml:"workers" validate:"min=1,max=64"`
}

type FNNConfig struct {
	MinEmb   int     `yaml:"min_emb" validate:"min=1,max=50"`
	MaxEmb   int     `yaml:"max_emb" validate:"min=1,max=50,gtefield=MinEmb"`
	Ratio    float64 `yaml:"ratio" validate:"gt=0"`
	Delay    int     `yaml:"delay" validate:"min=1"`
	Theiler  int     `yaml:"theiler" validate:"min=0"`
	Epsilon0 float64 `yaml:"epsilon0" validate:"gt=0"`
}

// FragmentConfig selects the byte window of an input file. Length 0 reads to
// the end of the file.
type FragmentConfig struct {
	Offset int64 `yaml:"offset" validate:"min=0"`
	Length int   `yaml:"length" validate:"min=0"`
}

func DefaultConfig() *Config {
	return &Config{
		Lyapunov: LyapunovConfig{
			MinDim:       lyapunov.MinDimension,
			MaxDim:       DefaultMaxDim,
			Delay:        lyapunov.DefaultDelay,
			EpsilonMin:   lyapunov.DefaultEpsilonMin,
			EpsilonMax:   lyapunov.DefaultEpsilonMax,
			EpsilonCount: lyapunov.DefaultEpsilonCount,
			Horizon:      lyapunov.DefaultHorizon,
			Workers:      DefaultWorkers,
		},
		FNN: FNNConfig{
			MinEmb:   fnn.MinOrder,
			MaxEmb:   DefaultMaxEmb,
			Ratio:    DefaultRatio,
			Delay:    fnn.DefaultDelay,
			Epsilon0: fnn.DefaultEpsilon0,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field against its bounds. The first violation is
// reported as a dynamo.ErrInvalidParameter.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("config: %s=%v violates %s=%s: %w",
			fe.Namespace(), fe.Value(), fe.Tag(), fe.Param(), dynamo.ErrInvalidParameter)
	}
	return fmt.Errorf("config: %w", err)
}

func (c *Config) LyapunovParams() lyapunov.Params {
	l := c.Lyapunov
	return lyapunov.Params{
		MinDim:          l.MinDim,
		MaxDim:          l.MaxDim,
		Delay:           l.Delay,
		Window:          l.Window,
		EpsilonMin:      l.EpsilonMin,
		EpsilonMax:      l.EpsilonMax,
		EpsilonCount:    l.EpsilonCount,
		Horizon:         l.Horizon,
		Reference:       l.Reference,
		AbsoluteEpsilon: l.AbsoluteEpsilon,
		Workers:         l.Workers,
	}
}

func (c *Config) FNNParams() fnn.Params {
	f := c.FNN
	return fnn.Params{
		MinEmb:   f.MinEmb,
		MaxEmb:   f.MaxEmb,
		Ratio:    f.Ratio,
		Delay:    f.Delay,
		Theiler:  f.Theiler,
		Epsilon0: f.Epsilon0,
	}
}
