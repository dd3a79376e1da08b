package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/bondsim/internal/bond"
)

const (
	DefaultFreqMin = 0.01
	DefaultFreqMax = 100.0
	DefaultPoints  = 60
)

var validate = validator.New()

// Config is a model file: a bond list plus the options for deriving and
// analysing it. Name becomes part of a run directory, so it may not hold a
// path separator or a dot.
type Config struct {
	Name      string             `yaml:"name" validate:"required,excludesall=/\\."`
	Bonds     []BondConfig       `yaml:"bonds" validate:"required,min=1,dive"`
	Params    map[string]float64 `yaml:"params,omitempty"`
	Causality CausalityConfig    `yaml:"causality"`
	Analysis  AnalysisConfig     `yaml:"analysis"`
}

// BondConfig describes one bond. PowerToDest defaults to true when omitted.
// Causality holds a previously saved assignment and may be empty.
type BondConfig struct {
	Number      int    `yaml:"number" validate:"gt=0"`
	From        string `yaml:"from" validate:"required"`
	To          string `yaml:"to" validate:"required,nefield=From"`
	PowerToDest *bool  `yaml:"power_to_dest,omitempty"`
	Causality   string `yaml:"causality,omitempty" validate:"omitempty,oneof=undetermined source_effort dest_effort"`
}

type CausalityConfig struct {
	DisableFallback bool `yaml:"disable_fallback"`
	ReportAll       bool `yaml:"report_all"`
}

// AnalysisConfig drives the frequency response of the derived state model.
// Input and Output name a source and a state; empty picks the first of each.
type AnalysisConfig struct {
	Input   string  `yaml:"input,omitempty"`
	Output  string  `yaml:"output,omitempty"`
	FreqMin float64 `yaml:"freq_min" validate:"gt=0"`
	FreqMax float64 `yaml:"freq_max" validate:"gtfield=FreqMin"`
	Points  int     `yaml:"points" validate:"gte=2,lte=10000"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:   "model",
		Params: map[string]float64{},
		Analysis: AnalysisConfig{
			FreqMin: DefaultFreqMin,
			FreqMax: DefaultFreqMax,
			Points:  DefaultPoints,
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
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
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

// Validate checks the struct tags and that bond numbers are unique.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	seen := make(map[int]bool, len(c.Bonds))
	for _, b := range c.Bonds {
		if seen[b.Number] {
			return fmt.Errorf("%w: %d", bond.ErrDuplicateBond, b.Number)
		}
		seen[b.Number] = true
	}
	return nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, e := range verrs {
		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", e.Namespace())
		case "oneof":
			return fmt.Errorf("%s: must be one of %s", e.Namespace(), e.Param())
		case "excludesall":
			return fmt.Errorf("%s: must not contain any of %q", e.Namespace(), e.Param())
		case "nefield":
			return fmt.Errorf("%s: bond cannot connect a node to itself", e.Namespace())
		default:
			return fmt.Errorf("%s: validation failed (%s %s)", e.Namespace(), e.Tag(), e.Param())
		}
	}
	return err
}

// Graph builds the validated bond graph, restoring any saved causality.
func (c *Config) Graph() (*bond.Graph, error) {
	bonds := make([]*bond.Bond, 0, len(c.Bonds))
	for _, bc := range c.Bonds {
		power := true
		if bc.PowerToDest != nil {
			power = *bc.PowerToDest
		}
		b := bond.New(bc.Number, bc.From, bc.To, power)
		cz, err := bond.ParseCausality(bc.Causality)
		if err != nil {
			return nil, fmt.Errorf("bond %d: %w", bc.Number, err)
		}
		b.Causality = cz
		bonds = append(bonds, b)
	}
	return bond.NewGraph(bonds)
}

// FromGraph captures g, including its current causality, as a model file.
func FromGraph(name string, g *bond.Graph) *Config {
	cfg := DefaultConfig()
	cfg.Name = name
	for _, b := range g.Bonds() {
		bc := BondConfig{Number: b.Number, From: b.Source.Name, To: b.Dest.Name}
		if !b.PowerToDest {
			bc.PowerToDest = boolPtr(false)
		}
		if b.Determined() {
			bc.Causality = b.Causality.String()
		}
		cfg.Bonds = append(cfg.Bonds, bc)
	}
	return cfg
}

func boolPtr(v bool) *bool { return &v }
