package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a JSON- and YAML-friendly wrapper around time.Duration that
// accepts human readable strings such as "30s" in configuration files while
// still allowing numeric nanosecond values.
type Duration time.Duration

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// MarshalJSON encodes the duration using the canonical string representation.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON decodes a duration from either a string (e.g. "250ms") or a
// numeric value representing nanoseconds. Empty strings and null values decode
// to zero.
func (d *Duration) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		return fmt.Errorf("duration: empty value")
	}
	if string(b) == "null" {
		*d = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("duration: decode string: %w", err)
		}
		return d.parse(s)
	}
	var n int64
	if err := json.Unmarshal(b, &n); err == nil {
		*d = Duration(time.Duration(n))
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*d = Duration(time.Duration(f))
		return nil
	}
	return fmt.Errorf("duration: invalid value %s", string(b))
}

// MarshalYAML encodes the duration as its string form.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML accepts the same forms as UnmarshalJSON.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!int" {
		var n int64
		if err := node.Decode(&n); err != nil {
			return fmt.Errorf("duration: decode int: %w", err)
		}
		*d = Duration(time.Duration(n))
		return nil
	}
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("duration: decode string: %w", err)
	}
	return d.parse(s)
}

func (d *Duration) parse(s string) error {
	if s == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration: parse %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Variant names accepted by generator.variant.
const (
	VariantHeightField = "heightfield"
	VariantVoxel       = "voxel"
	VariantBranching   = "branching"
)

// Config captures every tunable needed to generate and publish a level set.
type Config struct {
	Generator GeneratorConfig `json:"generator" yaml:"generator"`
	Batch     BatchConfig     `json:"batch" yaml:"batch"`
	Output    OutputConfig    `json:"output" yaml:"output"`
	Metrics   MetricsConfig   `json:"metrics" yaml:"metrics"`
}

// GeneratorConfig holds the level generation parameters. Values are clamped
// by Normalize at the point of use, so out-of-range numbers never fail.
type GeneratorConfig struct {
	Variant string `json:"variant" yaml:"variant"`
	Seed    uint64 `json:"seed" yaml:"seed"`

	Width  int `json:"width" yaml:"width"`
	Depth  int `json:"depth" yaml:"depth"`
	Height int `json:"height" yaml:"height"` // voxel variants
	// MaxHeight is the summit block count of the height-field variant.
	MaxHeight int `json:"maxHeight" yaml:"maxHeight"`
	// TargetHeight is the climb of the voxel variants.
	TargetHeight int `json:"targetHeight" yaml:"targetHeight"`

	FillChance       float64 `json:"fillChance" yaml:"fillChance"`
	HoleChance       float64 `json:"holeChance" yaml:"holeChance"`
	HeightFalloff    float64 `json:"heightFalloff" yaml:"heightFalloff"`
	PairChance       float64 `json:"pairChance" yaml:"pairChance"`
	PathLengthFactor float64 `json:"pathLengthFactor" yaml:"pathLengthFactor"`
	EdgeBias         float64 `json:"edgeBias" yaml:"edgeBias"`
	TurnBias         float64 `json:"turnBias" yaml:"turnBias"`

	MaxAttempts     int `json:"maxAttempts" yaml:"maxAttempts"`         // whole-level attempts
	PathAttempts    int `json:"pathAttempts" yaml:"pathAttempts"`       // random-walk budget
	ProfileAttempts int `json:"profileAttempts" yaml:"profileAttempts"` // height profiles per path
	ImportAttempts  int `json:"importAttempts" yaml:"importAttempts"`   // seed offsets per imported sequence

	MainRoutes       int `json:"mainRoutes" yaml:"mainRoutes"`
	DeadEnds         int `json:"deadEnds" yaml:"deadEnds"`
	DeadEndMinLength int `json:"deadEndMinLength" yaml:"deadEndMinLength"`
	DeadEndMaxLength int `json:"deadEndMaxLength" yaml:"deadEndMaxLength"`

	StrictPredecessor bool `json:"strictPredecessor" yaml:"strictPredecessor"`
	// MaxDimension caps every axis, including auto-expanded import bounds.
	MaxDimension int `json:"maxDimension" yaml:"maxDimension"`
}

type BatchConfig struct {
	Count   int      `json:"count" yaml:"count"`
	Workers int      `json:"workers" yaml:"workers"` // levelprofile only
	Timeout Duration `json:"timeout" yaml:"timeout"` // zero disables the deadline
}

type OutputConfig struct {
	Path     string `json:"path" yaml:"path"` // empty writes to stdout
	Compress bool   `json:"compress" yaml:"compress"`
	Debug    bool   `json:"debug" yaml:"debug"` // include path, sequence and dead ends
	Indent   bool   `json:"indent" yaml:"indent"`
}

type MetricsConfig struct {
	ListenAddr string `json:"listenAddr" yaml:"listenAddr"` // empty disables the endpoint
	Namespace  string `json:"namespace" yaml:"namespace"`
}

// Load reads configuration from a JSON or YAML file, chosen by extension. An
// empty path returns defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func Default() *Config {
	return &Config{
		Generator: GeneratorConfig{
			Variant:          VariantVoxel,
			Seed:             1337,
			Width:            8,
			Depth:            8,
			Height:           10,
			MaxHeight:        6,
			TargetHeight:     5,
			FillChance:       0.18,
			HoleChance:       0.15,
			HeightFalloff:    0.4,
			PairChance:       0.35,
			PathLengthFactor: 0.2,
			EdgeBias:         0.45,
			TurnBias:         0.2,
			MaxAttempts:      40,
			PathAttempts:     200,
			ProfileAttempts:  6,
			ImportAttempts:   16,
			MainRoutes:       2,
			DeadEnds:         2,
			DeadEndMinLength: 2,
			DeadEndMaxLength: 4,
			MaxDimension:     64,
		},
		Batch: BatchConfig{
			Count:   10,
			Workers: 4,
			Timeout: Duration(time.Minute),
		},
		Output: OutputConfig{
			Indent: true,
		},
		Metrics: MetricsConfig{
			Namespace: "levelgen",
		},
	}
}

// Validate checks the structure of a loaded file. Generator ranges are
// clamped by Normalize instead.
func (c *Config) Validate() error {
	switch c.Generator.Variant {
	case "", VariantHeightField, VariantVoxel, VariantBranching:
	default:
		return fmt.Errorf("generator.variant %q is not one of %s, %s, %s",
			c.Generator.Variant, VariantHeightField, VariantVoxel, VariantBranching)
	}
	if c.Batch.Count <= 0 {
		return errors.New("batch.count must be positive")
	}
	if c.Batch.Workers < 0 {
		return errors.New("batch.workers cannot be negative")
	}
	if c.Batch.Timeout < 0 {
		return errors.New("batch.timeout cannot be negative")
	}
	if c.Metrics.ListenAddr != "" && c.Metrics.Namespace == "" {
		return errors.New("metrics.namespace must be set when metrics.listenAddr is set")
	}
	return nil
}
