// ===========================================================================
//
//                            PUBLIC DOMAIN NOTICE
//            National Center for Biotechnology Information (NCBI)
//
//  This software/database is a "United States Government Work" under the
//  terms of the United States Copyright Act. It was written as part of
//  the author's official duties as a United States Government employee and
//  thus cannot be copyrighted. This software/database is freely available
//  to the public for use. The National Library of Medicine and the U.S.
//  Government do not place any restriction on its use or reproduction.
//  We would, however, appreciate having the NCBI and the author cited in
//  any work or product based on this material.
//
//  Although all reasonable efforts have been taken to ensure the accuracy
//  and reliability of the software and data, the NLM and the U.S.
//  Government do not and cannot warrant the performance or results that
//  may be obtained by using this software or data. The NLM and the U.S.
//  Government disclaim all warranties, express or implied, including
//  warranties of performance, merchantability or fitness for any particular
//  purpose.
//
// ===========================================================================
//
// File Name:  config.go
//
// ==========================================================================

package kinfin

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/komkom/toml"

	"github.com/genomehubs/kinfin/internal/stats"
	"github.com/genomehubs/kinfin/internal/workers"
)

// TestKind names one of the representation tests the CLI's -test flag may
// select.
type TestKind string

const (
	TestMannWhitneyU TestKind = "mannwhitneyu"
	TestWelch        TestKind = "welch"
	TestTTest        TestKind = "ttest"
	TestKS           TestKind = "ks"
	TestKruskal      TestKind = "kruskal"
)

func (k TestKind) statsKind() stats.Kind {
	switch k {
	case TestWelch:
		return stats.Welch
	case TestTTest:
		return stats.TTest
	case TestKS:
		return stats.KolmogorovSmirnov
	case TestKruskal:
		return stats.KruskalWallis
	default:
		return stats.MannWhitneyU
	}
}

// PlotFormat names one of the supported plot output formats.
type PlotFormat string

const (
	PlotPNG PlotFormat = "png"
	PlotPDF PlotFormat = "pdf"
	PlotSVG PlotFormat = "svg"
)

// Config groups the engine's tunables into one value, passed by value
// through the analyser and never modified there. Construct with DefaultConfig and override fields,
// or load an override file with LoadYAML/LoadTOML.
type Config struct {
	FuzzyCount    int        `yaml:"fuzzy_count" toml:"fuzzy_count"`
	FuzzyFraction float64    `yaml:"fuzzy_fraction" toml:"fuzzy_fraction"`
	FuzzyMin      int        `yaml:"fuzzy_min" toml:"fuzzy_min"`
	FuzzyMax      int        `yaml:"fuzzy_max" toml:"fuzzy_max"`
	MinProteomes  int        `yaml:"min_proteomes" toml:"min_proteomes"`
	Test          TestKind   `yaml:"test" toml:"test"`
	Repetitions   int        `yaml:"repetitions" toml:"repetitions"`
	Seed          uint64     `yaml:"seed" toml:"seed"`
	Taxranks      []string   `yaml:"taxranks" toml:"taxranks"`
	PlotFormat    PlotFormat `yaml:"plot_format" toml:"plot_format"`
	// InferSingletons always fails Validate: synthesizing singleton
	// clusters needs the full universe of known protein ids (e.g. from a
	// FASTA or annotation source), which Run has no input for. Set it only
	// to trip that validation error; callers with a universe in hand call
	// kinfin.InferSingletons directly instead of going through Run.
	InferSingletons bool `yaml:"infer_singletons" toml:"infer_singletons"`

	// ShardCount and ChannelDepth size the concurrency used by the
	// analyser and rarefaction sampler; zero means "use the workers
	// package's host-derived defaults".
	ShardCount   int `yaml:"-" toml:"-"`
	ChannelDepth int `yaml:"-" toml:"-"`
}

// DefaultConfig returns the tunables' documented defaults.
func DefaultConfig() Config {
	return Config{
		FuzzyCount:    1,
		FuzzyFraction: 0.75,
		FuzzyMin:      0,
		FuzzyMax:      20,
		MinProteomes:  2,
		Test:          TestMannWhitneyU,
		Repetitions:   30,
		Seed:          0,
		Taxranks:      []string{"phylum", "order", "genus"},
		PlotFormat:    PlotPNG,
	}
}

// resolvedShardCount and resolvedChannelDepth apply the workers package's
// host-derived defaults when the config leaves a knob at zero.
func (c Config) resolvedShardCount() int {
	if c.ShardCount > 0 {
		return c.ShardCount
	}
	return workers.DefaultShardCount()
}

func (c Config) resolvedChannelDepth() int {
	if c.ChannelDepth > 0 {
		return c.ChannelDepth
	}
	return workers.DefaultChannelDepth()
}

// Validate enforces the configuration object's invariants, returning a
// ConfigError on the first violation.
func (c Config) Validate() error {
	if c.FuzzyCount < 1 {
		return &ConfigError{Msg: "fuzzy_count must be >= 1"}
	}
	if c.FuzzyFraction < 0 || c.FuzzyFraction > 1 {
		return &ConfigError{Msg: "fuzzy_fraction must be in [0,1]"}
	}
	if c.FuzzyMin < 0 {
		return &ConfigError{Msg: "fuzzy_min must be >= 0"}
	}
	if c.FuzzyMax < c.FuzzyMin {
		return &ConfigError{Msg: "fuzzy_max must be >= fuzzy_min"}
	}
	if c.MinProteomes < 1 {
		return &ConfigError{Msg: "min_proteomes must be >= 1"}
	}
	if c.Repetitions < 1 {
		return &ConfigError{Msg: "repetitions must be >= 1"}
	}
	switch c.Test {
	case TestMannWhitneyU, TestWelch, TestTTest, TestKS, TestKruskal:
	default:
		return &ConfigError{Msg: fmt.Sprintf("unknown test kind %q", c.Test)}
	}
	switch c.PlotFormat {
	case PlotPNG, PlotPDF, PlotSVG:
	default:
		return &ConfigError{Msg: fmt.Sprintf("unknown plot format %q", c.PlotFormat)}
	}
	if c.InferSingletons {
		return &ConfigError{Msg: "infer_singletons requires an external protein-id universe (e.g. a FASTA or annotation source) that this engine takes no input for; call kinfin.InferSingletons directly if you have one"}
	}
	return nil
}

// LoadYAML reads a tunables override file in YAML, starting from
// DefaultConfig and applying only the fields present in the file. Uses
// github.com/goccy/go-yaml to decode directly into Config.
func LoadYAML(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, &IOError{Op: "read", Path: path, Err: err}
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, &InputError{Msg: fmt.Sprintf("malformed YAML tunables file %s: %s", path, err)}
	}
	return cfg, nil
}

// LoadTOML reads a tunables override file in TOML, starting from
// DefaultConfig. Uses github.com/komkom/toml to bridge TOML through JSON,
// since that is the only decoding path the library exposes.
func LoadTOML(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, &IOError{Op: "read", Path: path, Err: err}
	}
	// toml.New bridges TOML through JSON; read that JSON stream straight
	// into Config.
	jsonData, err := io.ReadAll(toml.New(bytes.NewReader(data)))
	if err != nil {
		return cfg, &InputError{Msg: fmt.Sprintf("malformed TOML tunables file %s: %s", path, err)}
	}
	if err := yaml.Unmarshal(jsonData, &cfg); err != nil {
		return cfg, &InputError{Msg: fmt.Sprintf("malformed TOML tunables file %s: %s", path, err)}
	}
	return cfg, nil
}

// LoadTunables dispatches to LoadYAML or LoadTOML based on the file's
// extension, or returns DefaultConfig unchanged if path is empty.
func LoadTunables(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(path)
	case ".toml":
		return LoadTOML(path)
	default:
		return DefaultConfig(), &ConfigError{Msg: fmt.Sprintf("unrecognized tunables file extension: %s", path)}
	}
}
