// PTRA: Patient Trajectory Analysis Library
// Copyright (c) 2022 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/ExaScience/ptra/blob/master/LICENSE.txt>.

package app

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"adtra/trajectory"

	"gopkg.in/yaml.v3"
)

// MergeCSVEnvVar names the environment variable that overrides the path to the merge table.
const MergeCSVEnvVar = "ALZHEIMER_MERGE_CSV"

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all adtra configuration.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Columns ColumnsConfig `yaml:"columns"`
	Labels  LabelsConfig  `yaml:"labels"`
	Charts  ChartsConfig  `yaml:"charts"`
	Logging LoggingConfig `yaml:"logging"`
}

// DataConfig locates the input table.
type DataConfig struct {
	DefaultPath string `yaml:"default_path"`
}

// ColumnsConfig names the merge table columns that are read.
type ColumnsConfig struct {
	PatientID         string   `yaml:"patient_id"`
	VisitCode         string   `yaml:"visit_code"`
	Month             string   `yaml:"month"`
	Diagnosis         string   `yaml:"diagnosis"`
	BaselineDiagnosis string   `yaml:"baseline_diagnosis"`
	Age               string   `yaml:"age"`
	Sex               string   `yaml:"sex"`
	Hippocampus       string   `yaml:"hippocampus"`
	MMSE              string   `yaml:"mmse"`
	Trim              []string `yaml:"trim"`
}

// LabelsConfig fixes the diagnosis labels and visit codes of the study.
type LabelsConfig struct {
	Unimpaired       string   `yaml:"unimpaired"`
	ImpairedBaseline []string `yaml:"impaired_baseline"`
	Mild             string   `yaml:"mild"`
	Advanced         string   `yaml:"advanced"`
	BaselineVisit    string   `yaml:"baseline_visit"`
}

// ChartsConfig configures chart rendering.
type ChartsConfig struct {
	OutputDir       string  `yaml:"output_dir"`
	WidthInches     float64 `yaml:"width_inches"`
	HeightInches    float64 `yaml:"height_inches"`
	DeclineMaxMonth float64 `yaml:"decline_max_month"`
	JitterSeed      uint32  `yaml:"jitter_seed"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DefaultConfig decodes the embedded defaults into a fresh Config.
func DefaultConfig() (*Config, error) {
	return ParseConfig(defaultsYAML)
}

// ParseConfig decodes a YAML document on top of an empty Config.
func ParseConfig(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	return cfg, nil
}

// Vocabulary returns the study labels as used by the cohort classifier.
func (cfg *Config) Vocabulary() trajectory.Vocabulary {
	return trajectory.Vocabulary{
		Unimpaired:       cfg.Labels.Unimpaired,
		ImpairedBaseline: cfg.Labels.ImpairedBaseline,
		Mild:             cfg.Labels.Mild,
		Advanced:         cfg.Labels.Advanced,
		BaselineVisit:    cfg.Labels.BaselineVisit,
	}
}

// ResolveDataPath returns the path to the merge table. The resolution order is:
// 1. an explicit override, e.g. from the command line
// 2. the environment variable ALZHEIMER_MERGE_CSV
// 3. the configured default path.
func (cfg *Config) ResolveDataPath(override string) (string, error) {
	if override != "" {
		return normalisePath(override)
	}
	if env := os.Getenv(MergeCSVEnvVar); env != "" {
		return normalisePath(env)
	}
	return normalisePath(cfg.Data.DefaultPath)
}

// normalisePath expands a leading ~ to the home directory and makes relative paths absolute.
func normalisePath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to expand %s: %w", path, err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}
