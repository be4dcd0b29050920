/*
 * config.go, part of govasp.
 *
 * Copyright 2024 The govasp Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package config reads the optional govasp.yaml file that can sit in a
//VASP run directory, holding the values the user doesn't want to give
//on the command line every time.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the name of the run file looked for in the run directory.
const FileName = "govasp.yaml"

// Config is the in-memory representation of govasp.yaml. Nil pointers
// and empty slices are values the file doesn't set.
type Config struct {
	ISPIN             *int     `yaml:"ispin,omitempty"`
	Efermi            *float64 `yaml:"efermi,omitempty"`
	KPointsPerSegment *int     `yaml:"kpoints_per_segment,omitempty"`
	Labels            []string `yaml:"labels,omitempty"`
	LORBIT            *int     `yaml:"lorbit,omitempty"`

	AxisRange    []float64 `yaml:"axis_range,omitempty"` //energy window, eV
	DOSMax       float64   `yaml:"dos_max,omitempty"`    //0 means automatic
	OutputPrefix string    `yaml:"output_prefix,omitempty"`
	Format       string    `yaml:"format,omitempty"`
	Width        float64   `yaml:"width,omitempty"`  //cm
	Height       float64   `yaml:"height,omitempty"` //cm
}

// Default returns the configuration used when there is no file.
func Default() *Config {
	return &Config{
		OutputPrefix: "govasp",
		Format:       "png",
		Width:        12,
		Height:       10,
	}
}

// Path returns the path of the run file in dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Load reads the file at path over the defaults. A missing file is not an
// error: the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the values that have a fixed set of possibilities.
func (c *Config) Validate() error {
	if c.ISPIN != nil && *c.ISPIN != 1 && *c.ISPIN != 2 {
		return fmt.Errorf("ispin must be 1 or 2, not %d", *c.ISPIN)
	}
	if c.KPointsPerSegment != nil && *c.KPointsPerSegment <= 0 {
		return fmt.Errorf("kpoints_per_segment must be positive, not %d", *c.KPointsPerSegment)
	}
	if c.LORBIT != nil {
		switch *c.LORBIT {
		case 0, 1, 10, 11:
		default:
			return fmt.Errorf("lorbit %d not supported", *c.LORBIT)
		}
	}
	if len(c.AxisRange) != 0 && (len(c.AxisRange) != 2 || c.AxisRange[0] >= c.AxisRange[1]) {
		return fmt.Errorf("axis_range must be [min, max], got %v", c.AxisRange)
	}
	if c.DOSMax < 0 {
		return fmt.Errorf("dos_max must not be negative, got %g", c.DOSMax)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("width and height must be positive")
	}
	return nil
}

// Save marshals cfg and writes it to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write config %s: %w", path, err)
	}
	return nil
}
