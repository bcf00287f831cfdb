package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//The config file carries the defaults that would otherwise be repeated on
//every invocation of a screening batch. Flags beat config, config beats the
//built-in defaults.

// Config holds the file-configurable defaults.
type Config struct {
	Convert struct {
		HourlyOnly  *bool `yaml:"hourly_only"`
		HeaderLines int   `yaml:"header_lines"`
	} `yaml:"convert"`
	Conc struct {
		Workers int     `yaml:"workers"`
		Scale   float64 `yaml:"scale"`
		ZCutoff float64 `yaml:"z_cutoff"`
	} `yaml:"conc"`
	Exposure struct {
		Offsets []int `yaml:"offsets"`
	} `yaml:"exposure"`
}

// LoadConfig reads the YAML config. An empty path falls back to gopart.yaml
// in the working directory; a missing default file is not an error.
func LoadConfig(path string) (*Config, error) {
	c := new(Config)
	optional := path == ""
	if optional {
		path = "gopart.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

func (c *Config) hourlyOnly() bool {
	if c.Convert.HourlyOnly == nil {
		return true
	}
	return *c.Convert.HourlyOnly
}

func (c *Config) headerLines() int {
	if c.Convert.HeaderLines <= 0 {
		return 1000
	}
	return c.Convert.HeaderLines
}
