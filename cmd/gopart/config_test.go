package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(Te *testing.T) {
	dir := Te.TempDir()
	name := filepath.Join(dir, "gopart.yaml")
	data := `convert:
  hourly_only: false
  header_lines: 500
conc:
  workers: 4
  scale: 1.0e9
exposure:
  offsets: [0, 24, 48]
`
	if err := os.WriteFile(name, []byte(data), 0644); err != nil {
		Te.Fatal(err)
	}
	c, err := LoadConfig(name)
	if err != nil {
		Te.Fatal(err)
	}
	if c.hourlyOnly() {
		Te.Error("hourly_only: false not honored")
	}
	if c.headerLines() != 500 {
		Te.Errorf("header_lines = %d", c.headerLines())
	}
	if c.Conc.Workers != 4 || c.Conc.Scale != 1e9 {
		Te.Errorf("conc config = %+v", c.Conc)
	}
	if len(c.Exposure.Offsets) != 3 || c.Exposure.Offsets[2] != 48 {
		Te.Errorf("offsets = %v", c.Exposure.Offsets)
	}
}

func TestLoadConfigDefaults(Te *testing.T) {
	c, err := LoadConfig(filepath.Join(Te.TempDir(), "absent.yaml"))
	if err == nil {
		Te.Error("an explicit missing config must error")
	}
	wd, _ := os.Getwd()
	defer os.Chdir(wd)
	os.Chdir(Te.TempDir())
	c, err = LoadConfig("")
	if err != nil {
		Te.Fatal(err)
	}
	if !c.hourlyOnly() || c.headerLines() != 1000 {
		Te.Errorf("defaults wrong: %+v", c)
	}
}
