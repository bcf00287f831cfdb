package main

import (
	"path/filepath"
	"strings"
)

func stem(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func trimTsf(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
