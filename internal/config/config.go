package config

import (
	_ "embed"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	Descriptor DescriptorConfig
	Matcher    MatcherConfig
	Catalog    CatalogConfig
}

type DescriptorConfig struct {
	URL  string // descriptor service endpoint (e.g., http://localhost:8000)
	Dim  int    // descriptor vector dimension (default 128)
	Size int    // resize target for the longest image side (default 300)
}

type MatcherConfig struct {
	Threshold float64 // nearest-neighbor distance gate (default 0.1)
}

type CatalogConfig struct {
	Dir string // default catalog directory
}

// defaults mirrors the embedded defaults.yaml.
type defaults struct {
	Extractor struct {
		Size int `yaml:"size"`
		Dim  int `yaml:"dim"`
	} `yaml:"extractor"`
	Matcher struct {
		Threshold float64 `yaml:"threshold"`
	} `yaml:"matcher"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a non-negative
// float. Returns the default value if the env var is unset, empty, or
// invalid.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 {
		return f
	}
	return defaultVal
}

func Load() *Config {
	var def defaults
	if err := yaml.Unmarshal(defaultsYAML, &def); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded defaults.yaml: " + err.Error())
	}

	return &Config{
		Descriptor: DescriptorConfig{
			URL:  os.Getenv("DESCRIPTOR_URL"),
			Dim:  envInt("DESCRIPTOR_DIM", def.Extractor.Dim),
			Size: envInt("IMGMATCH_SIZE", def.Extractor.Size),
		},
		Matcher: MatcherConfig{
			Threshold: envFloat("IMGMATCH_THRESHOLD", def.Matcher.Threshold),
		},
		Catalog: CatalogConfig{
			Dir: os.Getenv("IMGMATCH_CATALOG"),
		},
	}
}
