package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Descriptor.Size != 300 {
		t.Errorf("Descriptor.Size = %d; want 300", cfg.Descriptor.Size)
	}
	if cfg.Descriptor.Dim != 128 {
		t.Errorf("Descriptor.Dim = %d; want 128", cfg.Descriptor.Dim)
	}
	if cfg.Matcher.Threshold != 0.1 {
		t.Errorf("Matcher.Threshold = %f; want 0.1", cfg.Matcher.Threshold)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DESCRIPTOR_URL", "http://descriptors:9000")
	t.Setenv("DESCRIPTOR_DIM", "64")
	t.Setenv("IMGMATCH_SIZE", "200")
	t.Setenv("IMGMATCH_THRESHOLD", "0.25")
	t.Setenv("IMGMATCH_CATALOG", "/data/catalog")

	cfg := Load()

	if cfg.Descriptor.URL != "http://descriptors:9000" {
		t.Errorf("Descriptor.URL = %s", cfg.Descriptor.URL)
	}
	if cfg.Descriptor.Dim != 64 {
		t.Errorf("Descriptor.Dim = %d; want 64", cfg.Descriptor.Dim)
	}
	if cfg.Descriptor.Size != 200 {
		t.Errorf("Descriptor.Size = %d; want 200", cfg.Descriptor.Size)
	}
	if cfg.Matcher.Threshold != 0.25 {
		t.Errorf("Matcher.Threshold = %f; want 0.25", cfg.Matcher.Threshold)
	}
	if cfg.Catalog.Dir != "/data/catalog" {
		t.Errorf("Catalog.Dir = %s; want /data/catalog", cfg.Catalog.Dir)
	}
}

func TestLoadInvalidEnvFallsBack(t *testing.T) {
	t.Setenv("IMGMATCH_SIZE", "not-a-number")
	t.Setenv("DESCRIPTOR_DIM", "-5")
	t.Setenv("IMGMATCH_THRESHOLD", "-1")

	cfg := Load()

	if cfg.Descriptor.Size != 300 {
		t.Errorf("Descriptor.Size = %d; want fallback 300", cfg.Descriptor.Size)
	}
	if cfg.Descriptor.Dim != 128 {
		t.Errorf("Descriptor.Dim = %d; want fallback 128", cfg.Descriptor.Dim)
	}
	if cfg.Matcher.Threshold != 0.1 {
		t.Errorf("Matcher.Threshold = %f; want fallback 0.1", cfg.Matcher.Threshold)
	}
}

func TestZeroThresholdEnvIsRespected(t *testing.T) {
	// Zero is a legal (if degenerate) threshold and must not fall back.
	t.Setenv("IMGMATCH_THRESHOLD", "0")

	cfg := Load()
	if cfg.Matcher.Threshold != 0 {
		t.Errorf("Matcher.Threshold = %f; want 0", cfg.Matcher.Threshold)
	}
}
