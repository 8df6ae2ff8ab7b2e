package main

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"voxelclimb/internal/config"
)

func TestConfigFromEnvJSON(t *testing.T) {
	t.Setenv(envConfigYAMLB64, "")

	cfg := config.Default()
	cfg.Generator.Variant = config.VariantBranching
	cfg.Generator.Seed = 99
	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	t.Setenv(envConfigJSON, string(data))

	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.json")

	got, ok, err := configFromEnv(path)
	if err != nil {
		t.Fatalf("configFromEnv: %v", err)
	}
	if !ok {
		t.Fatalf("expected the env payload to be used")
	}
	if got.Generator.Variant != config.VariantBranching || got.Generator.Seed != 99 {
		t.Fatalf("unexpected generator config: %+v", got.Generator)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	var decoded config.Config
	if err := json.Unmarshal(contents, &decoded); err != nil {
		t.Fatalf("decode config: %v", err)
	}
	if decoded.Generator.Seed != 99 {
		t.Fatalf("unexpected persisted seed: %d", decoded.Generator.Seed)
	}
}

func TestConfigFromEnvYAML(t *testing.T) {
	cfg := config.Default()
	cfg.Generator.Variant = config.VariantHeightField
	cfg.Batch.Count = 3
	data, err := yaml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal yaml: %v", err)
	}
	t.Setenv(envConfigJSON, "")
	t.Setenv(envConfigYAMLB64, base64.StdEncoding.EncodeToString(data))

	got, ok, err := configFromEnv("")
	if err != nil {
		t.Fatalf("configFromEnv: %v", err)
	}
	if !ok {
		t.Fatalf("expected the env payload to be used")
	}
	if got.Generator.Variant != config.VariantHeightField || got.Batch.Count != 3 {
		t.Fatalf("unexpected config: %+v", got)
	}
	if got.Batch.Timeout != cfg.Batch.Timeout {
		t.Fatalf("timeout = %v, want %v", got.Batch.Timeout.Duration(), cfg.Batch.Timeout.Duration())
	}
}

func TestConfigFromEnvRejectsInvalidPayload(t *testing.T) {
	t.Setenv(envConfigYAMLB64, "")
	t.Setenv(envConfigJSON, `{"batch":{"count":0}}`)

	if _, _, err := configFromEnv(""); err == nil {
		t.Fatal("expected validation to fail")
	}
}

func TestConfigFromEnvNoPayload(t *testing.T) {
	t.Setenv(envConfigJSON, "")
	t.Setenv(envConfigYAMLB64, "")

	_, ok, err := configFromEnv(filepath.Join(t.TempDir(), "unused.json"))
	if err != nil {
		t.Fatalf("configFromEnv: %v", err)
	}
	if ok {
		t.Fatalf("expected no env payload")
	}
}
