package main

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"voxelclimb/internal/config"
)

const (
	envConfigJSON    = "LEVELGEN_CONFIG_JSON"
	envConfigYAMLB64 = "LEVELGEN_CONFIG_YAML_B64"
)

// configFromEnv decodes a configuration handed over through the environment.
// When cfgPath is set the decoded configuration is also written there as JSON
// so the run can be reproduced with -config. It reports false when neither
// variable is set.
func configFromEnv(cfgPath string) (*config.Config, bool, error) {
	jsonPayload := os.Getenv(envConfigJSON)
	yamlPayload := os.Getenv(envConfigYAMLB64)

	if jsonPayload == "" && yamlPayload == "" {
		return nil, false, nil
	}

	cfg := config.Default()
	if jsonPayload != "" {
		if err := json.Unmarshal([]byte(jsonPayload), cfg); err != nil {
			return nil, false, fmt.Errorf("decode env config json: %w", err)
		}
	} else {
		data, err := base64.StdEncoding.DecodeString(yamlPayload)
		if err != nil {
			return nil, false, fmt.Errorf("decode env config yaml: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, false, fmt.Errorf("parse env config yaml: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, false, fmt.Errorf("validate env config: %w", err)
	}

	if cfgPath != "" {
		dir := filepath.Dir(cfgPath)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, false, fmt.Errorf("create config directory: %w", err)
			}
		}
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, false, fmt.Errorf("marshal config json: %w", err)
		}
		if err := os.WriteFile(cfgPath, data, 0o600); err != nil {
			return nil, false, fmt.Errorf("write config file: %w", err)
		}
	}

	return cfg, true, nil
}

// loadConfig prefers an environment payload and falls back to the file.
func loadConfig(cfgPath string) (*config.Config, error) {
	cfg, ok, err := configFromEnv(cfgPath)
	if err != nil {
		return nil, err
	}
	if ok {
		return cfg, nil
	}
	cfg, err = config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, errors.New("no configuration loaded")
	}
	return cfg, nil
}
