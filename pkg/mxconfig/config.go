// Package mxconfig loads the coordination core's configuration from a YAML
// file with shell-style environment variable expansion, grounded on the
// teacher's pkg/config/config.go and pkg/config/env.go. Local development
// can seed process environment variables from a .env file via godotenv,
// the same way the teacher's env.go does.
package mxconfig

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ServerConfig controls the inbound webhook HTTP surface (spec.md §6).
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DAGConfig gates the DAG engine.
type DAGConfig struct {
	Enabled bool `yaml:"enabled"`
}

// KGConfig gates and caps the knowledge graph.
type KGConfig struct {
	Enabled          bool    `yaml:"enabled"`
	MaxEntities      int     `yaml:"max_entities"`
	MaxRelationships int     `yaml:"max_relationships"`
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
}

// ORPARConfig bounds the cognitive control loop.
type ORPARConfig struct {
	LoopCeiling         int `yaml:"loop_ceiling"`
	DefaultCycleEstimate int `yaml:"default_cycle_estimate"`
}

// LLMConfig names the default provider and per-provider timeouts.
type LLMConfig struct {
	DefaultProvider string           `yaml:"default_provider"`
	TimeoutMs       map[string]int64 `yaml:"timeout_ms"`
}

// UtilityConfig tunes the Q-value update rule (spec.md §4.6).
type UtilityConfig struct {
	Alpha float64 `yaml:"alpha"`
}

// LogConfig configures pkg/mxlog.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the root configuration document.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	DAG     DAGConfig     `yaml:"dag"`
	KG      KGConfig      `yaml:"kg"`
	ORPAR   ORPARConfig   `yaml:"orpar"`
	LLM     LLMConfig     `yaml:"llm"`
	Utility UtilityConfig `yaml:"utility"`
	Log     LogConfig     `yaml:"log"`
}

// SetDefaults fills in zero-valued fields, mirroring the teacher's
// SetDefaults methods scattered across pkg/config/*.go.
func (c *Config) SetDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.KG.MaxEntities <= 0 {
		c.KG.MaxEntities = 50
	}
	if c.KG.MaxRelationships <= 0 {
		c.KG.MaxRelationships = 100
	}
	if c.KG.SimilarityThreshold <= 0 {
		c.KG.SimilarityThreshold = 0.8
	}
	if c.ORPAR.LoopCeiling <= 0 {
		c.ORPAR.LoopCeiling = 10
	}
	if c.ORPAR.DefaultCycleEstimate <= 0 {
		c.ORPAR.DefaultCycleEstimate = 1
	}
	if c.LLM.DefaultProvider == "" {
		c.LLM.DefaultProvider = "echo"
	}
	if c.LLM.TimeoutMs == nil {
		c.LLM.TimeoutMs = map[string]int64{}
	}
	if c.Utility.Alpha <= 0 {
		c.Utility.Alpha = 0.1
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// ProviderTimeout resolves the timeout configured for provider, falling
// back to fallback when unset.
func (c *Config) ProviderTimeout(provider string, fallback time.Duration) time.Duration {
	ms, ok := c.LLM.TimeoutMs[provider]
	if !ok || ms <= 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

// Load reads envFile (if it exists) into the process environment, then
// decodes path as YAML into a Config with ${VAR}-style expansion applied
// to the raw file text before unmarshaling.
func Load(path, envFile string) (*Config, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, fmt.Errorf("mxconfig: load env file: %w", err)
			}
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mxconfig: read %s: %w", path, err)
	}

	expanded := expandEnvVars(string(raw))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("mxconfig: parse %s: %w", path, err)
	}
	cfg.SetDefaults()
	return &cfg, nil
}
