package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/localauth"
	ConfigFileName    = "localauth.yml"
)

// ValidLogLevels is the list of accepted log_level values
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// AuthorityConfig holds all configuration settings
type AuthorityConfig struct {
	// LogLevel is the minimum level for application logs
	LogLevel string `yaml:"log_level" json:"log_level"`

	// SubjectTerm is the field name served from the subject fast-path table
	SubjectTerm string `yaml:"subject_term" json:"subject_term"`

	// BulkInsert selects multi-row inserts for harvested entries; when false
	// entries are saved one at a time
	BulkInsert *bool `yaml:"bulk_insert" json:"bulk_insert"`

	// HarvestBatchSize is the number of rows per insert statement in bulk mode
	HarvestBatchSize int `yaml:"harvest_batch_size" json:"harvest_batch_size"`

	// TSVSkipMalformed skips TSV lines with fewer than three fields instead of failing
	TSVSkipMalformed bool `yaml:"tsv_skip_malformed" json:"tsv_skip_malformed"`

	// SourceTimeoutSeconds bounds fetching a single remote source
	SourceTimeoutSeconds int `yaml:"source_timeout_seconds" json:"source_timeout_seconds"`

	// BootstrapFile is the default plan used by `bootstrap apply` and `bootstrap watch`
	BootstrapFile string `yaml:"bootstrap_file" json:"bootstrap_file"`

	// MetricsEnabled exposes Prometheus metrics on /metrics
	MetricsEnabled bool `yaml:"metrics_enabled" json:"metrics_enabled"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// newDefault returns a config with default values
func newDefault() *AuthorityConfig {
	bulk := true
	return &AuthorityConfig{
		LogLevel:             "info",
		SubjectTerm:          "subject",
		BulkInsert:           &bulk,
		HarvestBatchSize:     1000,
		TSVSkipMalformed:     false,
		SourceTimeoutSeconds: 300,
		BootstrapFile:        "",
		MetricsEnabled:       false,
		sources:              make(map[string]string),
	}
}

// Default returns the built-in configuration without reading file or environment
func Default() *AuthorityConfig {
	return newDefault()
}

// Load loads configuration from file and environment variables
// Environment variables take precedence over file values
func Load() (*AuthorityConfig, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("LOCALAUTH_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig AuthorityConfig
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"log_level", "subject_term", "bulk_insert", "harvest_batch_size",
		"tsv_skip_malformed", "source_timeout_seconds", "bootstrap_file",
		"metrics_enabled",
	}
}

func (c *AuthorityConfig) applyFileConfig(file *AuthorityConfig) {
	if file.LogLevel != "" {
		c.LogLevel = file.LogLevel
		c.sources["log_level"] = "file"
	}
	if file.SubjectTerm != "" {
		c.SubjectTerm = file.SubjectTerm
		c.sources["subject_term"] = "file"
	}
	if file.BulkInsert != nil {
		bulk := *file.BulkInsert
		c.BulkInsert = &bulk
		c.sources["bulk_insert"] = "file"
	}
	if file.HarvestBatchSize != 0 {
		c.HarvestBatchSize = file.HarvestBatchSize
		c.sources["harvest_batch_size"] = "file"
	}
	if file.TSVSkipMalformed {
		c.TSVSkipMalformed = true
		c.sources["tsv_skip_malformed"] = "file"
	}
	if file.SourceTimeoutSeconds != 0 {
		c.SourceTimeoutSeconds = file.SourceTimeoutSeconds
		c.sources["source_timeout_seconds"] = "file"
	}
	if file.BootstrapFile != "" {
		c.BootstrapFile = file.BootstrapFile
		c.sources["bootstrap_file"] = "file"
	}
	if file.MetricsEnabled {
		c.MetricsEnabled = true
		c.sources["metrics_enabled"] = "file"
	}
}

func (c *AuthorityConfig) applyEnvConfig() {
	if val := os.Getenv("LOCALAUTH_LOG_LEVEL"); val != "" {
		c.LogLevel = strings.ToLower(val)
		c.sources["log_level"] = "environment"
	}
	if val := os.Getenv("LOCALAUTH_SUBJECT_TERM"); val != "" {
		c.SubjectTerm = val
		c.sources["subject_term"] = "environment"
	}
	if val := os.Getenv("LOCALAUTH_BULK_INSERT"); val != "" {
		bulk := val == "true" || val == "1"
		c.BulkInsert = &bulk
		c.sources["bulk_insert"] = "environment"
	}
	if val := os.Getenv("LOCALAUTH_HARVEST_BATCH_SIZE"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.HarvestBatchSize = i
			c.sources["harvest_batch_size"] = "environment"
		}
	}
	if val := os.Getenv("LOCALAUTH_TSV_SKIP_MALFORMED"); val != "" {
		c.TSVSkipMalformed = val == "true" || val == "1"
		c.sources["tsv_skip_malformed"] = "environment"
	}
	if val := os.Getenv("LOCALAUTH_SOURCE_TIMEOUT_SECONDS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.SourceTimeoutSeconds = i
			c.sources["source_timeout_seconds"] = "environment"
		}
	}
	if val := os.Getenv("LOCALAUTH_BOOTSTRAP_FILE"); val != "" {
		c.BootstrapFile = val
		c.sources["bootstrap_file"] = "environment"
	}
	if val := os.Getenv("LOCALAUTH_METRICS_ENABLED"); val != "" {
		c.MetricsEnabled = val == "true" || val == "1"
		c.sources["metrics_enabled"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file
func (c *AuthorityConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *AuthorityConfig) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// UseBulkInsert reports whether harvested entries are written in batches
func (c *AuthorityConfig) UseBulkInsert() bool {
	return c.BulkInsert == nil || *c.BulkInsert
}

// SourceTimeout returns the per-source fetch timeout as a duration
func (c *AuthorityConfig) SourceTimeout() time.Duration {
	return time.Duration(c.SourceTimeoutSeconds) * time.Second
}

// Validate validates the configuration
func (c *AuthorityConfig) Validate() error {
	validLevel := false
	for _, l := range ValidLogLevels {
		if c.LogLevel == l {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log_level value: %s", c.LogLevel)
	}
	if strings.TrimSpace(c.SubjectTerm) == "" {
		return fmt.Errorf("subject_term must not be empty")
	}
	if c.HarvestBatchSize <= 0 {
		return fmt.Errorf("harvest_batch_size must be positive, got %d", c.HarvestBatchSize)
	}
	if c.SourceTimeoutSeconds <= 0 {
		return fmt.Errorf("source_timeout_seconds must be positive, got %d", c.SourceTimeoutSeconds)
	}
	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *AuthorityConfig) Attributes() []Attribute {
	return []Attribute{
		{Name: "log_level", Value: c.LogLevel, Source: c.Source("log_level")},
		{Name: "subject_term", Value: c.SubjectTerm, Source: c.Source("subject_term")},
		{Name: "bulk_insert", Value: strconv.FormatBool(c.UseBulkInsert()), Source: c.Source("bulk_insert")},
		{Name: "harvest_batch_size", Value: strconv.Itoa(c.HarvestBatchSize), Source: c.Source("harvest_batch_size")},
		{Name: "tsv_skip_malformed", Value: strconv.FormatBool(c.TSVSkipMalformed), Source: c.Source("tsv_skip_malformed")},
		{Name: "source_timeout_seconds", Value: strconv.Itoa(c.SourceTimeoutSeconds), Source: c.Source("source_timeout_seconds")},
		{Name: "bootstrap_file", Value: c.BootstrapFile, Source: c.Source("bootstrap_file")},
		{Name: "metrics_enabled", Value: strconv.FormatBool(c.MetricsEnabled), Source: c.Source("metrics_enabled")},
	}
}

// FormatText returns a text representation of the configuration
func (c *AuthorityConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-30s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-30s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-30s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *AuthorityConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
