package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	DefaultMarker = ".libaccess.lib.mcmaster.ca"
	DefaultColumn = -2
)

type Config struct {
	Links  LinksConfig  `yaml:"links"`
	Papers PapersConfig `yaml:"papers"`
	Output OutputConfig `yaml:"output"`
	Log    LogConfig    `yaml:"log"`
}

// LinksConfig drives the libaccess link rewriter.
type LinksConfig struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
	Marker string `yaml:"marker"`
	// Column is the link field index; negative values count from the end.
	Column int `yaml:"column"`
}

type PapersConfig struct {
	Input      string `yaml:"input"`
	Output     string `yaml:"output"`
	WithNumber bool   `yaml:"with_number"`
	NFC        bool   `yaml:"nfc"` // normalize titles and citations
}

type OutputConfig struct {
	CRLF  bool   `yaml:"crlf"`
	Sheet string `yaml:"sheet"` // xlsx only
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console, json
}

func Default() *Config {
	return &Config{
		Links: LinksConfig{
			Input:  "ResearchPapers.csv",
			Output: "Converted.csv",
			Marker: DefaultMarker,
			Column: DefaultColumn,
		},
		Papers: PapersConfig{
			Input:  "ResearchPapers.txt",
			Output: "researchPapers.csv",
		},
		Output: OutputConfig{
			CRLF:  true,
			Sheet: "Papers",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads a YAML config on top of the defaults. An empty path or a
// missing file yields the defaults. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	c.Links.Input = getEnvOrDefault("PAPERTOOLS_LINKS_INPUT", c.Links.Input)
	c.Links.Output = getEnvOrDefault("PAPERTOOLS_LINKS_OUTPUT", c.Links.Output)
	c.Links.Marker = getEnvOrDefault("PAPERTOOLS_LINKS_MARKER", c.Links.Marker)
	if v := os.Getenv("PAPERTOOLS_LINKS_COLUMN"); v != "" {
		col, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PAPERTOOLS_LINKS_COLUMN %q: %w", v, err)
		}
		c.Links.Column = col
	}

	c.Papers.Input = getEnvOrDefault("PAPERTOOLS_PAPERS_INPUT", c.Papers.Input)
	c.Papers.Output = getEnvOrDefault("PAPERTOOLS_PAPERS_OUTPUT", c.Papers.Output)

	c.Log.Level = getEnvOrDefault("PAPERTOOLS_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnvOrDefault("PAPERTOOLS_LOG_FORMAT", c.Log.Format)
	return nil
}

func (c *LinksConfig) Validate() error {
	if c.Input == "" || c.Output == "" {
		return fmt.Errorf("links: input and output paths are required")
	}
	if c.Marker == "" {
		return fmt.Errorf("links: marker must not be empty")
	}
	return nil
}

func (c *PapersConfig) Validate() error {
	if c.Input == "" || c.Output == "" {
		return fmt.Errorf("papers: input and output paths are required")
	}
	return nil
}

func (c *LogConfig) Validate() error {
	switch c.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log format %q (want console or json)", c.Format)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
