package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/alexhholmes/jentrygen/internal/analyzer"
	"github.com/alexhholmes/jentrygen/internal/codegen"
	"github.com/alexhholmes/jentrygen/internal/parser"
)

// DefaultPath is the config file looked up when none is given
const DefaultPath = "jentrygen.yaml"

// Config holds all jentrygen configuration.
type Config struct {
	// Template rewritten in place
	Template string `yaml:"template"`

	// Parse generated fragments with tree-sitter before writing
	Verify bool `yaml:"verify"`

	Markers  MarkersConfig  `yaml:"markers"`
	Codegen  CodegenConfig  `yaml:"codegen"`
	Analyzer AnalyzerConfig `yaml:"analyzer"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// MarkersConfig names the region sentinel lines.
type MarkersConfig struct {
	Dispatch     string `yaml:"dispatch"`
	Constructors string `yaml:"constructors"`
	End          string `yaml:"end"`
}

// CodegenConfig controls identifiers in generated C.
type CodegenConfig struct {
	TagField          string `yaml:"tag_field"`
	TagCase           string `yaml:"tag_case"` // upper, screaming_snake
	PrintFunc         string `yaml:"print_func"`
	AllocFunc         string `yaml:"alloc_func"`
	SizeVar           string `yaml:"size_var"`
	RecordVar         string `yaml:"record_var"`
	ConstructorPrefix string `yaml:"constructor_prefix"`
}

// AnalyzerConfig configures record layout analysis.
type AnalyzerConfig struct {
	Target   string            `yaml:"target"` // mips32, i386, amd64
	Typedefs map[string]string `yaml:"typedefs,omitempty"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// Default returns the configuration for the sfs journal template.
func Default() *Config {
	markers := parser.DefaultMarkers()
	opts := codegen.DefaultOptions()

	return &Config{
		Template: "sfs_jentries.c",
		Verify:   true,
		Markers: MarkersConfig{
			Dispatch:     markers.Dispatch,
			Constructors: markers.Constructors,
			End:          markers.End,
		},
		Codegen: CodegenConfig{
			TagField:          opts.TagField,
			TagCase:           string(opts.TagCase),
			PrintFunc:         opts.PrintFunc,
			AllocFunc:         opts.AllocFunc,
			SizeVar:           opts.SizeVar,
			RecordVar:         opts.RecordVar,
			ConstructorPrefix: opts.ConstructorPrefix,
		},
		Analyzer: AnalyzerConfig{
			Target: "mips32",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file over the defaults.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Relative template paths are relative to the config file
	if cfg.Template != "" && !filepath.IsAbs(cfg.Template) {
		cfg.Template = filepath.Join(filepath.Dir(path), cfg.Template)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save writes configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("JENTRYGEN_TEMPLATE"); v != "" {
		c.Template = v
	}
	if v := os.Getenv("JENTRYGEN_TARGET"); v != "" {
		c.Analyzer.Target = v
	}
}

// Validate checks the configuration for values the pipeline cannot use.
func (c *Config) Validate() error {
	if c.Template == "" {
		return fmt.Errorf("template path is empty")
	}
	if err := c.ParserMarkers().Validate(); err != nil {
		return err
	}
	if err := c.CodegenOptions().Validate(); err != nil {
		return err
	}
	if _, err := analyzer.LookupTarget(c.Analyzer.Target); err != nil {
		return err
	}
	return nil
}

// ParserMarkers converts the markers section.
func (c *Config) ParserMarkers() parser.Markers {
	return parser.Markers{
		Dispatch:     c.Markers.Dispatch,
		Constructors: c.Markers.Constructors,
		End:          c.Markers.End,
	}
}

// CodegenOptions converts the codegen section.
func (c *Config) CodegenOptions() codegen.Options {
	return codegen.Options{
		TagField:          c.Codegen.TagField,
		TagCase:           codegen.TagCase(c.Codegen.TagCase),
		PrintFunc:         c.Codegen.PrintFunc,
		AllocFunc:         c.Codegen.AllocFunc,
		SizeVar:           c.Codegen.SizeVar,
		RecordVar:         c.Codegen.RecordVar,
		ConstructorPrefix: c.Codegen.ConstructorPrefix,
	}
}

// TypeRegistry builds the analyzer registry for the configured target,
// with the default kernel typedefs plus any configured ones.
func (c *Config) TypeRegistry() (*analyzer.TypeRegistry, error) {
	target, err := analyzer.LookupTarget(c.Analyzer.Target)
	if err != nil {
		return nil, err
	}
	reg := analyzer.NewTypeRegistry(target)
	reg.RegisterAliases(analyzer.DefaultTypedefs)
	reg.RegisterAliases(c.Analyzer.Typedefs)
	return reg, nil
}
