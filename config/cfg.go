package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/rupor-github/gencfg"
	"golang.org/x/text/language"
	yaml "gopkg.in/yaml.v3"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	RenderConfig struct {
		Actions            bool          `yaml:"actions"`
		SetDocumentTitle   bool          `yaml:"set_document_title"`
		TitleTemplate      string        `yaml:"title_template"`
		PrintFallbackDelay time.Duration `yaml:"print_fallback_delay" validate:"gte=0"`
	}

	PageConfig struct {
		Language                string `yaml:"language" validate:"omitempty,bcp47_language_tag"`
		Mount                   string `yaml:"mount" validate:"required,excludesall=' []/'"`
		StylesheetPath          string `yaml:"stylesheet_path" sanitize:"assure_file_access"`
		InlineDefaultStylesheet bool   `yaml:"inline_default_stylesheet"`
	}

	OutputConfig struct {
		NameTemplate          string        `yaml:"name_template"`
		FileNameTransliterate bool          `yaml:"file_name_transliterate"`
		Overwrite             bool          `yaml:"overwrite"`
		Workers               int           `yaml:"workers" validate:"gte=0,lte=256"`
		WatchDebounce         time.Duration `yaml:"watch_debounce" validate:"gte=0"`
	}

	PreferencesConfig struct {
		Store string `yaml:"store" validate:"oneof=memory sqlite"`
		Path  string `yaml:"path" validate:"required_if=Store sqlite"`
	}

	Config struct {
		Version     int               `yaml:"version" validate:"eq=1"`
		Render      RenderConfig      `yaml:"render"`
		Page        PageConfig        `yaml:"page"`
		Output      OutputConfig      `yaml:"output"`
		Preferences PreferencesConfig `yaml:"preferences"`
		Logging     LoggingConfig     `yaml:"logging"`
		Reporting   ReporterConfig    `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field names above
	NameTemplateFieldName  TemplateFieldName = "name_template"
	TitleTemplateFieldName TemplateFieldName = "title_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(NameTemplateFieldName)),
	gencfg.WithDoNotExpandField(string(TitleTemplateFieldName)),
)

// Tag returns configured page language, undetermined when not set.
func (conf *PageConfig) Tag() language.Tag {
	if conf.Language == "" {
		return language.Und
	}
	tag, err := language.Parse(conf.Language)
	if err != nil {
		return language.Und
	}
	return tag
}

// WorkerCount returns number of concurrent renders, 0 in configuration means
// number of CPUs.
func (conf *OutputConfig) WorkerCount() int {
	if conf.Workers > 0 {
		return conf.Workers
	}
	return runtime.NumCPU()
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// only fields we defined are allowed
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
