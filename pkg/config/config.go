package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-playground/validator/v10"
	"github.com/sdejongh/sheetdiff/pkg/models"
)

// Config represents the application configuration
type Config struct {
	Compare CompareConfig `yaml:"compare"`
	Visual  VisualConfig  `yaml:"visual"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
	Exclude []string      `yaml:"exclude" validate:"dive,glob"`
}

// CompareConfig holds comparison settings
type CompareConfig struct {
	Process      models.ProcessMode   `yaml:"process" validate:"oneof=file folder"`
	Hash         models.HashMethod    `yaml:"hash" validate:"oneof=md5 sha256 binary"`
	Algorithm    models.DiffAlgorithm `yaml:"algorithm" validate:"oneof=difflib myers"`
	ContextLines int                  `yaml:"context_lines" validate:"min=0"`
	Clean        bool                 `yaml:"clean"`
	BufferSize   int                  `yaml:"buffer_size" validate:"min=4096"`
}

// VisualConfig holds settings for the external side-by-side diff tool
type VisualConfig struct {
	Enabled bool   `yaml:"enabled"`
	Tool    string `yaml:"tool" validate:"required_if=Enabled true"`
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Color      string `yaml:"color" validate:"oneof=auto always never"`
	Progress   bool   `yaml:"progress"` // Show sheet conversion progress
	Quiet      bool   `yaml:"quiet"`    // Print only the final report
	ReportFile string `yaml:"report_file"`
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Format     string `yaml:"format" validate:"oneof=text json"`
	Level      string `yaml:"level" validate:"oneof=debug info warn error"`
	File       string `yaml:"file"` // Empty logs warnings to stderr only
	MaxSizeMB  int    `yaml:"max_size_mb" validate:"min=1"`
	MaxBackups int    `yaml:"max_backups" validate:"min=0"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Compare: CompareConfig{
			Process:      models.ProcessFile,
			Hash:         models.HashMD5,
			Algorithm:    models.AlgorithmDifflib,
			ContextLines: 3,
			BufferSize:   4096,
		},
		Visual: VisualConfig{
			Tool: "tkdiff",
		},
		Output: OutputConfig{
			Color:    "auto",
			Progress: true,
		},
		Logging: LoggingConfig{
			Format:     "text",
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Exclude: []string{
			"~$*",
			".~lock.*#",
		},
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their YAML names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("glob", func(fl validator.FieldLevel) bool {
		return doublestar.ValidatePattern(fl.Field().String())
	})

	return v
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	return &models.ValidationError{
		Field:   fieldPath(fe.Namespace()),
		Message: describe(fe),
	}
}

// fieldPath drops the root struct name: "Config.compare.hash" becomes "compare.hash"
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "required_if":
		return "is required when enabled"
	case "glob":
		return fmt.Sprintf("invalid glob pattern %q", fe.Value())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
