// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/ranking"
	"github.com/jonathan/resume-tailor/internal/rewriting"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Inputs
	Resume      string `json:"resume,omitempty"`       // Path to resume file (.pdf, .docx, .txt, .md)
	Job         string `json:"job,omitempty"`          // Path to job posting text file
	JobURL      string `json:"job_url,omitempty" validate:"omitempty,url"`
	Name        string `json:"name,omitempty"`         // Fallback candidate name
	CatalogPath string `json:"catalog_path,omitempty"` // JSON file of portfolio project templates

	// Tailoring limits
	MaxJobSkills             int `json:"max_job_skills,omitempty" validate:"gte=0,lte=200"`
	MaxRecommendedSkills     int `json:"max_recommended_skills,omitempty" validate:"gte=0,lte=50"`
	PortfolioTopN            int `json:"portfolio_top_n,omitempty" validate:"gte=0,lte=50"`
	GenerationTimeoutSeconds int `json:"generation_timeout_seconds,omitempty" validate:"gte=0,lte=600"`

	// Content generation
	Provider string `json:"provider,omitempty" validate:"omitempty,oneof=gemini openai"`
	APIKey   string `json:"api_key,omitempty"`

	// Infrastructure
	DatabaseURL string `json:"database_url,omitempty" validate:"omitempty,url"` // PostgreSQL connection URL
	CacheURL    string `json:"cache_url,omitempty" validate:"omitempty,url"`    // Redis URL for analysis and page caching
	RabbitMQURL string `json:"rabbitmq_url,omitempty" validate:"omitempty,url"`
	S3Bucket    string `json:"s3_bucket,omitempty"`
	S3Endpoint  string `json:"s3_endpoint,omitempty" validate:"omitempty,url"`
	AWSRegion   string `json:"aws_region,omitempty"`

	// Behavior
	UseBrowser bool `json:"use_browser,omitempty"` // Use headless browser for SPA sites
	Verbose    bool `json:"verbose,omitempty"`     // Print detailed debug information
}

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		MaxRecommendedSkills:     rewriting.DefaultMaxRecommendedSkills,
		PortfolioTopN:            ranking.DefaultTopN,
		GenerationTimeoutSeconds: int(llm.DefaultGenerationTimeout / time.Second),
		Provider:                 string(llm.ProviderGemini),
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	// Validate mutually exclusive fields
	if c.Job != "" && c.JobURL != "" {
		return fmt.Errorf("config error: 'job' and 'job_url' are mutually exclusive")
	}

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("config error: '%s' failed %s", fe.Field(), describe(fe))
		}
		return fmt.Errorf("config error: %w", err)
	}

	// Validate file paths exist (if specified)
	for _, f := range []struct{ label, path string }{
		{"resume", c.Resume},
		{"job", c.Job},
		{"catalog", c.CatalogPath},
	} {
		if f.path == "" {
			continue
		}
		if _, err := os.Stat(f.path); os.IsNotExist(err) {
			return fmt.Errorf("config error: %s file not found: %s", f.label, f.path)
		}
	}

	return nil
}

func describe(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fmt.Sprintf("%s=%s", fe.Tag(), fe.Param())
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	setIfEmpty(&result.Resume, defaults.Resume)
	setIfEmpty(&result.Job, defaults.Job)
	setIfEmpty(&result.JobURL, defaults.JobURL)
	setIfEmpty(&result.Name, defaults.Name)
	setIfEmpty(&result.CatalogPath, defaults.CatalogPath)
	setIfEmpty(&result.Provider, defaults.Provider)
	setIfEmpty(&result.APIKey, defaults.APIKey)
	setIfEmpty(&result.DatabaseURL, defaults.DatabaseURL)
	setIfEmpty(&result.CacheURL, defaults.CacheURL)
	setIfEmpty(&result.RabbitMQURL, defaults.RabbitMQURL)
	setIfEmpty(&result.S3Bucket, defaults.S3Bucket)
	setIfEmpty(&result.S3Endpoint, defaults.S3Endpoint)
	setIfEmpty(&result.AWSRegion, defaults.AWSRegion)

	// Int fields: use default if zero
	if result.MaxJobSkills == 0 {
		result.MaxJobSkills = defaults.MaxJobSkills
	}
	if result.MaxRecommendedSkills == 0 {
		result.MaxRecommendedSkills = defaults.MaxRecommendedSkills
	}
	if result.PortfolioTopN == 0 {
		result.PortfolioTopN = defaults.PortfolioTopN
	}
	if result.GenerationTimeoutSeconds == 0 {
		result.GenerationTimeoutSeconds = defaults.GenerationTimeoutSeconds
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// ApplyEnv fills empty infrastructure and credential fields from the environment.
func (c *Config) ApplyEnv() {
	setIfEmpty(&c.Provider, os.Getenv("LLM_PROVIDER"))
	if c.APIKey == "" {
		if strings.EqualFold(c.Provider, string(llm.ProviderOpenAI)) {
			c.APIKey = os.Getenv("OPENAI_API_KEY")
		} else {
			c.APIKey = os.Getenv("GEMINI_API_KEY")
		}
	}
	setIfEmpty(&c.DatabaseURL, os.Getenv("DATABASE_URL"))
	setIfEmpty(&c.CacheURL, os.Getenv("REDIS_URL"))
	setIfEmpty(&c.RabbitMQURL, os.Getenv("RABBITMQ_URL"))
	setIfEmpty(&c.S3Bucket, os.Getenv("S3_BUCKET"))
	setIfEmpty(&c.S3Endpoint, os.Getenv("S3_ENDPOINT"))
	setIfEmpty(&c.AWSRegion, os.Getenv("AWS_REGION"))
}

// Resolve overlays the environment and then the built-in defaults onto c, so
// LLM_PROVIDER wins over the default provider while explicit values win over both.
func (c Config) Resolve() Config {
	c.ApplyEnv()
	return c.MergeWithDefaults(Defaults())
}

func setIfEmpty(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}

// GenerationTimeout returns the content generation timeout as a duration.
func (c *Config) GenerationTimeout() time.Duration {
	return time.Duration(c.GenerationTimeoutSeconds) * time.Second
}
