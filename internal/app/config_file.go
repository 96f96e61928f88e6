package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/oiltrends/internal/pipeline"
)

// FileConfig represents the single-file configuration schema.
type FileConfig struct {
	LLM struct {
		BaseURL              string `yaml:"base" json:"base"`
		Model                string `yaml:"model" json:"model"`
		APIKey               string `yaml:"key" json:"key"`
		SystemPrompt         string `yaml:"systemPrompt" json:"systemPrompt"`
		ReservedOutputTokens int    `yaml:"reservedOutputTokens" json:"reservedOutputTokens"`
	} `yaml:"llm" json:"llm"`

	HTTP struct {
		UserAgent    string `yaml:"userAgent" json:"userAgent"`
		Timeout      string `yaml:"timeout" json:"timeout"`
		MaxRedirects int    `yaml:"maxRedirects" json:"maxRedirects"`
		SSLVerify    *bool  `yaml:"sslVerify" json:"sslVerify"`
	} `yaml:"http" json:"http"`

	MaxPages     int      `yaml:"maxPages" json:"maxPages"`
	PDFPageLimit int      `yaml:"pdfPageLimit" json:"pdfPageLimit"`
	Keywords     []string `yaml:"keywords" json:"keywords"`

	Prompt struct {
		Instruction string `yaml:"instruction" json:"instruction"`
		Source      string `yaml:"source" json:"source"`
	} `yaml:"prompt" json:"prompt"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays every value set in fc onto cfg. It is applied to
// the defaults, before environment overrides and flags.
func ApplyFileConfig(cfg *Config, fc FileConfig) error {
	if cfg == nil {
		return nil
	}
	if fc.LLM.BaseURL != "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if fc.LLM.Model != "" {
		cfg.LLMModel = fc.LLM.Model
	}
	if fc.LLM.APIKey != "" {
		cfg.LLMAPIKey = fc.LLM.APIKey
	}
	if fc.LLM.SystemPrompt != "" {
		cfg.SystemPrompt = fc.LLM.SystemPrompt
	}
	if fc.LLM.ReservedOutputTokens > 0 {
		cfg.ReservedOutputTokens = fc.LLM.ReservedOutputTokens
	}

	if fc.HTTP.UserAgent != "" {
		cfg.UserAgent = fc.HTTP.UserAgent
	}
	if fc.HTTP.Timeout != "" {
		d, err := time.ParseDuration(fc.HTTP.Timeout)
		if err != nil {
			return fmt.Errorf("config: http.timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if fc.HTTP.MaxRedirects > 0 {
		cfg.MaxRedirects = fc.HTTP.MaxRedirects
	}
	if fc.HTTP.SSLVerify != nil {
		cfg.SSLVerify = *fc.HTTP.SSLVerify
	}

	if fc.MaxPages > 0 {
		cfg.MaxPages = fc.MaxPages
	}
	if fc.PDFPageLimit > 0 {
		cfg.PDFPageLimit = fc.PDFPageLimit
	}
	if len(fc.Keywords) > 0 {
		cfg.Keywords = append([]string(nil), fc.Keywords...)
	}
	if fc.Prompt.Instruction != "" {
		cfg.Instruction = strings.TrimSpace(fc.Prompt.Instruction)
	}
	if fc.Prompt.Source != "" {
		cfg.PromptSource = fc.Prompt.Source
	}
	if fc.Verbose {
		cfg.Verbose = true
	}
	return nil
}

// ValidateConfig rejects settings no action can run with. LLM settings are
// only required when requireLLM is set.
func ValidateConfig(cfg Config, requireLLM bool) error {
	if cfg.MaxPages < 1 {
		return errors.New("config: max pages must be at least 1")
	}
	if cfg.PDFPageLimit < 1 {
		return errors.New("config: pdf page limit must be at least 1")
	}
	if cfg.Timeout < 0 {
		return errors.New("config: timeout must not be negative")
	}
	if cfg.MaxRedirects < 0 || cfg.ReservedOutputTokens < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	if _, err := pipeline.ParsePromptSource(cfg.PromptSource); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if requireLLM && strings.TrimSpace(cfg.LLMModel) == "" {
		return errors.New("config: llm.model is required (or set LLM_MODEL)")
	}
	return nil
}
