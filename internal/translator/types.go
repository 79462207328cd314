package translator

import (
	"context"
	"net/http"
	"strings"
	"time"
)

const (
	ProviderGoogle         = "google"
	ProviderGemini         = "gemini"
	ProviderLibreTranslate = "libretranslate"
	ProviderMyMemory       = "mymemory"
	ProviderGoogleCloud    = "googlecloud"

	DefaultProvider = ProviderGoogle

	// AutoDetect asks the provider to infer the source language.
	AutoDetect = "auto"

	DefaultTimeout = 30 * time.Second
)

type ServiceConfig struct {
	Credentials string        `mapstructure:"credentials" json:"credentials"`
	APIKey      string        `mapstructure:"api_key" json:"api_key"`
	Model       string        `mapstructure:"model" json:"model"`
	BaseURL     string        `mapstructure:"base_url" json:"base_url"`
	Email       string        `mapstructure:"email" json:"email"`
	Timeout     time.Duration `mapstructure:"timeout" json:"timeout"`
}

func (c ServiceConfig) httpClient() *http.Client {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

type TranslateRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

// Result is the normalized output of every provider.
type Result struct {
	ServiceName      string `json:"service_name"`
	Translation      string `json:"translation"`
	SourcePhonetic   string `json:"source_phonetic"`
	TargetPhonetic   string `json:"target_phonetic"`
	DetectedLanguage string `json:"detected_language"`
}

type TranslationService interface {
	Name() string
	Translate(ctx context.Context, req TranslateRequest) (*Result, error)
}

// ResolveProvider normalizes a provider name. Unknown names fall back to Google.
func ResolveProvider(value string) string {
	normalized := strings.TrimSpace(strings.ToLower(value))
	switch normalized {
	case ProviderGoogle, ProviderGemini, ProviderLibreTranslate, ProviderMyMemory, ProviderGoogleCloud:
		return normalized
	default:
		return DefaultProvider
	}
}

// Providers lists the selectable provider names.
func Providers() []string {
	return []string{ProviderGoogle, ProviderGemini, ProviderLibreTranslate, ProviderMyMemory, ProviderGoogleCloud}
}

func isAuto(lang string) bool {
	return lang == "" || lang == AutoDetect
}
