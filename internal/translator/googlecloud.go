package translator

import (
	"context"
	"fmt"
	"html"
	"strings"

	translate "cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"
)

// GoogleCloudService uses the official Cloud Translation API. It needs
// application default credentials or a service account file.
type GoogleCloudService struct {
	credentials string
	apiKey      string
}

func NewGoogleCloudService(cfg ServiceConfig) *GoogleCloudService {
	return &GoogleCloudService{
		credentials: cfg.Credentials,
		apiKey:      cfg.APIKey,
	}
}

func (s *GoogleCloudService) Name() string {
	return ProviderGoogleCloud
}

func (s *GoogleCloudService) clientOptions() []option.ClientOption {
	opts := []option.ClientOption{}
	if s.credentials != "" {
		opts = append(opts, option.WithCredentialsFile(s.credentials))
	}
	if s.apiKey != "" {
		opts = append(opts, option.WithAPIKey(s.apiKey))
	}
	return opts
}

func (s *GoogleCloudService) Translate(ctx context.Context, req TranslateRequest) (*Result, error) {
	targetLangTag, err := language.Parse(req.TargetLang)
	if err != nil {
		return nil, fmt.Errorf("invalid target language: %w", err)
	}

	opts := &translate.Options{Format: translate.Text}
	if !isAuto(req.SourceLang) {
		sourceLangTag, err := language.Parse(req.SourceLang)
		if err != nil {
			return nil, fmt.Errorf("invalid source language: %w", err)
		}
		opts.Source = sourceLangTag
	}

	client, err := translate.NewClient(ctx, s.clientOptions()...)
	if err != nil {
		return nil, &NetworkError{Service: s.Name(), Err: fmt.Errorf("failed to create client: %w", err)}
	}
	defer client.Close()

	translations, err := client.Translate(ctx, []string{req.Text}, targetLangTag, opts)
	if err != nil {
		return nil, &NetworkError{Service: s.Name(), Err: err}
	}

	if len(translations) == 0 || strings.TrimSpace(translations[0].Text) == "" {
		return nil, &ParseError{Service: s.Name(), Err: errEmptyTranslation}
	}

	result := &Result{
		ServiceName:      s.Name(),
		Translation:      html.UnescapeString(translations[0].Text),
		DetectedLanguage: req.SourceLang,
	}
	if isAuto(req.SourceLang) && translations[0].Source != language.Und {
		result.DetectedLanguage = translations[0].Source.String()
	}

	return result, nil
}
