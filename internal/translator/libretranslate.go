package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// DefaultLibreTranslateMirrors are tried in this order.
var DefaultLibreTranslateMirrors = []string{
	"https://libretranslate.com/translate",
	"https://translate.argosopentech.com/translate",
	"https://translate.terraprint.co/translate",
}

// LibreTranslateService targets a single LibreTranslate mirror. The adapter
// chains one service per mirror.
type LibreTranslateService struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

type libreRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type libreResponse struct {
	TranslatedText   string `json:"translatedText"`
	DetectedLanguage *struct {
		Language   string  `json:"language"`
		Confidence float64 `json:"confidence"`
	} `json:"detectedLanguage"`
	Error string `json:"error"`
}

func NewLibreTranslateService(endpoint string, cfg ServiceConfig) *LibreTranslateService {
	return &LibreTranslateService{
		endpoint: endpoint,
		apiKey:   cfg.APIKey,
		client:   cfg.httpClient(),
	}
}

// NewLibreTranslateMirrors builds one service per mirror, preserving order.
// An empty list selects DefaultLibreTranslateMirrors.
func NewLibreTranslateMirrors(mirrors []string, cfg ServiceConfig) []TranslationService {
	if len(mirrors) == 0 {
		mirrors = DefaultLibreTranslateMirrors
	}
	services := make([]TranslationService, 0, len(mirrors))
	for _, m := range mirrors {
		services = append(services, NewLibreTranslateService(m, cfg))
	}
	return services
}

func (s *LibreTranslateService) Name() string {
	return ProviderLibreTranslate
}

// Mirror returns the host this service posts to.
func (s *LibreTranslateService) Mirror() string {
	if u, err := url.Parse(s.endpoint); err == nil && u.Host != "" {
		return u.Host
	}
	return s.endpoint
}

func (s *LibreTranslateService) Translate(ctx context.Context, req TranslateRequest) (*Result, error) {
	body := libreRequest{
		Q:      req.Text,
		Source: libreLanguageCode(req.SourceLang),
		Target: libreLanguageCode(req.TargetLang),
		Format: "text",
		APIKey: s.apiKey,
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, &NetworkError{Service: s.Mirror(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &NetworkError{Service: s.Mirror(), StatusCode: resp.StatusCode}
	}

	var libreResp libreResponse
	if err := json.NewDecoder(resp.Body).Decode(&libreResp); err != nil {
		return nil, &ParseError{Service: s.Mirror(), Err: err}
	}

	if strings.TrimSpace(libreResp.TranslatedText) == "" {
		return nil, &ParseError{Service: s.Mirror(), Err: errEmptyTranslation}
	}

	result := &Result{
		ServiceName:      s.Name(),
		Translation:      libreResp.TranslatedText,
		DetectedLanguage: req.SourceLang,
	}
	if libreResp.DetectedLanguage != nil && libreResp.DetectedLanguage.Language != "" {
		result.DetectedLanguage = libreResp.DetectedLanguage.Language
	}

	return result, nil
}
