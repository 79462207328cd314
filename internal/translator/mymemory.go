package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const defaultMyMemoryURL = "https://api.mymemory.translated.net"

type MyMemoryService struct {
	email   string
	baseURL string
	client  *http.Client
}

func NewMyMemoryService(cfg ServiceConfig) *MyMemoryService {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultMyMemoryURL
	}
	return &MyMemoryService{
		email:   cfg.Email,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  cfg.httpClient(),
	}
}

func (s *MyMemoryService) Name() string {
	return ProviderMyMemory
}

func (s *MyMemoryService) Translate(ctx context.Context, req TranslateRequest) (*Result, error) {
	// MyMemory cannot auto-detect; an unknown source is treated as English.
	sourceLang := req.SourceLang
	if isAuto(sourceLang) {
		sourceLang = "en"
	}

	langPair := fmt.Sprintf("%s|%s", sourceLang, req.TargetLang)

	apiURL := fmt.Sprintf("%s/get?q=%s&langpair=%s",
		s.baseURL,
		url.QueryEscape(req.Text),
		url.QueryEscape(langPair))

	if s.email != "" {
		apiURL += fmt.Sprintf("&de=%s", url.QueryEscape(s.email))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, &NetworkError{Service: s.Name(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &NetworkError{Service: s.Name(), StatusCode: resp.StatusCode}
	}

	var mymemResp struct {
		ResponseData struct {
			TranslatedText string  `json:"translatedText"`
			Match          float64 `json:"match"`
		} `json:"responseData"`
		ResponseStatus  json.Number `json:"responseStatus"`
		ResponseDetails string      `json:"responseDetails"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&mymemResp); err != nil {
		return nil, &ParseError{Service: s.Name(), Err: err}
	}

	if status := mymemResp.ResponseStatus.String(); status != "" && status != "200" {
		code, _ := mymemResp.ResponseStatus.Int64()
		return nil, &NetworkError{
			Service:    s.Name(),
			StatusCode: int(code),
			Err:        fmt.Errorf("API error: %s", mymemResp.ResponseDetails),
		}
	}

	if strings.TrimSpace(mymemResp.ResponseData.TranslatedText) == "" {
		return nil, &ParseError{Service: s.Name(), Err: errEmptyTranslation}
	}

	return &Result{
		ServiceName:      s.Name(),
		Translation:      mymemResp.ResponseData.TranslatedText,
		DetectedLanguage: sourceLang,
	}, nil
}
