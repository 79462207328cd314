package translator

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

const defaultGoogleURL = "https://translate.googleapis.com/translate_a/single"

// GoogleService talks to the public gtx endpoint (no API key).
type GoogleService struct {
	baseURL string
	client  *http.Client
}

func NewGoogleService(cfg ServiceConfig) *GoogleService {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGoogleURL
	}
	return &GoogleService{
		baseURL: baseURL,
		client:  cfg.httpClient(),
	}
}

func (s *GoogleService) Name() string {
	return ProviderGoogle
}

func (s *GoogleService) Translate(ctx context.Context, req TranslateRequest) (*Result, error) {
	sourceLang := req.SourceLang
	if sourceLang == "" {
		sourceLang = AutoDetect
	}

	params := url.Values{}
	params.Add("client", "gtx")
	params.Add("sl", sourceLang)
	params.Add("tl", req.TargetLang)
	params.Add("dt", "t")
	params.Add("dt", "rm")
	params.Add("q", req.Text)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
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

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Service: s.Name(), Err: err}
	}

	result, err := parseGoogleResponse(body, sourceLang)
	if err != nil {
		return nil, &ParseError{Service: s.Name(), Err: err}
	}
	result.ServiceName = s.Name()

	return result, nil
}

// parseGoogleResponse reads the nested array payload:
//
//	[[[translated, original, targetTranslit, sourceTranslit], ...], null, "detected", ...]
//
// Romanization rows carry an empty first element and only contribute phonetics.
func parseGoogleResponse(body []byte, sourceLang string) (*Result, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid JSON")
	}
	data := gjson.ParseBytes(body)
	if !data.IsArray() {
		return nil, fmt.Errorf("expected top-level array, got %s", data.Type)
	}

	result := &Result{DetectedLanguage: sourceLang}
	if isAuto(sourceLang) {
		if detected := data.Get("2"); detected.Type == gjson.String && detected.String() != "" {
			result.DetectedLanguage = detected.String()
		}
	}

	var sb strings.Builder
	for _, segment := range data.Get("0").Array() {
		if !segment.IsArray() {
			continue
		}
		if text := segment.Get("0"); text.Type == gjson.String {
			sb.WriteString(text.String())
		}
		if src := segment.Get("3"); src.Type == gjson.String && src.String() != "" && result.SourcePhonetic == "" {
			result.SourcePhonetic = src.String()
		}
		if tgt := segment.Get("2"); tgt.Type == gjson.String && tgt.String() != "" && result.TargetPhonetic == "" {
			result.TargetPhonetic = tgt.String()
		}
	}

	result.Translation = sb.String()
	if strings.TrimSpace(result.Translation) == "" {
		return nil, errEmptyTranslation
	}
	return result, nil
}
