package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/valpere/poptran/internal/postprocess"
)

const (
	defaultGeminiURL   = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel = "gemini-2.0-flash-lite"
)

// LanguageDetector guesses the ISO 639-1 code of a text.
type LanguageDetector interface {
	DetectISO(text string) (string, bool)
}

type GeminiService struct {
	apiKey   string
	baseURL  string
	model    string
	detector LanguageDetector
	client   *http.Client
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// geminiPayload is the JSON document the prompt asks the model to produce.
type geminiPayload struct {
	Translation    string `json:"translation"`
	SourcePhonetic string `json:"sourcePhonetic"`
	TargetPhonetic string `json:"targetPhonetic"`
}

// NewGeminiService builds the Gemini translator. detector may be nil, in which
// case auto-detected sources are reported as English.
func NewGeminiService(cfg ServiceConfig, detector LanguageDetector) *GeminiService {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGeminiURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiService{
		apiKey:   cfg.APIKey,
		baseURL:  strings.TrimRight(baseURL, "/"),
		model:    model,
		detector: detector,
		client:   cfg.httpClient(),
	}
}

func (s *GeminiService) Name() string {
	return ProviderGemini
}

func (s *GeminiService) Translate(ctx context.Context, req TranslateRequest) (*Result, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("%s: %w", s.Name(), ErrMissingAPIKey)
	}

	body := geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{{Text: buildGeminiPrompt(req.Text, req.SourceLang, req.TargetLang)}},
		}},
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", s.baseURL, s.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-goog-api-key", s.apiKey)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, &NetworkError{Service: s.Name(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &NetworkError{Service: s.Name(), StatusCode: resp.StatusCode}
	}

	var geminiResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return nil, &ParseError{Service: s.Name(), Err: err}
	}

	var responseText string
	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		responseText = geminiResp.Candidates[0].Content.Parts[0].Text
	}

	result := parseGeminiText(responseText)
	if strings.TrimSpace(result.Translation) == "" {
		return nil, &ParseError{Service: s.Name(), Err: errEmptyTranslation}
	}

	result.ServiceName = s.Name()
	result.DetectedLanguage = s.detectSource(req)

	return result, nil
}

func (s *GeminiService) detectSource(req TranslateRequest) string {
	if !isAuto(req.SourceLang) {
		return req.SourceLang
	}
	if s.detector != nil {
		if lang, ok := s.detector.DetectISO(req.Text); ok && lang != "" {
			return lang
		}
	}
	return "en"
}

// parseGeminiText reads the model's JSON answer. When the model ignored the
// format, the whole answer is used as the translation.
func parseGeminiText(text string) *Result {
	text = postprocess.StripCodeFences(strings.TrimSpace(text))

	var payload geminiPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return &Result{Translation: text}
	}
	return &Result{
		Translation:    payload.Translation,
		SourcePhonetic: payload.SourcePhonetic,
		TargetPhonetic: payload.TargetPhonetic,
	}
}

func buildGeminiPrompt(text, sourceLang, targetLang string) string {
	sourceName := "the source language"
	if !isAuto(sourceLang) {
		sourceName = LanguageName(sourceLang)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are a professional translator. Translate the following text from %s to %s.\n\n", sourceName, LanguageName(targetLang)))
	sb.WriteString(fmt.Sprintf("Text: %s\n\n", text))
	sb.WriteString(`Provide your response in this exact JSON format:
{
  "translation": "the translated text here",
  "sourcePhonetic": "phonetic transcription of source text (pinyin for Chinese, romaji for Japanese, IPA for others)",
  "targetPhonetic": "phonetic transcription of translated text if applicable"
}

Only respond with the JSON, no additional text.`)

	return sb.String()
}
