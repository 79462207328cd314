package translator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGoogleService_Translate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("client") != "gtx" {
			t.Errorf("expected client=gtx, got %q", q.Get("client"))
		}
		if dt := q["dt"]; len(dt) != 2 || dt[0] != "t" || dt[1] != "rm" {
			t.Errorf("expected dt=t&dt=rm, got %v", dt)
		}
		if q.Get("q") != "Hello. How are you?" {
			t.Errorf("unexpected q: %q", q.Get("q"))
		}
		w.Write([]byte(`[[["Привіт. ","Hello. ",null,null,10],["Як справи?","How are you?",null,null,10],[null,null,"Pryvit. Yak spravy?","həˈləʊ"]],null,"en"]`))
	}))
	defer server.Close()

	svc := NewGoogleService(ServiceConfig{BaseURL: server.URL})

	result, err := svc.Translate(context.Background(), TranslateRequest{
		Text:       "Hello. How are you?",
		SourceLang: "auto",
		TargetLang: "uk",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Translation != "Привіт. Як справи?" {
		t.Errorf("expected concatenated segments, got %q", result.Translation)
	}
	if result.DetectedLanguage != "en" {
		t.Errorf("expected detected 'en', got %q", result.DetectedLanguage)
	}
	if result.TargetPhonetic != "Pryvit. Yak spravy?" {
		t.Errorf("unexpected target phonetic %q", result.TargetPhonetic)
	}
	if result.SourcePhonetic != "həˈləʊ" {
		t.Errorf("unexpected source phonetic %q", result.SourcePhonetic)
	}
	if result.ServiceName != "google" {
		t.Errorf("expected service name 'google', got %q", result.ServiceName)
	}
}

func TestGoogleService_Translate_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	svc := NewGoogleService(ServiceConfig{BaseURL: server.URL})

	_, err := svc.Translate(context.Background(), TranslateRequest{Text: "Hello", SourceLang: "en", TargetLang: "fr"})
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if netErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", netErr.StatusCode)
	}
}

func TestParseGoogleResponse(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		sourceLang     string
		wantErr        bool
		wantText       string
		wantDetected   string
		wantSourcePhon string
		wantTargetPhon string
	}{
		{
			name:    "invalid json",
			body:    `[[["Hola"`,
			wantErr: true,
		},
		{
			name:    "object instead of array",
			body:    `{"error":"nope"}`,
			wantErr: true,
		},
		{
			name:       "no segments",
			body:       `[null,null,"en"]`,
			sourceLang: "auto",
			wantErr:    true,
		},
		{
			name:         "explicit source ignores detected",
			body:         `[[["Hola","Hello",null,null,1]],null,"fr"]`,
			sourceLang:   "en",
			wantText:     "Hola",
			wantDetected: "en",
		},
		{
			name:         "auto source without detected keeps auto",
			body:         `[[["Hola","Hello",null,null,1]]]`,
			sourceLang:   "auto",
			wantText:     "Hola",
			wantDetected: "auto",
		},
		{
			name:           "first phonetic wins",
			body:           `[[["你好","Hello",null,null,1],[null,null,"Nǐ hǎo","first"],[null,null,"second","second"]],null,"en"]`,
			sourceLang:     "auto",
			wantText:       "你好",
			wantDetected:   "en",
			wantSourcePhon: "first",
			wantTargetPhon: "Nǐ hǎo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := parseGoogleResponse([]byte(tt.body), tt.sourceLang)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %+v", res)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Translation != tt.wantText {
				t.Errorf("translation = %q, want %q", res.Translation, tt.wantText)
			}
			if res.DetectedLanguage != tt.wantDetected {
				t.Errorf("detected = %q, want %q", res.DetectedLanguage, tt.wantDetected)
			}
			if res.SourcePhonetic != tt.wantSourcePhon {
				t.Errorf("source phonetic = %q, want %q", res.SourcePhonetic, tt.wantSourcePhon)
			}
			if res.TargetPhonetic != tt.wantTargetPhon {
				t.Errorf("target phonetic = %q, want %q", res.TargetPhonetic, tt.wantTargetPhon)
			}
		})
	}
}

func geminiServer(t *testing.T, text string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models/"+DefaultGeminiModel+":generateContent") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if len(req.Contents) != 1 || len(req.Contents[0].Parts) != 1 {
			t.Errorf("unexpected request shape: %+v", req)
		}
		json.NewEncoder(w).Encode(geminiResponse{
			Candidates: []struct {
				Content geminiContent `json:"content"`
			}{{Content: geminiContent{Parts: []geminiPart{{Text: text}}}}},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestGeminiService_Translate_JSON(t *testing.T) {
	server := geminiServer(t, `{"translation":"こんにちは","sourcePhonetic":"","targetPhonetic":"konnichiwa"}`)
	svc := NewGeminiService(ServiceConfig{APIKey: "key", BaseURL: server.URL}, nil)

	result, err := svc.Translate(context.Background(), TranslateRequest{Text: "Hello", SourceLang: "en", TargetLang: "ja"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Translation != "こんにちは" || result.TargetPhonetic != "konnichiwa" {
		t.Errorf("unexpected result: %+v", result)
	}
	if result.DetectedLanguage != "en" {
		t.Errorf("expected detected 'en', got %q", result.DetectedLanguage)
	}
}

func TestGeminiService_Translate_PlainTextAnswer(t *testing.T) {
	server := geminiServer(t, "  Bonjour tout le monde  ")
	svc := NewGeminiService(ServiceConfig{APIKey: "key", BaseURL: server.URL}, nil)

	result, err := svc.Translate(context.Background(), TranslateRequest{Text: "Hello everyone", SourceLang: "en", TargetLang: "fr"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Translation != "Bonjour tout le monde" {
		t.Errorf("expected raw text as translation, got %q", result.Translation)
	}
	if result.SourcePhonetic != "" || result.TargetPhonetic != "" {
		t.Errorf("expected empty phonetics, got %+v", result)
	}
}

func TestGeminiService_Translate_EmptyAnswer(t *testing.T) {
	server := geminiServer(t, "")
	svc := NewGeminiService(ServiceConfig{APIKey: "key", BaseURL: server.URL}, nil)

	_, err := svc.Translate(context.Background(), TranslateRequest{Text: "Hello", SourceLang: "en", TargetLang: "fr"})
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("expected ParseError, got %v", err)
	}
}

func TestGeminiService_Translate_NoAPIKey(t *testing.T) {
	svc := NewGeminiService(ServiceConfig{}, nil)

	_, err := svc.Translate(context.Background(), TranslateRequest{Text: "Hello", SourceLang: "en", TargetLang: "fr"})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
}

type fixedDetector struct{ lang string }

func (d fixedDetector) DetectISO(text string) (string, bool) {
	return d.lang, d.lang != ""
}

func TestGeminiService_DetectSource(t *testing.T) {
	tests := []struct {
		name     string
		detector LanguageDetector
		source   string
		want     string
	}{
		{"explicit source", fixedDetector{"de"}, "fr", "fr"},
		{"auto without detector", nil, "auto", "en"},
		{"auto with detector", fixedDetector{"de"}, "auto", "de"},
		{"auto with undecided detector", fixedDetector{""}, "auto", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewGeminiService(ServiceConfig{APIKey: "key"}, tt.detector)
			if got := svc.detectSource(TranslateRequest{Text: "Guten Tag", SourceLang: tt.source}); got != tt.want {
				t.Errorf("detectSource = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildGeminiPrompt(t *testing.T) {
	prompt := buildGeminiPrompt("Hello", "auto", "zh-CN")
	if !strings.Contains(prompt, "from the source language to Chinese") {
		t.Errorf("unexpected prompt header: %q", prompt)
	}
	if !strings.Contains(prompt, "Text: Hello") {
		t.Error("expected text in prompt")
	}
	if !strings.Contains(prompt, `"sourcePhonetic"`) {
		t.Error("expected JSON format instructions in prompt")
	}

	prompt = buildGeminiPrompt("Hallo", "de", "en")
	if !strings.Contains(prompt, "from German to English") {
		t.Errorf("unexpected prompt header: %q", prompt)
	}
}

func TestLibreTranslateService_Translate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		var req libreRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Q != "Hello" || req.Source != "auto" || req.Target != "zh" || req.Format != "text" {
			t.Errorf("unexpected request: %+v", req)
		}
		w.Write([]byte(`{"translatedText":"你好","detectedLanguage":{"confidence":92,"language":"en"}}`))
	}))
	defer server.Close()

	svc := NewLibreTranslateService(server.URL, ServiceConfig{})

	result, err := svc.Translate(context.Background(), TranslateRequest{Text: "Hello", SourceLang: "auto", TargetLang: "zh-CN"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Translation != "你好" || result.DetectedLanguage != "en" {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestLibreTranslateService_Translate_NoDetectedLanguage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"translatedText":"Hola"}`))
	}))
	defer server.Close()

	svc := NewLibreTranslateService(server.URL, ServiceConfig{})

	result, err := svc.Translate(context.Background(), TranslateRequest{Text: "Hello", SourceLang: "en", TargetLang: "es"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DetectedLanguage != "en" {
		t.Errorf("expected source language as detected, got %q", result.DetectedLanguage)
	}
}

func TestLibreTranslateService_Translate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantNet bool
	}{
		{"forbidden", http.StatusForbidden, `{"error":"Visit portal to get an API key"}`, true},
		{"malformed body", http.StatusOK, `<html>`, false},
		{"empty translation", http.StatusOK, `{"translatedText":""}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			svc := NewLibreTranslateService(server.URL, ServiceConfig{})
			_, err := svc.Translate(context.Background(), TranslateRequest{Text: "Hello", SourceLang: "en", TargetLang: "es"})

			var netErr *NetworkError
			var parseErr *ParseError
			if tt.wantNet && !errors.As(err, &netErr) {
				t.Errorf("expected NetworkError, got %v", err)
			}
			if !tt.wantNet && !errors.As(err, &parseErr) {
				t.Errorf("expected ParseError, got %v", err)
			}
		})
	}
}

func TestNewLibreTranslateMirrors_Defaults(t *testing.T) {
	services := NewLibreTranslateMirrors(nil, ServiceConfig{})
	if len(services) != len(DefaultLibreTranslateMirrors) {
		t.Fatalf("expected %d mirrors, got %d", len(DefaultLibreTranslateMirrors), len(services))
	}
	if got := services[0].(*LibreTranslateService).Mirror(); got != "libretranslate.com" {
		t.Errorf("expected first mirror libretranslate.com, got %q", got)
	}
}

func TestMyMemoryService_Translate_AutoSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/get" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("langpair"); got != "en|uk" {
			t.Errorf("expected langpair en|uk, got %q", got)
		}
		if got := r.URL.Query().Get("de"); got != "me@example.com" {
			t.Errorf("expected de=me@example.com, got %q", got)
		}
		w.Write([]byte(`{"responseData":{"translatedText":"Привіт","match":0.98},"responseStatus":200,"responseDetails":""}`))
	}))
	defer server.Close()

	svc := NewMyMemoryService(ServiceConfig{BaseURL: server.URL, Email: "me@example.com"})

	result, err := svc.Translate(context.Background(), TranslateRequest{Text: "Hello", SourceLang: "auto", TargetLang: "uk"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Translation != "Привіт" {
		t.Errorf("expected 'Привіт', got %q", result.Translation)
	}
	if result.DetectedLanguage != "en" {
		t.Errorf("expected detected 'en', got %q", result.DetectedLanguage)
	}
}

func TestMyMemoryService_Translate_QuotaExceeded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"responseData":{"translatedText":"MYMEMORY WARNING: YOU USED ALL AVAILABLE FREE TRANSLATIONS FOR TODAY"},"responseStatus":"429","responseDetails":"quota exceeded"}`))
	}))
	defer server.Close()

	svc := NewMyMemoryService(ServiceConfig{BaseURL: server.URL})

	_, err := svc.Translate(context.Background(), TranslateRequest{Text: "Hello", SourceLang: "en", TargetLang: "uk"})
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if netErr.StatusCode != 429 {
		t.Errorf("expected status 429, got %d", netErr.StatusCode)
	}
}

func TestMyMemoryService_Name(t *testing.T) {
	svc := NewMyMemoryService(ServiceConfig{})

	if svc.Name() != "mymemory" {
		t.Errorf("expected 'mymemory', got %q", svc.Name())
	}
}

func TestGoogleCloudService_Translate_InvalidTarget(t *testing.T) {
	svc := NewGoogleCloudService(ServiceConfig{})

	_, err := svc.Translate(context.Background(), TranslateRequest{Text: "Hello", SourceLang: "en", TargetLang: "not a language"})
	if err == nil {
		t.Error("expected error for invalid target language")
	}
}
