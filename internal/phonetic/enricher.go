// Package phonetic fills in missing English pronunciation guides by looking
// words up in a free dictionary service.
package phonetic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/valpere/poptran/internal/postprocess"
)

const (
	DefaultDictionaryURL = "https://api.dictionaryapi.dev"

	// MaxWords caps the number of per-word lookups for one text. Longer texts
	// are not enriched at all.
	MaxWords = 10
)

type Config struct {
	BaseURL string        `mapstructure:"base_url" json:"base_url"`
	Timeout time.Duration `mapstructure:"timeout" json:"timeout"`
}

// dictionaryEntry is one element of the dictionary API's top-level array.
type dictionaryEntry struct {
	Word      string `json:"word"`
	Phonetics []struct {
		Text  string `json:"text"`
		Audio string `json:"audio"`
	} `json:"phonetics"`
}

type Enricher struct {
	baseURL string
	client  *resty.Client
	logger  *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Enricher {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultDictionaryURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  resty.New().SetTimeout(timeout),
		logger:  logger,
	}
}

// Enrich returns an IPA transcription for English text. It never fails:
// lookup errors degrade to the cleaned word (multi-word input) or to an
// empty string (single word). Non-English text, empty text and texts longer
// than MaxWords words yield "" without any remote call. Lookups run one
// after another in word order.
func (e *Enricher) Enrich(ctx context.Context, text string, isEnglish bool) string {
	if !isEnglish {
		return ""
	}

	words := strings.Fields(text)
	switch {
	case len(words) == 0, len(words) > MaxWords:
		return ""
	case len(words) == 1:
		return e.lookupOrEmpty(ctx, postprocess.CleanWord(words[0]))
	}

	phonetics := make([]string, 0, len(words))
	for _, word := range words {
		clean := postprocess.CleanWord(word)
		if clean == "" {
			continue
		}
		if p := e.lookupOrEmpty(ctx, clean); p != "" {
			phonetics = append(phonetics, p)
		} else {
			phonetics = append(phonetics, clean)
		}
	}
	return strings.Join(phonetics, " ")
}

func (e *Enricher) lookupOrEmpty(ctx context.Context, word string) string {
	if word == "" {
		return ""
	}
	p, err := e.Lookup(ctx, word)
	if err != nil {
		e.logger.Debug("phonetic lookup failed", zap.String("word", word), zap.Error(err))
		return ""
	}
	return p
}

// Lookup returns the first transcription the dictionary has for word, with
// slash and bracket delimiters removed. A word without an entry or without
// any transcription yields "" and no error.
func (e *Enricher) Lookup(ctx context.Context, word string) (string, error) {
	var entries []dictionaryEntry
	resp, err := e.client.R().
		SetContext(ctx).
		SetPathParam("word", word).
		SetResult(&entries).
		ForceContentType("application/json").
		Get(e.baseURL + "/api/v2/entries/en/{word}")
	if err != nil {
		return "", fmt.Errorf("dictionary request failed: %w", err)
	}
	if resp.StatusCode() == 404 {
		return "", nil
	}
	if resp.IsError() {
		return "", fmt.Errorf("dictionary returned status %d", resp.StatusCode())
	}

	if len(entries) == 0 {
		return "", nil
	}

	for _, p := range entries[0].Phonetics {
		if p.Text != "" {
			return postprocess.StripTranscriptionDelimiters(p.Text), nil
		}
	}
	return "", nil
}
