// Package adapter is the single entry point for translations. It routes a
// request to the selected provider's fallback chain and fills in English
// phonetics the provider did not supply.
package adapter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/valpere/poptran/internal/orchestrator"
	"github.com/valpere/poptran/internal/translator"
)

var (
	ErrEmptyText      = errors.New("text to translate is empty")
	ErrMissingTarget  = errors.New("target language is required")
	ErrAutoTargetLang = errors.New("target language cannot be auto")
)

// Enricher supplies a phonetic transcription for English text.
type Enricher interface {
	Enrich(ctx context.Context, text string, isEnglish bool) string
}

// Services holds the provider implementations. Nil entries are left out of
// the chains; Google is the common fallback and should always be set.
type Services struct {
	Google         translator.TranslationService
	Gemini         translator.TranslationService
	LibreTranslate []translator.TranslationService
	MyMemory       translator.TranslationService
	GoogleCloud    translator.TranslationService
}

type Adapter struct {
	chains   map[string]*orchestrator.Chain
	enricher Enricher
	logger   *zap.Logger
}

// New wires the fallback chains:
//
//	google         google
//	gemini         gemini -> google
//	libretranslate mirror 1 -> ... -> mirror n -> google
//	mymemory       mymemory
//	googlecloud    googlecloud -> google
//
// enricher may be nil to disable phonetic enrichment.
func New(services Services, enricher Enricher, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}

	libre := append([]translator.TranslationService{}, services.LibreTranslate...)
	libre = append(libre, services.Google)

	return &Adapter{
		chains: map[string]*orchestrator.Chain{
			translator.ProviderGoogle:         orchestrator.NewChain(translator.ProviderGoogle, logger, services.Google),
			translator.ProviderGemini:         orchestrator.NewChain(translator.ProviderGemini, logger, services.Gemini, services.Google),
			translator.ProviderLibreTranslate: orchestrator.NewChain(translator.ProviderLibreTranslate, logger, libre...),
			translator.ProviderMyMemory:       orchestrator.NewChain(translator.ProviderMyMemory, logger, services.MyMemory),
			translator.ProviderGoogleCloud:    orchestrator.NewChain(translator.ProviderGoogleCloud, logger, services.GoogleCloud, services.Google),
		},
		enricher: enricher,
		logger:   logger,
	}
}

// Chain returns the fallback chain used for provider.
func (a *Adapter) Chain(provider string) *orchestrator.Chain {
	return a.chains[translator.ResolveProvider(provider)]
}

// Translate translates text from sourceLang ("auto" allowed) to targetLang
// with the given provider. It returns either a result with a non-empty
// translation or an error; provider failures surface as
// *orchestrator.ProviderExhaustedError. No state is kept between calls.
func (a *Adapter) Translate(ctx context.Context, text, sourceLang, targetLang, provider string) (*translator.Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	targetLang = strings.TrimSpace(targetLang)
	if targetLang == "" {
		return nil, ErrMissingTarget
	}
	if targetLang == translator.AutoDetect {
		return nil, ErrAutoTargetLang
	}
	sourceLang = strings.TrimSpace(sourceLang)
	if sourceLang == "" {
		sourceLang = translator.AutoDetect
	}

	name := translator.ResolveProvider(provider)
	req := translator.TranslateRequest{
		Text:       text,
		SourceLang: sourceLang,
		TargetLang: targetLang,
	}

	res, err := a.chains[name].Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(res.Translation) == "" {
		return nil, fmt.Errorf("%s: %w", name, &translator.ParseError{Service: res.ServiceName, Err: errors.New("empty translation")})
	}

	out := *res
	a.enrich(ctx, req, &out)
	return &out, nil
}

// enrich fills English phonetics the provider left empty.
func (a *Adapter) enrich(ctx context.Context, req translator.TranslateRequest, res *translator.Result) {
	if a.enricher == nil {
		return
	}

	resolvedSource := req.SourceLang
	if resolvedSource == translator.AutoDetect {
		resolvedSource = res.DetectedLanguage
	}

	if res.SourcePhonetic == "" && isEnglish(resolvedSource) {
		res.SourcePhonetic = a.enricher.Enrich(ctx, req.Text, true)
	}
	if res.TargetPhonetic == "" && isEnglish(req.TargetLang) {
		res.TargetPhonetic = a.enricher.Enrich(ctx, res.Translation, true)
	}
}

func isEnglish(lang string) bool {
	return lang == "en"
}
