// Package detector guesses the language of a text locally, without a remote
// call. It backs the "auto" source language for providers that do not report
// what they detected.
package detector

import (
	"fmt"
	"strings"

	"github.com/abadojack/whatlanggo"
	lingua "github.com/pemistahl/lingua-go"
)

const (
	// BackendLingua is accurate on short texts but slow to build.
	BackendLingua = "lingua"
	// BackendWhatlang is a lightweight trigram detector.
	BackendWhatlang = "whatlanggo"
	BackendNone     = "none"
)

type Detector struct {
	backend  string
	detector lingua.LanguageDetector
}

// New builds a detector for backend. BackendNone and "" yield (nil, nil);
// lingua is only built when asked for by name.
func New(backend string) (*Detector, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendLingua:
		detector := lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			Build()
		return &Detector{backend: BackendLingua, detector: detector}, nil
	case BackendWhatlang:
		return &Detector{backend: BackendWhatlang}, nil
	case BackendNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown detector backend %q", backend)
	}
}

func (d *Detector) Backend() string {
	return d.backend
}

// DetectISO returns the lowercase ISO 639-1 code of text.
func (d *Detector) DetectISO(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}

	if d.backend == BackendWhatlang {
		info := whatlanggo.Detect(text)
		code := info.Lang.Iso6391()
		if code == "" {
			return "", false
		}
		return code, true
	}

	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	code := lang.IsoCode639_1().String()
	if code == "" || code == "UNKNOWN" {
		return "", false
	}
	return strings.ToLower(code), true
}
