// Package postprocess normalizes raw text returned by remote services before
// it is parsed or shown: LLM code fences, dictionary transcription delimiters
// and word punctuation.
package postprocess

import (
	"regexp"
	"strings"
)

// codeFenceRe matches an opening ```json fence with trailing whitespace, or any
// fence with leading whitespace. LLMs wrap JSON answers in these even when told
// not to.
var codeFenceRe = regexp.MustCompile("```json\\s*|\\s*```")

// StripCodeFences removes markdown code fences from text and trims the result.
func StripCodeFences(text string) string {
	return strings.TrimSpace(codeFenceRe.ReplaceAllString(text, ""))
}

// transcriptionDelimiterRe matches the /…/ and […] markers dictionaries put
// around IPA strings.
var transcriptionDelimiterRe = regexp.MustCompile(`[/\[\]]`)

// StripTranscriptionDelimiters turns "/həˈləʊ/" or "[həˈləʊ]" into "həˈləʊ".
func StripTranscriptionDelimiters(text string) string {
	return transcriptionDelimiterRe.ReplaceAllString(text, "")
}

var wordPunctuationRe = regexp.MustCompile(`[.,!?;:'"()]`)

// CleanWord strips sentence punctuation from a single word and lowercases it,
// producing a dictionary lookup key.
func CleanWord(word string) string {
	return strings.ToLower(wordPunctuationRe.ReplaceAllString(word, ""))
}
