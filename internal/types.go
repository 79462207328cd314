package internal

import "time"

// TranslationRequest is one translate invocation as recorded in history.
type TranslationRequest struct {
	ID          string    `json:"id"`
	SourceText  string    `json:"source_text"`
	SourceLang  string    `json:"source_lang"`
	TargetLang  string    `json:"target_lang"`
	Provider    string    `json:"provider"`
	ServedBy    string    `json:"served_by"`
	Translation string    `json:"translation"`
	Error       string    `json:"error,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
