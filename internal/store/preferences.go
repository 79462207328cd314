package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Preference keys.
const (
	KeySourceLang         = "sourceLang"
	KeyTargetLang         = "targetLang"
	KeyTranslationService = "translationService"
)

// ErrSwapAutoSource is returned when swapping while the source is "auto".
var ErrSwapAutoSource = errors.New("cannot swap languages while source is auto-detect")

// Preferences is the user's last language and provider selection.
type Preferences struct {
	SourceLang string `json:"sourceLang"`
	TargetLang string `json:"targetLang"`
	Service    string `json:"translationService"`
}

func validKey(key string) bool {
	switch key {
	case KeySourceLang, KeyTargetLang, KeyTranslationService:
		return true
	}
	return false
}

// GetPreference returns the stored value for key.
func (s *Store) GetPreference(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetPreference stores value under key; the last write wins.
func (s *Store) SetPreference(ctx context.Context, key, value string) error {
	if !validKey(key) {
		return fmt.Errorf("unknown preference %q", key)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now())
	return err
}

// GetPreferences returns stored preferences, using defaults for unset keys.
func (s *Store) GetPreferences(ctx context.Context, defaults Preferences) (Preferences, error) {
	prefs := defaults
	for key, dst := range map[string]*string{
		KeySourceLang:         &prefs.SourceLang,
		KeyTargetLang:         &prefs.TargetLang,
		KeyTranslationService: &prefs.Service,
	} {
		value, ok, err := s.GetPreference(ctx, key)
		if err != nil {
			return defaults, err
		}
		if ok {
			*dst = value
		}
	}
	return prefs, nil
}

// SavePreferences writes every non-empty field in one transaction.
func (s *Store) SavePreferences(ctx context.Context, prefs Preferences) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	for key, value := range map[string]string{
		KeySourceLang:         prefs.SourceLang,
		KeyTargetLang:         prefs.TargetLang,
		KeyTranslationService: prefs.Service,
	} {
		if value == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			key, value, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// SwapLanguages exchanges the stored source and target languages. Swapping
// is refused while the source is "auto".
func (s *Store) SwapLanguages(ctx context.Context, defaults Preferences) (Preferences, error) {
	prefs, err := s.GetPreferences(ctx, defaults)
	if err != nil {
		return prefs, err
	}
	if prefs.SourceLang == "auto" || prefs.SourceLang == "" {
		return prefs, ErrSwapAutoSource
	}

	prefs.SourceLang, prefs.TargetLang = prefs.TargetLang, prefs.SourceLang
	if err := s.SavePreferences(ctx, Preferences{SourceLang: prefs.SourceLang, TargetLang: prefs.TargetLang}); err != nil {
		return prefs, err
	}
	return prefs, nil
}
