package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"

	"github.com/valpere/poptran/internal"
	"github.com/valpere/poptran/internal/translator"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS preferences (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS translation_requests (
		id TEXT PRIMARY KEY,
		source_text TEXT NOT NULL,
		source_lang TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		provider TEXT NOT NULL,
		served_by TEXT,
		translation TEXT,
		error TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS translation_memory (
		id TEXT PRIMARY KEY,
		source_text TEXT NOT NULL,
		source_lang TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		provider TEXT NOT NULL,
		service_used TEXT,
		translation TEXT NOT NULL,
		source_phonetic TEXT,
		target_phonetic TEXT,
		detected_lang TEXT,
		usage_count INTEGER DEFAULT 1,
		invalidated BOOLEAN DEFAULT FALSE,
		last_used TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(source_text, source_lang, target_lang, provider)
	);

	CREATE INDEX IF NOT EXISTS idx_memory_lookup ON translation_memory(source_text, source_lang, target_lang, provider);
	CREATE INDEX IF NOT EXISTS idx_requests_created ON translation_requests(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// --- history ---

func (s *Store) SaveRequest(ctx context.Context, req internal.TranslationRequest) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO translation_requests (id, source_text, source_lang, target_lang, provider, served_by, translation, error, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.ID, req.SourceText, req.SourceLang, req.TargetLang, req.Provider, req.ServedBy, req.Translation, req.Error, req.Timestamp)
	return err
}

// ListHistory returns the most recent requests first. limit <= 0 returns all.
func (s *Store) ListHistory(ctx context.Context, limit int) ([]internal.TranslationRequest, error) {
	query := `SELECT id, source_text, source_lang, target_lang, provider, COALESCE(served_by, ''), COALESCE(translation, ''), COALESCE(error, ''), created_at FROM translation_requests ORDER BY created_at DESC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []internal.TranslationRequest
	for rows.Next() {
		var r internal.TranslationRequest
		if err := rows.Scan(&r.ID, &r.SourceText, &r.SourceLang, &r.TargetLang, &r.Provider, &r.ServedBy, &r.Translation, &r.Error, &r.Timestamp); err != nil {
			return nil, err
		}
		history = append(history, r)
	}
	return history, rows.Err()
}

// --- translation memory ---

// GetCachedResult returns a previously stored result for the exact request.
// Invalidated entries are treated as misses.
func (s *Store) GetCachedResult(ctx context.Context, sourceText, sourceLang, targetLang, provider string) (*translator.Result, bool, error) {
	var res translator.Result
	var invalidated bool

	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(service_used, ''), translation, COALESCE(source_phonetic, ''), COALESCE(target_phonetic, ''), COALESCE(detected_lang, ''), invalidated
		 FROM translation_memory WHERE source_text = ? AND source_lang = ? AND target_lang = ? AND provider = ?`,
		normalizeText(sourceText), sourceLang, targetLang, provider).Scan(
		&res.ServiceName, &res.Translation, &res.SourcePhonetic, &res.TargetPhonetic, &res.DetectedLanguage, &invalidated)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if invalidated {
		return nil, false, nil
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE translation_memory SET usage_count = usage_count + 1, last_used = ? WHERE source_text = ? AND source_lang = ? AND target_lang = ? AND provider = ?`,
		time.Now(), normalizeText(sourceText), sourceLang, targetLang, provider)

	return &res, true, err
}

func (s *Store) SaveToMemory(ctx context.Context, sourceText, sourceLang, targetLang, provider string, res *translator.Result) error {
	id := "mem_" + uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO translation_memory (id, source_text, source_lang, target_lang, provider, service_used, translation, source_phonetic, target_phonetic, detected_lang, usage_count, invalidated, last_used, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, FALSE, ?, ?)`,
		id, normalizeText(sourceText), sourceLang, targetLang, provider,
		res.ServiceName, res.Translation, res.SourcePhonetic, res.TargetPhonetic, res.DetectedLanguage,
		time.Now(), time.Now())
	return err
}

// normalizeText trims whitespace, collapses inner runs of whitespace and
// applies Unicode NFC normalization for consistent cache key comparison.
func normalizeText(text string) string {
	return norm.NFC.String(strings.Join(strings.Fields(text), " "))
}
