package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrEntryNotFound is returned when a memory entry ID matches no row.
var ErrEntryNotFound = errors.New("translation memory entry not found")

// MemoryEntry is one cached translation as shown by the cache commands.
type MemoryEntry struct {
	ID          string
	SourceText  string
	SourceLang  string
	TargetLang  string
	Provider    string
	ServiceUsed string
	Translation string
	UsageCount  int
	Invalidated bool
	LastUsed    time.Time
}

// CacheStats counts memory entries overall and per requested provider.
type CacheStats struct {
	TotalEntries   int
	ActiveEntries  int
	InvalidEntries int
	TotalUsage     int
	ByProvider     map[string]int
}

// MemoryFilter narrows ListMemory. Zero values match everything.
type MemoryFilter struct {
	Provider string
	Limit    int
}

// InvalidateMemory keeps the entry but stops it from being served.
func (s *Store) InvalidateMemory(ctx context.Context, id string) error {
	return s.execByID(ctx, `UPDATE translation_memory SET invalidated = TRUE WHERE id = ?`, id)
}

func (s *Store) DeleteMemory(ctx context.Context, id string) error {
	return s.execByID(ctx, `DELETE FROM translation_memory WHERE id = ?`, id)
}

func (s *Store) execByID(ctx context.Context, query, id string) error {
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", id, ErrEntryNotFound)
	}
	return nil
}

// ClearMemory empties the memory and reports how many entries were dropped.
func (s *Store) ClearMemory(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM translation_memory`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListMemory returns entries most recently used first.
func (s *Store) ListMemory(ctx context.Context, filter MemoryFilter) ([]MemoryEntry, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.Provider != "" {
		where = append(where, "provider = ?")
		args = append(args, filter.Provider)
	}

	query := `SELECT id, source_text, source_lang, target_lang, provider, COALESCE(service_used, ''),
		translation, usage_count, invalidated, last_used FROM translation_memory`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY last_used DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []MemoryEntry
	for rows.Next() {
		var e MemoryEntry
		err := rows.Scan(&e.ID, &e.SourceText, &e.SourceLang, &e.TargetLang, &e.Provider,
			&e.ServiceUsed, &e.Translation, &e.UsageCount, &e.Invalidated, &e.LastUsed)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Stats aggregates the memory per provider and validity.
func (s *Store) Stats(ctx context.Context) (*CacheStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT provider, invalidated, COUNT(*), COALESCE(SUM(usage_count), 0)
		FROM translation_memory
		GROUP BY provider, invalidated`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &CacheStats{ByProvider: map[string]int{}}
	for rows.Next() {
		var (
			provider     string
			invalidated  bool
			count, usage int
		)
		if err := rows.Scan(&provider, &invalidated, &count, &usage); err != nil {
			return nil, err
		}
		stats.TotalEntries += count
		stats.TotalUsage += usage
		stats.ByProvider[provider] += count
		if invalidated {
			stats.InvalidEntries += count
		} else {
			stats.ActiveEntries += count
		}
	}
	return stats, rows.Err()
}
