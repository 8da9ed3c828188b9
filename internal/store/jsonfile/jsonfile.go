// Package jsonfile is the file-backed store. The on-disk layout is a single
// JSON document mapping user id to ledger:
//
//	{"<userID>": {"income": [{"category": ..., "amount": ..., "date": ...}],
//	              "expenses": [...]}}
//
// The layout is load-bearing: files written by earlier deployments of the
// bot must stay readable, so field names and nesting are preserved exactly.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"finbot/internal/cache"
	"finbot/internal/core"
)

const (
	cacheSize = 1024
	cacheTTL  = 10 * time.Minute
)

// Store reads and rewrites the whole document on each operation, which is
// fine at personal-usage ledger sizes. A per-user ledger cache spares the
// read path; it is invalidated on append.
type Store struct {
	mu    sync.Mutex
	path  string
	cache *cache.LRU[core.Ledger]
}

func New(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}
	return &Store{
		path:  path,
		cache: cache.NewLRU[core.Ledger](cacheSize, cacheTTL),
	}, nil
}

// Cache exposes the ledger cache for periodic expiry cleanup.
func (s *Store) Cache() *cache.LRU[core.Ledger] {
	return s.cache
}

func (s *Store) Ledger(_ context.Context, userID string) (core.Ledger, error) {
	if l, ok := s.cache.Get(userID); ok {
		return l.Clone(), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return core.Ledger{}, err
	}
	l := doc[userID].ledger()
	s.cache.Set(userID, l.Clone())
	return l, nil
}

// Append rewrites the document with the transaction added. The store-wide
// lock makes same-user appends atomic; the rewrite is staged in a temp file
// and renamed so a crash cannot leave a truncated document behind.
func (s *Store) Append(_ context.Context, userID string, side core.Side, tx core.Transaction) error {
	if err := side.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return err
	}

	rec := doc[userID]
	if rec == nil {
		rec = &userRecord{Income: []record{}, Expenses: []record{}}
		doc[userID] = rec
	}
	r := record{Category: tx.Category, Amount: tx.Amount, Date: isoTime{tx.Date}}
	if side == core.Income {
		rec.Income = append(rec.Income, r)
	} else {
		rec.Expenses = append(rec.Expenses, r)
	}

	if err := s.write(doc); err != nil {
		return err
	}
	s.cache.Delete(userID)
	return nil
}

type document map[string]*userRecord

type userRecord struct {
	Income   []record `json:"income"`
	Expenses []record `json:"expenses"`
}

type record struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Date     isoTime `json:"date"`
}

func (r *userRecord) ledger() core.Ledger {
	if r == nil {
		return core.Ledger{}
	}
	var l core.Ledger
	for _, rec := range r.Income {
		l.Income = append(l.Income, rec.transaction())
	}
	for _, rec := range r.Expenses {
		l.Expenses = append(l.Expenses, rec.transaction())
	}
	return l
}

func (r record) transaction() core.Transaction {
	return core.Transaction{Category: r.Category, Amount: r.Amount, Date: r.Date.Time}
}

func (s *Store) read() (document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}
	doc := document{}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode data file: %w", err)
	}
	return doc, nil
}

func (s *Store) write(doc document) error {
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("encode data file: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write data file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}

// isoTime marshals as RFC 3339 and unmarshals both RFC 3339 values and the
// zone-less ISO-8601 timestamps found in files written by older deployments
// of the bot.
type isoTime struct {
	time.Time
}

const legacyLayout = "2006-01-02T15:04:05.999999999"

func (t isoTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(time.RFC3339Nano))
}

func (t *isoTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t.Time = parsed
		return nil
	}
	parsed, err := time.ParseInLocation(legacyLayout, s, time.Local)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}
