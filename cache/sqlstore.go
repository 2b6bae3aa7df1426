package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// SQLStore is the shared Store for multi-process deployments, backed by
// any database/sql driver. Entries live in a single table keyed by
// (cache_key, cache_tag). The store issues portable SQL with "?"
// placeholders; drivers using numbered placeholders (e.g. Postgres)
// need WithDollarPlaceholders.
type SQLStore struct {
	db      *sql.DB
	table   string
	dollars bool
}

// SQLOption configures an SQLStore.
type SQLOption func(*SQLStore)

// WithTable overrides the cache table name (default "warden_cache").
func WithTable(name string) SQLOption {
	return func(s *SQLStore) { s.table = name }
}

// WithDollarPlaceholders rewrites "?" placeholders to $1..$n for
// drivers that require them.
func WithDollarPlaceholders() SQLOption {
	return func(s *SQLStore) { s.dollars = true }
}

// NewSQLStore returns a store over the given database handle.
func NewSQLStore(db *sql.DB, opts ...SQLOption) *SQLStore {
	s := &SQLStore{db: db, table: "warden_cache"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureTable creates the cache table if it does not exist. The DDL
// uses TEXT/BLOB column types and suits SQLite and MySQL; on other
// databases create an equivalent table up front.
func (s *SQLStore) EnsureTable(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (cache_key TEXT NOT NULL, cache_tag TEXT NOT NULL, payload BLOB NOT NULL, PRIMARY KEY (cache_key, cache_tag))",
		s.table,
	))
	return err
}

// Get implements Store.
func (s *SQLStore) Get(ctx context.Context, key, tag string) ([]byte, bool, error) {
	query := s.rebind(fmt.Sprintf("SELECT payload FROM %s WHERE cache_key = ? AND cache_tag = ?", s.table))
	var payload []byte
	err := s.db.QueryRowContext(ctx, query, key, tag).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

// Put implements Store. The overwrite runs as delete-then-insert inside
// a transaction to stay portable across upsert dialects.
func (s *SQLStore) Put(ctx context.Context, key, tag string, payload []byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	del := s.rebind(fmt.Sprintf("DELETE FROM %s WHERE cache_key = ? AND cache_tag = ?", s.table))
	if _, err := tx.ExecContext(ctx, del, key, tag); err != nil {
		return errors.Join(err, tx.Rollback())
	}
	ins := s.rebind(fmt.Sprintf("INSERT INTO %s (cache_key, cache_tag, payload) VALUES (?, ?, ?)", s.table))
	if _, err := tx.ExecContext(ctx, ins, key, tag, payload); err != nil {
		return errors.Join(err, tx.Rollback())
	}
	return tx.Commit()
}

// Evict implements Store. All keys go out in one statement.
func (s *SQLStore) Evict(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(keys)), ", ")
	query := s.rebind(fmt.Sprintf("DELETE FROM %s WHERE cache_key IN (%s)", s.table, placeholders))
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	_, err := s.db.ExecContext(ctx, query, args...)
	return err
}

// rebind rewrites "?" placeholders to "$n" when configured.
func (s *SQLStore) rebind(query string) string {
	if !s.dollars {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}
		sb.WriteRune(ch)
	}
	return sb.String()
}

var _ Store = (*SQLStore)(nil)
