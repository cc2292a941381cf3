package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DefaultOverridesTable is the table Migrate creates when Config.OverridesTable is empty.
const DefaultOverridesTable = "feature_overrides"

// Querier is the subset of *pgxpool.Pool, *pgx.Conn and pgx.Tx the override
// store uses.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// SubjectFunc extracts the owner of an override from a request context.
// An empty subject stores the override globally.
type SubjectFunc func(ctx context.Context) string

// OverrideStoreOption configures an OverrideStore.
type OverrideStoreOption func(*OverrideStore)

// WithTable sets the overrides table name.
func WithTable(table string) OverrideStoreOption {
	return func(s *OverrideStore) {
		if table != "" {
			s.table = table
		}
	}
}

// WithSubject scopes overrides to the subject returned by fn.
func WithSubject(fn SubjectFunc) OverrideStoreOption {
	return func(s *OverrideStore) { s.subject = fn }
}

// OverrideStore keeps feature overrides in a (subject, key) keyed table.
// Writes are upserts, so the last write to reach the database wins.
type OverrideStore struct {
	db      Querier
	table   string
	subject SubjectFunc

	getSQL    string
	setSQL    string
	removeSQL string
}

// NewOverrideStore creates a store over db. Apply Migrate first.
func NewOverrideStore(db Querier, opts ...OverrideStoreOption) *OverrideStore {
	s := &OverrideStore{db: db, table: DefaultOverridesTable}
	for _, opt := range opts {
		opt(s)
	}

	table := quoteTable(s.table)
	s.getSQL = fmt.Sprintf(`SELECT value FROM %s WHERE subject = $1 AND key = $2`, table)
	s.setSQL = fmt.Sprintf(`INSERT INTO %s (subject, key, value, updated_at) VALUES ($1, $2, $3, now())
ON CONFLICT (subject, key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`, table)
	s.removeSQL = fmt.Sprintf(`DELETE FROM %s WHERE subject = $1 AND key = $2`, table)

	return s
}

// NewOverrideStoreFromConfig creates a store using the table from cfg.
func NewOverrideStoreFromConfig(db Querier, cfg Config, opts ...OverrideStoreOption) *OverrideStore {
	return NewOverrideStore(db, append([]OverrideStoreOption{WithTable(cfg.OverridesTable)}, opts...)...)
}

func (s *OverrideStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	if err := s.db.QueryRow(ctx, s.getSQL, s.subjectOf(ctx), key).Scan(&value); err != nil {
		if IsNotFoundError(err) {
			return "", false, nil
		}
		return "", false, errors.Join(ErrOverrideStore, err)
	}
	return value, true, nil
}

func (s *OverrideStore) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.Exec(ctx, s.setSQL, s.subjectOf(ctx), key, value); err != nil {
		return errors.Join(ErrOverrideStore, err)
	}
	return nil
}

// Remove deletes the override. Deleting a missing row is not an error.
func (s *OverrideStore) Remove(ctx context.Context, key string) error {
	if _, err := s.db.Exec(ctx, s.removeSQL, s.subjectOf(ctx), key); err != nil {
		return errors.Join(ErrOverrideStore, err)
	}
	return nil
}

func (s *OverrideStore) subjectOf(ctx context.Context) string {
	if s.subject == nil {
		return ""
	}
	return s.subject(ctx)
}

// quoteTable is shared by the store queries and Migrate so both address the
// same relation.
func quoteTable(table string) string {
	if table == "" {
		table = DefaultOverridesTable
	}
	return pgx.Identifier{table}.Sanitize()
}
