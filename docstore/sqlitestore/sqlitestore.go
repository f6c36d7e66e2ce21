// Package sqlitestore provides a SQLite implementation of docstore.Store.
// Documents are stored as JSON rows keyed by (collection, id).
//
// Examples:
//
//	store := sqlitestore.New("file:ordergate.db")
//	store := sqlitestore.New(":memory:")
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mattn/go-sqlite3"

	"github.com/maxline/ordergate/docstore"
	"github.com/maxline/ordergate/errors"
)

// Option is a functional option for configuring the store.
type Option func(*store)

// WithTableName overrides the default table name of "documents".
func WithTableName(tableName string) Option {
	return func(s *store) {
		s.tableName = tableName
	}
}

// New returns a store backed by SQLite. The table is created optimistically
// on initialization; any error there is considered non-recoverable and will
// panic.
func New(conn string, opts ...Option) docstore.Store {
	db, err := sql.Open("sqlite3", conn)
	if err != nil {
		panic("failed to open sqlite connection: " + err.Error())
	}
	s := &store{
		db:        db,
		tableName: "documents",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ensureTable()
	return s
}

type store struct {
	db *sql.DB

	tableName string
}

func (s *store) Get(ctx context.Context, collection, id string) (map[string]interface{}, error) {
	query := "SELECT value FROM " + s.tableName + " WHERE collection = ? AND id = ?"
	row := s.db.QueryRowContext(ctx, query, collection, id)

	var value []byte
	if err := row.Scan(&value); err != nil {
		return nil, translateError(err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(value, &doc); err != nil {
		return nil, errors.WrapPrefix(err, "corrupt document")
	}
	return doc, nil
}

func (s *store) Create(ctx context.Context, collection, id string, doc map[string]interface{}) error {
	value, err := json.Marshal(doc)
	if err != nil {
		return errors.WrapPrefix(err, "marshaling document")
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO "+s.tableName+" (collection, id, value) VALUES (?, ?, ?)",
		collection, id, value)
	return translateError(err)
}

func (s *store) Set(ctx context.Context, collection, id string, doc map[string]interface{}) error {
	value, err := json.Marshal(doc)
	if err != nil {
		return errors.WrapPrefix(err, "marshaling document")
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE "+s.tableName+" SET value = ?, updated_at = CURRENT_TIMESTAMP WHERE collection = ? AND id = ?",
		value, collection, id)
	if err != nil {
		return translateError(err)
	}
	if n, err := res.RowsAffected(); n == 0 || err != nil {
		return docstore.ErrNotFound
	}
	return nil
}

func (s *store) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM "+s.tableName+" WHERE collection = ? AND id = ?",
		collection, id)
	if err != nil {
		return translateError(err)
	}
	if n, err := res.RowsAffected(); n == 0 || err != nil {
		return docstore.ErrNotFound
	}
	return nil
}

func (s *store) List(ctx context.Context, collection string, filter map[string]interface{}) ([]docstore.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, value FROM "+s.tableName+" WHERE collection = ? ORDER BY id",
		collection)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var snaps []docstore.Snapshot
	for rows.Next() {
		var id string
		var value []byte
		if err := rows.Scan(&id, &value); err != nil {
			return nil, translateError(err)
		}
		var doc map[string]interface{}
		if err := json.Unmarshal(value, &doc); err != nil {
			return nil, errors.WrapPrefix(err, "corrupt document")
		}
		if docstore.MatchesFilter(doc, filter) {
			snaps = append(snaps, docstore.Snapshot{ID: id, Data: doc})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err)
	}
	return snaps, nil
}

func (s *store) ensureTable() {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS ` + s.tableName + ` (
		collection TEXT,
		id TEXT,
		value BLOB,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (collection, id)
	);`)
	if err != nil {
		panic("failed to create table: " + err.Error())
	}
}

func translateError(err error) error {
	if err == sql.ErrNoRows {
		return docstore.ErrNotFound
	}
	if sqlErr, ok := err.(sqlite3.Error); ok {
		switch sqlErr.Code {
		case sqlite3.ErrNotFound:
			return docstore.ErrNotFound
		case sqlite3.ErrConstraint:
			return docstore.ErrAlreadyExists
		}
	}
	return err
}
