// Package store persists taxonomy and translation cache snapshots in
// SQLite so a process restart can skip rebuilding from the knowledge base.
// The snapshot payloads are opaque JSON blobs; the caches own their own
// export formats.
package store

import (
	"database/sql"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/ontokit/axigen/db"
	"github.com/ontokit/axigen/errors"
	"github.com/ontokit/axigen/taxonomy"
	"github.com/ontokit/axigen/trans"
)

const schema = `
CREATE TABLE IF NOT EXISTS taxonomy_snapshots (
	kb_name    TEXT PRIMARY KEY,
	payload    BLOB NOT NULL,
	updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS translation_snapshots (
	kb_name    TEXT PRIMARY KEY,
	payload    BLOB NOT NULL,
	updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`

// Store is a snapshot repository over one SQLite database.
type Store struct {
	conn   *sql.DB
	logger *zap.SugaredLogger
}

// Open opens (creating if needed) the snapshot database at path.
func Open(path string, log *zap.SugaredLogger) (*Store, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	conn, err := db.Open(path, log)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "create snapshot schema")
	}
	return &Store{conn: conn, logger: log}, nil
}

// NewWithConn wraps an existing connection; the caller keeps ownership of
// schema creation. Used by tests that inject a mock connection.
func NewWithConn(conn *sql.DB, log *zap.SugaredLogger) *Store {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Store{conn: conn, logger: log}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.conn.Close()
}

// SaveTaxonomy persists a taxonomy snapshot for one knowledge base,
// replacing any previous snapshot.
func (s *Store) SaveTaxonomy(kbName string, snap *taxonomy.Snapshot) error {
	return s.save("taxonomy_snapshots", kbName, snap)
}

// LoadTaxonomy restores the taxonomy snapshot for kbName. Returns
// ErrNotFound when no snapshot exists; callers rebuild from the knowledge
// base in that case.
func (s *Store) LoadTaxonomy(kbName string) (*taxonomy.Snapshot, error) {
	var snap taxonomy.Snapshot
	if err := s.load("taxonomy_snapshots", kbName, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// SaveTranslations persists the translation cache for one knowledge base.
func (s *Store) SaveTranslations(kbName string, snap *trans.CacheSnapshot) error {
	return s.save("translation_snapshots", kbName, snap)
}

// LoadTranslations restores the translation cache snapshot for kbName.
// Returns ErrNotFound when no snapshot exists.
func (s *Store) LoadTranslations(kbName string) (*trans.CacheSnapshot, error) {
	var snap trans.CacheSnapshot
	if err := s.load("translation_snapshots", kbName, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *Store) save(table, kbName string, snap interface{}) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return errors.Wrapf(err, "marshal %s snapshot", table)
	}
	_, err = s.conn.Exec(
		"INSERT INTO "+table+" (kb_name, payload, updated_at) VALUES (?, ?, datetime('now')) "+
			"ON CONFLICT(kb_name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at",
		kbName, payload)
	if err != nil {
		return errors.Wrapf(err, "save %s for %s", table, kbName)
	}
	s.logger.Debugw("Snapshot saved", "table", table, "kb", kbName, "bytes", len(payload))
	return nil
}

func (s *Store) load(table, kbName string, out interface{}) error {
	var payload []byte
	err := s.conn.QueryRow(
		"SELECT payload FROM "+table+" WHERE kb_name = ?", kbName).Scan(&payload)
	if err == sql.ErrNoRows {
		return errors.Wrapf(errors.ErrNotFound, "%s for %s", table, kbName)
	}
	if err != nil {
		return errors.Wrapf(err, "load %s for %s", table, kbName)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return errors.Wrapf(err, "unmarshal %s for %s", table, kbName)
	}
	return nil
}
