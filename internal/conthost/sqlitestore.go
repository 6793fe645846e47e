package conthost

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/nickelm/golemcraft-worldgen/internal/worlddata"
)

// SQLiteStore is a reference Store implementation backed by a single
// SQLite database file, one row per continent for metadata and one row
// per (continent, texture type) for texture blobs.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// OpenSQLiteStore opens (creating if necessary) a SQLite-backed Store at
// path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("conthost: failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("conthost: failed to set pragma %q: %w", pragma, err)
		}
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS continent_metadata (
			world_id TEXT NOT NULL,
			continent_id TEXT NOT NULL,
			record_json BLOB NOT NULL,
			PRIMARY KEY (world_id, continent_id)
		);

		CREATE TABLE IF NOT EXISTS continent_textures (
			world_id TEXT NOT NULL,
			continent_id TEXT NOT NULL,
			texture_type TEXT NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			channels INTEGER NOT NULL,
			bounds_min_x REAL NOT NULL,
			bounds_max_x REAL NOT NULL,
			bounds_min_z REAL NOT NULL,
			bounds_max_z REAL NOT NULL,
			format TEXT NOT NULL,
			data BLOB NOT NULL,
			PRIMARY KEY (world_id, continent_id, texture_type)
		);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("conthost: failed to create schema: %w", err)
	}
	return nil
}

// SaveContinentMetadata upserts the metadata record for its (worldId,
// continentId) pair.
func (s *SQLiteStore) SaveContinentMetadata(rec worlddata.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := worlddata.MarshalRecord(rec)
	if err != nil {
		return fmt.Errorf("conthost: failed to marshal record: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO continent_metadata (world_id, continent_id, record_json) VALUES (?, ?, ?)
		 ON CONFLICT(world_id, continent_id) DO UPDATE SET record_json = excluded.record_json`,
		rec.WorldID, rec.ContinentID, data,
	)
	if err != nil {
		return fmt.Errorf("conthost: failed to save metadata: %w", err)
	}
	return nil
}

// SaveTexture upserts a single baked texture blob.
func (s *SQLiteStore) SaveTexture(rec worlddata.TextureRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO continent_textures
			(world_id, continent_id, texture_type, width, height, channels,
			 bounds_min_x, bounds_max_x, bounds_min_z, bounds_max_z, format, data)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(world_id, continent_id, texture_type) DO UPDATE SET
			width = excluded.width, height = excluded.height, channels = excluded.channels,
			bounds_min_x = excluded.bounds_min_x, bounds_max_x = excluded.bounds_max_x,
			bounds_min_z = excluded.bounds_min_z, bounds_max_z = excluded.bounds_max_z,
			format = excluded.format, data = excluded.data`,
		rec.WorldID, rec.ContinentID, string(rec.TextureType),
		rec.Width, rec.Height, rec.Channels,
		rec.Bounds.MinX, rec.Bounds.MaxX, rec.Bounds.MinZ, rec.Bounds.MaxZ,
		rec.Format, rec.Data,
	)
	if err != nil {
		return fmt.Errorf("conthost: failed to save texture: %w", err)
	}
	return nil
}

// GetContinentMetadata returns the stored record, or ok=false if none
// exists yet for (worldId, continentId).
func (s *SQLiteStore) GetContinentMetadata(worldID, continentID string) (worlddata.Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var data []byte
	err := s.db.QueryRow(
		`SELECT record_json FROM continent_metadata WHERE world_id = ? AND continent_id = ?`,
		worldID, continentID,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return worlddata.Record{}, false, nil
	}
	if err != nil {
		return worlddata.Record{}, false, fmt.Errorf("conthost: failed to query metadata: %w", err)
	}

	rec, err := worlddata.UnmarshalRecord(data)
	if err != nil {
		return worlddata.Record{}, false, fmt.Errorf("conthost: failed to unmarshal record: %w", err)
	}
	return rec, true, nil
}

// NeedsRegeneration reports whether no metadata is stored yet, or the
// stored schema version differs from the current one — both cases call for a
// full regeneration rather than a partial one.
func (s *SQLiteStore) NeedsRegeneration(worldID, continentID string) (bool, error) {
	rec, ok, err := s.GetContinentMetadata(worldID, continentID)
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	return rec.Version != worlddata.SchemaVersion, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("conthost: failed to close database: %w", err)
	}
	return nil
}
