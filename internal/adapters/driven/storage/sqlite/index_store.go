package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/pdfchat/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/logger"
)

// DatabaseFile is the name of the database inside the index directory.
const DatabaseFile = "index.db"

// Metadata keys stored in index_meta.
const (
	metaDimensions     = "dimensions"
	metaEmbeddingModel = "embedding_model"
	metaChunkCount     = "chunk_count"
	metaChunkSize      = "chunk_size"
	metaOverlap        = "overlap"
	metaBuiltAt        = "built_at"
)

const (
	tempInfix = ".tmp-"
	oldInfix  = ".old-"
)

// Ensure IndexStore implements the interface.
var _ driven.IndexStore = (*IndexStore)(nil)

// IndexStore saves and loads index snapshots in a directory.
type IndexStore struct {
	path string
}

// NewIndexStore creates a store for the index directory at path.
// If path is empty, defaults to faiss_index in the working directory.
func NewIndexStore(path string) *IndexStore {
	if path == "" {
		path = domain.DefaultIndexPath
	}
	return &IndexStore{path: filepath.Clean(path)}
}

// Path returns the index directory.
func (s *IndexStore) Path() string {
	return s.path
}

// Save writes snapshot to a fresh directory and swaps it into place.
// If anything fails before the swap, the previously saved index is untouched.
func (s *IndexStore) Save(ctx context.Context, snapshot *driven.IndexSnapshot) error {
	if snapshot == nil || len(snapshot.Chunks) == 0 {
		return fmt.Errorf("%w: empty index snapshot", domain.ErrInvalidInput)
	}

	s.removeStale()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating index parent directory: %w", err)
	}

	tmp := s.path + tempInfix + uuid.New().String()
	if err := os.Mkdir(tmp, 0755); err != nil {
		return fmt.Errorf("creating temporary index directory: %w", err)
	}

	if err := writeDatabase(ctx, filepath.Join(tmp, DatabaseFile), snapshot); err != nil {
		_ = os.RemoveAll(tmp)
		return err
	}

	if err := s.swap(tmp); err != nil {
		_ = os.RemoveAll(tmp)
		return err
	}

	logger.Debug("index: saved %d chunks to %s", len(snapshot.Chunks), s.path)
	return nil
}

// swap moves dir into place, moving any existing index aside first.
func (s *IndexStore) swap(dir string) error {
	old := ""
	if _, err := os.Stat(s.path); err == nil {
		old = s.path + oldInfix + uuid.New().String()
		if err := os.Rename(s.path, old); err != nil {
			return fmt.Errorf("moving previous index aside: %w", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking index directory: %w", err)
	}

	if err := os.Rename(dir, s.path); err != nil {
		if old != "" {
			if restoreErr := os.Rename(old, s.path); restoreErr != nil {
				logger.Warn("index: could not restore previous index from %s: %v", old, restoreErr)
			}
		}
		return fmt.Errorf("moving new index into place: %w", err)
	}

	if old != "" {
		if err := os.RemoveAll(old); err != nil {
			logger.Warn("index: could not remove previous index %s: %v", old, err)
		}
	}
	return nil
}

// removeStale deletes directories left behind by interrupted saves.
func (s *IndexStore) removeStale() {
	for _, infix := range []string{tempInfix, oldInfix} {
		matches, err := filepath.Glob(s.path + infix + "*")
		if err != nil {
			continue
		}
		for _, m := range matches {
			logger.Debug("index: removing stale directory %s", m)
			_ = os.RemoveAll(m)
		}
	}
}

// Load reads the saved index.
// Returns domain.ErrNotFound if no index has been saved.
func (s *IndexStore) Load(ctx context.Context) (*driven.IndexSnapshot, error) {
	dbPath := filepath.Join(s.path, DatabaseFile)
	if _, err := os.Stat(dbPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: no index at %s", domain.ErrNotFound, s.path)
		}
		return nil, fmt.Errorf("checking index database: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=query_only(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening index database: %w", err)
	}
	defer db.Close()

	meta, err := readMeta(ctx, db)
	if err != nil {
		return nil, err
	}

	info := domain.IndexInfo{
		Path:           s.path,
		EmbeddingModel: meta[metaEmbeddingModel],
	}
	ints := map[string]*int{
		metaDimensions: &info.Dimensions,
		metaChunkCount: &info.Chunks,
		metaChunkSize:  &info.ChunkSize,
		metaOverlap:    &info.Overlap,
	}
	for key, dst := range ints {
		v, err := strconv.Atoi(meta[key])
		if err != nil {
			return nil, fmt.Errorf("reading index metadata %s: %w", key, err)
		}
		*dst = v
	}
	if info.BuiltAt, err = time.Parse(time.RFC3339Nano, meta[metaBuiltAt]); err != nil {
		return nil, fmt.Errorf("reading index metadata %s: %w", metaBuiltAt, err)
	}

	chunks, err := readChunks(ctx, db, info.Dimensions)
	if err != nil {
		return nil, err
	}
	if len(chunks) != info.Chunks {
		return nil, fmt.Errorf("index at %s is incomplete: %d of %d chunks", s.path, len(chunks), info.Chunks)
	}

	return &driven.IndexSnapshot{Info: info, Chunks: chunks}, nil
}

// writeDatabase creates a database at path holding snapshot.
func writeDatabase(ctx context.Context, path string, snapshot *driven.IndexSnapshot) error {
	// The database is written once, so a rollback journal leaves no side files behind.
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(DELETE)&_pragma=synchronous(FULL)")
	if err != nil {
		return fmt.Errorf("opening index database: %w", err)
	}

	if err := migrate(db, migrations.FS); err != nil {
		db.Close()
		return fmt.Errorf("running migrations: %w", err)
	}

	if err := insertSnapshot(ctx, db, snapshot); err != nil {
		db.Close()
		return err
	}

	if err := db.Close(); err != nil {
		return fmt.Errorf("closing index database: %w", err)
	}
	return nil
}

func insertSnapshot(ctx context.Context, db *sql.DB, snapshot *driven.IndexSnapshot) error {
	dimensions := len(snapshot.Chunks[0].Embedding)
	if dimensions == 0 {
		return fmt.Errorf("%w: chunk 0 has no embedding", domain.ErrInvalidInput)
	}
	info := snapshot.Info

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	meta := map[string]string{
		metaDimensions:     strconv.Itoa(dimensions),
		metaEmbeddingModel: info.EmbeddingModel,
		metaChunkCount:     strconv.Itoa(len(snapshot.Chunks)),
		metaChunkSize:      strconv.Itoa(info.ChunkSize),
		metaOverlap:        strconv.Itoa(info.Overlap),
		metaBuiltAt:        info.BuiltAt.UTC().Format(time.RFC3339Nano),
	}
	for key, value := range meta {
		if _, err := tx.ExecContext(ctx, "INSERT INTO index_meta (key, value) VALUES (?, ?)", key, value); err != nil {
			return fmt.Errorf("saving index metadata: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO chunks (position, id, content, embedding) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, chunk := range snapshot.Chunks {
		if len(chunk.Embedding) != dimensions {
			return fmt.Errorf("%w: chunk %d has %d dimensions, expected %d",
				domain.ErrDimensionMismatch, i, len(chunk.Embedding), dimensions)
		}
		if _, err := stmt.ExecContext(ctx, i, chunk.ID, chunk.Content, float32SliceToBytes(chunk.Embedding)); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func readMeta(ctx context.Context, db *sql.DB) (map[string]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT key, value FROM index_meta")
	if err != nil {
		return nil, fmt.Errorf("reading index metadata: %w", err)
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scanning index metadata: %w", err)
		}
		meta[key] = value
	}
	return meta, rows.Err()
}

func readChunks(ctx context.Context, db *sql.DB, dimensions int) ([]domain.Chunk, error) {
	rows, err := db.QueryContext(ctx, "SELECT position, id, content, embedding FROM chunks ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("reading chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk
	for rows.Next() {
		var c domain.Chunk
		var blob []byte
		if err := rows.Scan(&c.Position, &c.ID, &c.Content, &blob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		c.Embedding = bytesToFloat32Slice(blob)
		if len(c.Embedding) != dimensions {
			return nil, fmt.Errorf("%w: stored chunk %d has %d dimensions, expected %d",
				domain.ErrDimensionMismatch, c.Position, len(c.Embedding), dimensions)
		}
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

// migrate runs all pending migrations.
func migrate(db *sql.DB, fsys fs.FS) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_index.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// float32SliceToBytes converts a []float32 to a little-endian byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
