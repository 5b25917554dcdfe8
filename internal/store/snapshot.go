package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/millrun/millrun/internal/loader"
	"github.com/millrun/millrun/internal/plant"
)

// ErrSnapshotNotFound is returned by Get for an unknown snapshot ID.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot is the stored metadata of one validated configuration.
type Snapshot struct {
	ID          string `json:"id"`
	ContentHash string `json:"content_hash"`
	Label       string `json:"label"`
	Seed        int64  `json:"seed"`
	CreatedAt   string `json:"created_at"`
}

// Save persists a graph as a snapshot and returns its metadata.
//
// Idempotent per document content: if a snapshot with the same content hash
// exists, the existing snapshot is returned and inserted is false. Snapshot
// IDs are UUIDv7, so listing order by ID tracks creation time.
func (s *Store) Save(ctx context.Context, g *plant.Graph, label string) (snap Snapshot, inserted bool, err error) {
	doc, err := g.Dump()
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("save snapshot: %w", err)
	}
	document, err := plant.MarshalCanonical(doc)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("save snapshot: %w", err)
	}
	hash, err := plant.DocumentHash(doc)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("save snapshot: %w", err)
	}

	snap = Snapshot{
		ID:          uuid.Must(uuid.NewV7()).String(),
		ContentHash: hash,
		Label:       label,
		Seed:        g.Seed,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339Nano),
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, content_hash, label, seed, document, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(content_hash) DO NOTHING
	`, snap.ID, snap.ContentHash, snap.Label, snap.Seed, string(document), snap.CreatedAt)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("save snapshot: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("save snapshot: %w", err)
	}
	if affected == 0 {
		existing, err := s.byContentHash(ctx, hash)
		if err != nil {
			return Snapshot{}, false, fmt.Errorf("save snapshot: %w", err)
		}
		slog.Debug("snapshot already stored", "id", existing.ID, "content_hash", hash)
		return existing, false, nil
	}

	slog.Info("snapshot saved", "id", snap.ID, "content_hash", hash, "label", label)
	return snap, true, nil
}

// Get loads a snapshot's graph back through the loader, re-validating it.
func (s *Store) Get(ctx context.Context, id string) (*plant.Graph, Snapshot, error) {
	var snap Snapshot
	var document string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, content_hash, label, seed, document, created_at
		FROM snapshots
		WHERE id = ?
	`, id).Scan(&snap.ID, &snap.ContentHash, &snap.Label, &snap.Seed, &document, &snap.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, Snapshot{}, fmt.Errorf("snapshot %q: %w", id, ErrSnapshotNotFound)
	}
	if err != nil {
		return nil, Snapshot{}, fmt.Errorf("get snapshot: %w", err)
	}

	doc, err := loader.Decode("snapshot.json", []byte(document))
	if err != nil {
		return nil, Snapshot{}, fmt.Errorf("get snapshot %q: %w", id, err)
	}
	g, err := loader.Load(doc)
	if err != nil {
		return nil, Snapshot{}, fmt.Errorf("get snapshot %q: %w", id, err)
	}
	return g, snap, nil
}

// List returns all snapshot metadata in deterministic order.
func (s *Store) List(ctx context.Context) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content_hash, label, seed, created_at
		FROM snapshots
		ORDER BY created_at ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []Snapshot{}
	for rows.Next() {
		var snap Snapshot
		if err := rows.Scan(&snap.ID, &snap.ContentHash, &snap.Label, &snap.Seed, &snap.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}

	return snapshots, nil
}

func (s *Store) byContentHash(ctx context.Context, hash string) (Snapshot, error) {
	var snap Snapshot
	err := s.db.QueryRowContext(ctx, `
		SELECT id, content_hash, label, seed, created_at
		FROM snapshots
		WHERE content_hash = ?
	`, hash).Scan(&snap.ID, &snap.ContentHash, &snap.Label, &snap.Seed, &snap.CreatedAt)
	if err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
