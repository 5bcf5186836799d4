package report

import (
	"crypto/sha256"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// RunManifest records what a pipeline run produced: identity, timing, seed,
// config digest, and per-table row counts. The dashboard collaborator uses it
// to tell snapshots apart.
type RunManifest struct {
	RunID       string         `json:"run_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Version     string         `json:"version"`
	Seed        int64          `json:"seed"`
	ConfigHash  string         `json:"config_hash,omitempty"`
	DurationMs  int64          `json:"duration_ms"`
	Tables      map[string]int `json:"tables"` // file name -> row count
}

// NewRunManifest creates a manifest with a fresh run ID.
func NewRunManifest(version string, seed int64) *RunManifest {
	return &RunManifest{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Version:     version,
		Seed:        seed,
		Tables:      make(map[string]int),
	}
}

// Record notes a table's row count.
func (m *RunManifest) Record(file string, rows int) {
	m.Tables[file] = rows
}

// SetConfigHash stamps the manifest with a digest of the effective config so
// two runs are comparable only when their configuration matched.
func (m *RunManifest) SetConfigHash(configBytes []byte) {
	m.ConfigHash = fmt.Sprintf("%x", sha256.Sum256(configBytes))
}

// Write persists the manifest next to the output tables.
func (m *RunManifest) Write(dir string) error {
	return WriteJSONAtomic(filepath.Join(dir, FileManifest), m)
}
