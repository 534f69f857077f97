package archive

import (
	"context"
	"sync"

	"github.com/lifelink/report-analyzer/internal/domain/report"
)

type storedArtifact struct {
	data     []byte
	mimeType string
}

// MemoryArchive keeps artifacts in memory. Useful for tests and local dev.
type MemoryArchive struct {
	mu    sync.RWMutex
	blobs map[string]storedArtifact
}

// NewMemoryArchive constructs the archive.
func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{blobs: make(map[string]storedArtifact)}
}

// Put stores the artifact bytes.
func (a *MemoryArchive) Put(_ context.Context, key string, data []byte, mimeType string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.blobs[key] = storedArtifact{data: data, mimeType: mimeType}
	return nil
}

// Get returns previously stored bytes, primarily for tests.
func (a *MemoryArchive) Get(key string) ([]byte, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	blob, ok := a.blobs[key]
	if !ok {
		return nil, false
	}
	return blob.data, true
}

var _ report.ArtifactArchive = (*MemoryArchive)(nil)
