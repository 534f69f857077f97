package archive

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestMemoryArchivePutGet(t *testing.T) {
	a := NewMemoryArchive()
	key := "artifacts/" + uuid.NewString() + "/health_summary_hindi.pdf"

	require.NoError(t, a.Put(context.Background(), key, []byte("%PDF-1.4"), "application/pdf"))

	data, ok := a.Get(key)
	require.True(t, ok)
	require.Equal(t, []byte("%PDF-1.4"), data)
}

func TestMemoryArchiveOverwrite(t *testing.T) {
	a := NewMemoryArchive()

	require.NoError(t, a.Put(context.Background(), "artifacts/k", []byte("first"), "application/pdf"))
	require.NoError(t, a.Put(context.Background(), "artifacts/k", []byte("second"), "application/pdf"))

	data, ok := a.Get("artifacts/k")
	require.True(t, ok)
	require.Equal(t, []byte("second"), data)
}

func TestMemoryArchiveGetMissing(t *testing.T) {
	a := NewMemoryArchive()
	data, ok := a.Get("artifacts/never-stored")
	require.False(t, ok)
	require.Nil(t, data)
}
