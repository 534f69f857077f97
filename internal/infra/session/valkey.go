package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"

	"github.com/lifelink/report-analyzer/internal/domain/report"
)

// ValkeyStore persists pipeline state in a Valkey-compatible database,
// for deployments where sessions must survive process restarts.
type ValkeyStore struct {
	client valkey.Client
	prefix string
	ttl    time.Duration
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string, ttl time.Duration) *ValkeyStore {
	if prefix == "" {
		prefix = "report"
	}
	return &ValkeyStore{client: client, prefix: prefix, ttl: ttl}
}

// Load implements report.SessionStore.
func (s *ValkeyStore) Load(ctx context.Context, id uuid.UUID) (report.PipelineState, bool, error) {
	cmd := s.client.B().Get().Key(s.key(id)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return report.PipelineState{}, false, nil
		}
		return report.PipelineState{}, false, err
	}
	var state report.PipelineState
	if err := json.Unmarshal([]byte(payload), &state); err != nil {
		return report.PipelineState{}, false, err
	}
	return state, true, nil
}

// Save implements report.SessionStore.
func (s *ValkeyStore) Save(ctx context.Context, id uuid.UUID, state report.PipelineState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	if s.ttl > 0 {
		cmd := s.client.B().Set().Key(s.key(id)).Value(string(payload)).Ex(s.ttl).Build()
		return s.client.Do(ctx, cmd).Error()
	}
	cmd := s.client.B().Set().Key(s.key(id)).Value(string(payload)).Build()
	return s.client.Do(ctx, cmd).Error()
}

// Delete implements report.SessionStore.
func (s *ValkeyStore) Delete(ctx context.Context, id uuid.UUID) error {
	cmd := s.client.B().Del().Key(s.key(id)).Build()
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) key(id uuid.UUID) string {
	return s.prefix + ":session:" + id.String()
}

var _ report.SessionStore = (*ValkeyStore)(nil)
