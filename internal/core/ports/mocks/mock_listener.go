package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/kamal-hamza/assetwatch/internal/core/domain"
)

// --- RecordingListener ---

// RecordingListener stores every callback it receives
type RecordingListener struct {
	mu        sync.Mutex
	snapshots []domain.Snapshot
	states    []domain.ConnectionState
}

func NewRecordingListener() *RecordingListener {
	return &RecordingListener{}
}

func (l *RecordingListener) OnSnapshot(snapshot domain.Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.snapshots = append(l.snapshots, snapshot)
}

func (l *RecordingListener) OnStateChange(state domain.ConnectionState) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.states = append(l.states, state)
}

func (l *RecordingListener) Snapshots() []domain.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.Snapshot, len(l.snapshots))
	copy(out, l.snapshots)
	return out
}

func (l *RecordingListener) States() []domain.ConnectionState {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.ConnectionState, len(l.states))
	copy(out, l.states)
	return out
}

// LastState returns the most recent state, or "" if none was seen
func (l *RecordingListener) LastState() domain.ConnectionState {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.states) == 0 {
		return ""
	}
	return l.states[len(l.states)-1]
}

// --- MockAssetAPI ---

type MockAssetAPI struct {
	mu         sync.RWMutex
	assets     domain.Snapshot
	shouldFail bool
	failError  error
	listCalls  int
}

func NewMockAssetAPI(assets domain.Snapshot) *MockAssetAPI {
	return &MockAssetAPI{assets: assets}
}

func (m *MockAssetAPI) ListAssets(ctx context.Context) (domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.shouldFail {
		if m.failError != nil {
			return nil, m.failError
		}
		return nil, fmt.Errorf("list failed")
	}
	return m.assets.Clone(), nil
}

func (m *MockAssetAPI) GetAsset(ctx context.Context, id string) (*domain.Asset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.shouldFail {
		if m.failError != nil {
			return nil, m.failError
		}
		return nil, fmt.Errorf("get failed")
	}
	a, ok := m.assets.Find(id)
	if !ok {
		return nil, fmt.Errorf("asset not found: %s", id)
	}
	return &a, nil
}

func (m *MockAssetAPI) SetAssets(assets domain.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets = assets
}

func (m *MockAssetAPI) SetShouldFail(fail bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFail = fail
	m.failError = err
}

func (m *MockAssetAPI) ListCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listCalls
}
