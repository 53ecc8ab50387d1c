package services

import (
	"reflect"
	"testing"

	"github.com/kamal-hamza/assetwatch/internal/core/domain"
)

func asset(id, name string, typ domain.AssetType, modified string) domain.Asset {
	return domain.Asset{ID: id, Name: name, Type: typ, LastModified: modified}
}

func TestDetectChanges(t *testing.T) {
	a1 := asset("a1", "Tree_Model", domain.AssetTypeGLB, "2025-11-19T10:00:00")
	a2 := asset("a2", "Rock_Formation", domain.AssetTypeGLTF, "2025-11-19T10:00:00")
	a3 := asset("a3", "Prop_Item", domain.AssetTypeGLB, "2025-11-19T10:00:00")

	a1Modified := a1
	a1Modified.LastModified = "2025-11-19T10:00:10"
	a2Renamed := a2
	a2Renamed.Name = "Static_Mesh"
	a2Retyped := a2
	a2Retyped.Type = domain.AssetTypeGLB

	tests := []struct {
		name     string
		previous domain.Snapshot
		current  domain.Snapshot
		expected []string
	}{
		{
			name:     "identical snapshots",
			previous: domain.Snapshot{a1, a2},
			current:  domain.Snapshot{a1, a2},
			expected: []string{},
		},
		{
			name:     "timestamp change",
			previous: domain.Snapshot{a1, a2},
			current:  domain.Snapshot{a1Modified, a2},
			expected: []string{"a1"},
		},
		{
			name:     "name and type changes",
			previous: domain.Snapshot{a1, a2},
			current:  domain.Snapshot{a1Modified, a2Renamed},
			expected: []string{"a1", "a2"},
		},
		{
			name:     "type only change",
			previous: domain.Snapshot{a2},
			current:  domain.Snapshot{a2Retyped},
			expected: []string{"a2"},
		},
		{
			name:     "new asset is not highlighted",
			previous: domain.Snapshot{a1},
			current:  domain.Snapshot{a1, a3},
			expected: []string{},
		},
		{
			name:     "removed asset is not reported",
			previous: domain.Snapshot{a1, a2, a3},
			current:  domain.Snapshot{a1},
			expected: []string{},
		},
		{
			name:     "reordered but unchanged",
			previous: domain.Snapshot{a1, a2, a3},
			current:  domain.Snapshot{a3, a1, a2},
			expected: []string{},
		},
		{
			name:     "empty previous",
			previous: nil,
			current:  domain.Snapshot{a1, a2},
			expected: []string{},
		},
		{
			name:     "empty current",
			previous: domain.Snapshot{a1},
			current:  nil,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectChanges(tt.previous, tt.current).IDs()
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("DetectChanges() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDetectChangesOnlyReportsSharedIDs(t *testing.T) {
	previous := domain.Snapshot{
		asset("a", "One", domain.AssetTypeGLB, "t1"),
		asset("b", "Two", domain.AssetTypeGLB, "t1"),
		asset("c", "Three", domain.AssetTypeGLTF, "t1"),
	}
	current := domain.Snapshot{
		asset("a", "One", domain.AssetTypeGLTF, "t2"),
		asset("c", "Three", domain.AssetTypeGLTF, "t1"),
		asset("d", "Four", domain.AssetTypeGLB, "t2"),
		asset("e", "Five", domain.AssetTypeGLTF, "t2"),
	}

	prevIdx := previous.Index()
	curIdx := current.Index()
	for id := range DetectChanges(previous, current) {
		p, inPrev := prevIdx[id]
		c, inCur := curIdx[id]
		if !inPrev || !inCur {
			t.Errorf("%s reported but not present in both snapshots", id)
		}
		if p == c {
			t.Errorf("%s reported but unchanged", id)
		}
	}
}

func TestDetectChangesIdempotent(t *testing.T) {
	snapshots := []domain.Snapshot{
		nil,
		{},
		{asset("a", "One", domain.AssetTypeGLB, "t1")},
		{
			asset("a", "One", domain.AssetTypeGLB, "t1"),
			asset("b", "Two", domain.AssetTypeGLTF, "t2"),
		},
	}

	for _, s := range snapshots {
		if got := DetectChanges(s, s); len(got) != 0 {
			t.Errorf("DetectChanges(s, s) = %v, want empty", got.IDs())
		}
	}
}
