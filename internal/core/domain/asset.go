package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidAsset is returned when an asset record fails validation
	ErrInvalidAsset = errors.New("invalid asset")

	// ErrDuplicateID is returned when a snapshot carries the same id twice
	ErrDuplicateID = errors.New("duplicate asset id")
)

// AssetType is the model file format of an asset
type AssetType string

const (
	AssetTypeGLB  AssetType = "glb"
	AssetTypeGLTF AssetType = "gltf"
)

// AssetTypes lists every known asset type in display order
var AssetTypes = []AssetType{AssetTypeGLB, AssetTypeGLTF}

// IsValid reports whether t is one of the known asset types
func (t AssetType) IsValid() bool {
	return t == AssetTypeGLB || t == AssetTypeGLTF
}

// Asset represents one record of the remote asset store.
// A new value for the same ID is a new version, never a mutation.
type Asset struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Type         AssetType `json:"type"`
	LastModified string    `json:"last_modified"` // ISO-8601, kept verbatim
}

// Validate checks the fields every asset must carry
func (a Asset) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidAsset)
	}
	if !a.Type.IsValid() {
		return fmt.Errorf("%w: asset %s has unknown type %q", ErrInvalidAsset, a.ID, a.Type)
	}
	return nil
}

// timestampLayouts are tried in order when parsing LastModified.
// The server emits naive timestamps without a zone.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ModifiedAt parses LastModified
func (a Asset) ModifiedAt() (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, a.LastModified); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable last_modified %q", a.LastModified)
}

// FormatModified renders LastModified with the given layout, falling back
// to the raw string when it cannot be parsed
func (a Asset) FormatModified(layout string) string {
	t, err := a.ModifiedAt()
	if err != nil {
		return a.LastModified
	}
	return t.Format(layout)
}

// ShortID returns the first eight characters of the id
func (a Asset) ShortID() string {
	if len(a.ID) <= 8 {
		return a.ID
	}
	return a.ID[:8]
}
