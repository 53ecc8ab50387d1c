package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/kamal-hamza/assetwatch/internal/core/domain"
	"github.com/kamal-hamza/assetwatch/internal/core/ports"
)

// Sort keys accepted by AssetQuery.SortBy
const (
	SortByName     = "name"
	SortByModified = "modified"
	SortByType     = "type"
	SortByID       = "id"
)

// SortKeys lists the sort keys in the order the UI cycles through them
var SortKeys = []string{SortByName, SortByModified, SortByType, SortByID}

// AssetQuery narrows and orders a snapshot for display. The zero value
// keeps the server order.
type AssetQuery struct {
	Type    domain.AssetType // Filter by asset type (optional)
	SortBy  string           // one of the SortBy* keys, empty keeps server order
	Reverse bool
	Search  string // fuzzy match on name and id
}

// IsZero reports whether the query leaves the snapshot untouched
func (q AssetQuery) IsZero() bool {
	return q.Type == "" && q.SortBy == "" && !q.Reverse && strings.TrimSpace(q.Search) == ""
}

// ApplyQuery returns a filtered, ordered copy of snapshot. When a search is
// given, results are ranked by match quality unless SortBy is set.
func ApplyQuery(snapshot domain.Snapshot, q AssetQuery) domain.Snapshot {
	assets := snapshot.Clone()
	if q.IsZero() {
		return assets
	}

	if q.Type != "" {
		assets = filterByType(assets, q.Type)
	}

	if strings.TrimSpace(q.Search) != "" {
		assets = fuzzySearch(assets, q.Search)
	}

	if q.SortBy != "" {
		sortAssets(assets, q.SortBy)
	}
	if q.Reverse {
		for i, j := 0, len(assets)-1; i < j; i, j = i+1, j-1 {
			assets[i], assets[j] = assets[j], assets[i]
		}
	}
	return assets
}

// ListService lists assets through the REST API
type ListService struct {
	api ports.AssetAPI
}

// NewListService creates a new list service
func NewListService(api ports.AssetAPI) *ListService {
	return &ListService{api: api}
}

// ListResponse is the result of a list call
type ListResponse struct {
	Assets domain.Snapshot
	Total  int // before filtering
}

// Execute fetches the asset list and applies q
func (s *ListService) Execute(ctx context.Context, q AssetQuery) (*ListResponse, error) {
	if q.SortBy != "" && !isSortKey(q.SortBy) {
		return nil, fmt.Errorf("unknown sort key %q (want one of %s)", q.SortBy, strings.Join(SortKeys, ", "))
	}
	if q.Type != "" && !q.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown type %q", domain.ErrInvalidAsset, q.Type)
	}

	snapshot, err := s.api.ListAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	return &ListResponse{
		Assets: ApplyQuery(snapshot, q),
		Total:  len(snapshot),
	}, nil
}

// Get fetches a single asset by id
func (s *ListService) Get(ctx context.Context, id string) (*domain.Asset, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", domain.ErrInvalidAsset)
	}
	asset, err := s.api.GetAsset(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get asset %s: %w", id, err)
	}
	return asset, nil
}

func isSortKey(key string) bool {
	for _, k := range SortKeys {
		if k == key {
			return true
		}
	}
	return false
}

func filterByType(assets domain.Snapshot, typ domain.AssetType) domain.Snapshot {
	filtered := make(domain.Snapshot, 0, len(assets))
	for _, a := range assets {
		if strings.EqualFold(string(a.Type), string(typ)) {
			filtered = append(filtered, a)
		}
	}
	return filtered
}

func sortAssets(assets domain.Snapshot, sortBy string) {
	sort.SliceStable(assets, func(i, j int) bool {
		switch sortBy {
		case SortByModified:
			ti, erri := assets[i].ModifiedAt()
			tj, errj := assets[j].ModifiedAt()
			if erri == nil && errj == nil {
				return ti.Before(tj)
			}
			return assets[i].LastModified < assets[j].LastModified
		case SortByType:
			if assets[i].Type != assets[j].Type {
				return assets[i].Type < assets[j].Type
			}
			return strings.ToLower(assets[i].Name) < strings.ToLower(assets[j].Name)
		case SortByID:
			return assets[i].ID < assets[j].ID
		default: // name
			return strings.ToLower(assets[i].Name) < strings.ToLower(assets[j].Name)
		}
	})
}

// fuzzyMatch represents a scored match
type fuzzyMatch struct {
	asset domain.Asset
	score int
}

// fuzzySearch matches names first, then ids, highest score first
func fuzzySearch(assets domain.Snapshot, query string) domain.Snapshot {
	query = strings.TrimSpace(query)
	if query == "" {
		return assets
	}

	var matches []fuzzyMatch
	for _, a := range assets {
		if score := fuzzyMatchScore(a.Name, query); score > 0 {
			matches = append(matches, fuzzyMatch{asset: a, score: score + 1000})
			continue
		}
		if score := fuzzyMatchScore(a.ID, query); score > 0 {
			matches = append(matches, fuzzyMatch{asset: a, score: score + 500})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	result := make(domain.Snapshot, len(matches))
	for i, m := range matches {
		result[i] = m.asset
	}
	return result
}

// fuzzyMatchScore scores query against text, 0 means no match
func fuzzyMatchScore(text, query string) int {
	if text == "" || query == "" {
		return 0
	}

	textLower := strings.ToLower(text)
	queryLower := strings.ToLower(query)

	if text == query {
		return 10000
	}
	if textLower == queryLower {
		return 9000
	}

	if strings.Contains(textLower, queryLower) {
		score := 5000
		if strings.HasPrefix(textLower, queryLower) {
			score += 2000
		}
		return score
	}

	// Subsequence match
	score := 0
	textRunes := []rune(textLower)
	queryRunes := []rune(queryLower)

	queryIdx := 0
	consecutive := 0
	lastMatchIdx := -1

	for textIdx := 0; textIdx < len(textRunes) && queryIdx < len(queryRunes); textIdx++ {
		if textRunes[textIdx] != queryRunes[queryIdx] {
			continue
		}
		score += 100

		if textIdx == lastMatchIdx+1 {
			consecutive++
			score += consecutive * 50
		} else {
			consecutive = 0
		}

		if textIdx == 0 || isWordBoundary(textRunes[textIdx-1]) {
			score += 200
		}
		if textIdx == 0 {
			score += 300
		}

		lastMatchIdx = textIdx
		queryIdx++
	}

	if queryIdx != len(queryRunes) {
		return 0
	}

	// Penalty for gaps between matches
	span := lastMatchIdx + 1
	score -= (span - len(queryRunes)) * 10
	if score <= 0 {
		score = 1
	}
	return score
}

func isWordBoundary(r rune) bool {
	return unicode.IsSpace(r) || r == '-' || r == '_' || r == '.'
}
