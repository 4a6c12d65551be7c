// Package taxonomy builds read-only lookup indexes over the category tree.
package taxonomy

import (
	"fmt"
	"sort"

	"github.com/medassort/taxon/internal/common"
	"github.com/medassort/taxon/internal/model"
)

// Index provides ancestor, depth, code and name lookups over a flat
// category table. It is built once per run and never mutated; rebuilding
// it is the only way to observe category-table changes.
type Index struct {
	byID   map[string]*model.Category
	byCode map[string]*model.Category
}

// NewIndex builds an index from the flat category list. Duplicate ids or
// codes are a configuration error.
func NewIndex(categories []model.Category) (*Index, error) {
	idx := &Index{
		byID:   make(map[string]*model.Category, len(categories)),
		byCode: make(map[string]*model.Category, len(categories)),
	}

	for i := range categories {
		cat := &categories[i]
		if cat.ID == "" || cat.Code == "" {
			return nil, common.NewConfigError("category table", "category with empty id or code (id=%q code=%q)", cat.ID, cat.Code)
		}
		if _, ok := idx.byID[cat.ID]; ok {
			return nil, common.NewConfigError("category table", "duplicate category id %s", cat.ID)
		}
		if _, ok := idx.byCode[cat.Code]; ok {
			return nil, common.NewConfigError("category table", "duplicate category code %s", cat.Code)
		}
		idx.byID[cat.ID] = cat
		idx.byCode[cat.Code] = cat
	}

	return idx, nil
}

// Len returns the number of indexed categories.
func (idx *Index) Len() int {
	return len(idx.byID)
}

// Get returns the category with the given id, or nil.
func (idx *Index) Get(id string) *model.Category {
	return idx.byID[id]
}

// GetByCode returns the category with the given code, or nil.
func (idx *Index) GetByCode(code string) *model.Category {
	return idx.byCode[code]
}

// HasCode reports whether a category with the given code exists.
func (idx *Index) HasCode(code string) bool {
	_, ok := idx.byCode[code]
	return ok
}

// Code returns the code of the category with the given id, or "".
func (idx *Index) Code(id string) string {
	if cat := idx.byID[id]; cat != nil {
		return cat.Code
	}
	return ""
}

// Name returns the name of the category with the given id, or "".
func (idx *Index) Name(id string) string {
	if cat := idx.byID[id]; cat != nil {
		return cat.Name
	}
	return ""
}

// Depth returns the recorded depth of the category with the given id.
// Unknown ids report -1.
func (idx *Index) Depth(id string) int {
	if cat := idx.byID[id]; cat != nil {
		return cat.Depth
	}
	return -1
}

// Ancestors returns the ordered chain of category ids from id up to its
// root, inclusive. The walk must terminate within depth+1 steps; a chain
// that keeps going is a cycle and means the category table is corrupt.
func (idx *Index) Ancestors(id string) ([]string, error) {
	cat := idx.byID[id]
	if cat == nil {
		return nil, fmt.Errorf("category %s: %w", id, common.ErrNotFound)
	}

	maxSteps := cat.Depth + 1
	chain := make([]string, 0, maxSteps)

	for current := cat; current != nil; {
		if len(chain) >= maxSteps {
			return nil, &common.CycleError{CategoryID: id, Steps: maxSteps}
		}
		chain = append(chain, current.ID)
		if current.ParentID == "" {
			return chain, nil
		}
		next := idx.byID[current.ParentID]
		if next == nil {
			// A dangling parent terminates the chain; the prices indexed
			// above it are simply unreachable.
			return chain, nil
		}
		current = next
	}

	return chain, nil
}

// Roots returns the ids of all root categories, sorted by code.
func (idx *Index) Roots() []string {
	var roots []string
	for id, cat := range idx.byID {
		if cat.ParentID == "" {
			roots = append(roots, id)
		}
	}
	sort.Slice(roots, func(i, j int) bool {
		return idx.byID[roots[i]].Code < idx.byID[roots[j]].Code
	})
	return roots
}

// Verify walks every category's ancestor chain, returning the first
// CycleError found. Used by the categories command to check tree
// integrity without running a pass.
func (idx *Index) Verify() error {
	ids := make([]string, 0, len(idx.byID))
	for id := range idx.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if _, err := idx.Ancestors(id); err != nil {
			return err
		}
	}
	return nil
}

// DepthHistogram returns a map of depth to category count.
func (idx *Index) DepthHistogram() map[int]int {
	hist := make(map[int]int)
	for _, cat := range idx.byID {
		hist[cat.Depth]++
	}
	return hist
}
