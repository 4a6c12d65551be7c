package match

import (
	"log/slog"
	"sort"

	"github.com/medassort/taxon/internal/model"
	"github.com/medassort/taxon/internal/taxonomy"
)

// PriceIndex is an inverted index from category id to the reference
// prices attached there. Each price is indexed at its leaf category when
// present, at its plain category otherwise. Built once per run and
// frozen before any worker starts.
type PriceIndex struct {
	byCategory map[string][]*model.ReferencePrice
	skipped    int
}

// BuildPriceIndex indexes the reference-price table. Prices lacking any
// category linkage cannot be matched to anything: they are excluded and
// surfaced once as an aggregate data-quality warning.
func BuildPriceIndex(prices []model.ReferencePrice) *PriceIndex {
	idx := &PriceIndex{
		byCategory: make(map[string][]*model.ReferencePrice),
	}

	for i := range prices {
		price := &prices[i]
		catID := price.IndexCategoryID()
		if catID == "" {
			idx.skipped++
			slog.Debug("reference price has no category linkage, excluded from matching",
				"price_id", price.ID)
			continue
		}
		idx.byCategory[catID] = append(idx.byCategory[catID], price)
	}

	if idx.skipped > 0 {
		slog.Warn("excluded reference prices without category linkage",
			"count", idx.skipped)
	}

	return idx
}

// SkippedCount returns how many prices were excluded for missing
// category linkage.
func (idx *PriceIndex) SkippedCount() int {
	return idx.skipped
}

// At returns the prices indexed at a category id.
func (idx *PriceIndex) At(categoryID string) []*model.ReferencePrice {
	return idx.byCategory[categoryID]
}

// Candidates gathers every reference price reachable via the product's
// category ancestry: a price qualifies only when its indexed category is
// the product's own node or a less-specific ancestor of it. Prices on
// sibling or unrelated branches are never candidates, whatever their
// text looks like. A product without a category yields an empty set.
func (idx *PriceIndex) Candidates(product *model.Product, tree *taxonomy.Index) ([]*model.ReferencePrice, error) {
	if product.CategoryID == "" {
		return nil, nil
	}

	ancestors, err := tree.Ancestors(product.CategoryID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var candidates []*model.ReferencePrice
	for _, ancestorID := range ancestors {
		for _, price := range idx.byCategory[ancestorID] {
			if seen[price.ID] {
				continue
			}
			seen[price.ID] = true
			candidates = append(candidates, price)
		}
	}

	// Stable order keeps downstream scoring reproducible.
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].ID < candidates[j].ID
	})

	return candidates, nil
}
