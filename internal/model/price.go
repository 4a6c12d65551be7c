package model

// ReferencePrice is an external price observation for a class of components,
// attached to a category node (and optionally a more specific leaf node).
type ReferencePrice struct {
	ID                   string
	CategoryID           string
	LeafCategoryID       string // more specific than CategoryID when present
	ManufacturerCode     string // maps into the brand keyword table
	ComponentDescription string
	Price                float64
}

// IndexCategoryID returns the category the price should be indexed at:
// the leaf category when present, the plain category otherwise. Empty
// when the price has no category linkage at all.
func (r *ReferencePrice) IndexCategoryID() string {
	if r.LeafCategoryID != "" {
		return r.LeafCategoryID
	}
	return r.CategoryID
}
