package storage

import (
	"context"
	"fmt"

	"github.com/medassort/taxon/internal/model"
)

// DemoCategories returns a small slice of the hip/knee branch of the
// device nomenclature, enough to exercise the default rule set.
func DemoCategories() []model.Category {
	cats := []struct {
		code, name, parent string
	}{
		{"P", "Prosthetic and osteosynthesis devices", ""},
		{"P09", "Joint prostheses", "P"},
		{"P0907", "Knee prostheses", "P09"},
		{"P090701", "Knee femoral components", "P0907"},
		{"P090702", "Knee tibial inserts", "P0907"},
		{"P0908", "Hip prostheses", "P09"},
		{"P090803", "Acetabular components", "P0908"},
		{"P09080301", "Cemented acetabular cups", "P090803"},
		{"P0908030102", "Cemented PE acetabular cups", "P09080301"},
		{"P09080302", "Uncemented acetabular shells", "P090803"},
		{"P09080304", "Acetabular inserts", "P090803"},
		{"P0908030401", "Acetabular PE inserts", "P09080304"},
		{"P090804", "Hip femoral components", "P0908"},
		{"P09080401", "Cemented femoral stems", "P090804"},
		{"P0908040101", "Cemented stems, fixed neck", "P09080401"},
		{"P090804010102", "Cemented stems, fixed neck, anatomical", "P0908040101"},
		{"P09080402", "Femoral heads", "P090804"},
	}

	depths := make(map[string]int)
	paths := make(map[string]string)

	out := make([]model.Category, 0, len(cats))
	for _, c := range cats {
		depth := 0
		path := c.code
		if c.parent != "" {
			depth = depths[c.parent] + 1
			path = paths[c.parent] + "/" + c.code
		}
		depths[c.code] = depth
		paths[c.code] = path

		out = append(out, model.Category{
			ID:       c.code,
			Code:     c.code,
			Name:     c.name,
			ParentID: c.parent,
			Depth:    depth,
			Path:     path,
		})
	}
	return out
}

// DemoProducts returns sample catalog entries.
func DemoProducts() []model.Product {
	return []model.Product{
		{ID: "prod-001", Name: "DELTA CUP 50/28 cem.", VendorName: "Ortho Supplies Ltd"},
		{ID: "prod-002", Name: "Trilogy Acetabular Shell 54mm", VendorName: "Zimmer distributor"},
		{ID: "prod-003", Name: "Exeter cemented stem anatomical 44", ManufacturerName: "Stryker"},
		{ID: "prod-004", Name: "PE liner 36mm for acetabular shell"},
		{ID: "prod-005", Name: "Tibial insert CR size 4"},
		{ID: "prod-006", Name: "Femoral head CoCr 28mm"},
		{ID: "prod-007", Name: "Hip revision kit"},
		{ID: "prod-008", Name: "Bone cement 40g"},
	}
}

// DemoReferencePrices returns sample reference-price observations.
func DemoReferencePrices() []model.ReferencePrice {
	return []model.ReferencePrice{
		{ID: "rp-001", CategoryID: "P090803", LeafCategoryID: "P09080301", ManufacturerCode: "LIM", ComponentDescription: "Cemented acetabular cup, all sizes", Price: 310.00},
		{ID: "rp-002", CategoryID: "P090803", LeafCategoryID: "P09080302", ManufacturerCode: "ZIM", ComponentDescription: "Uncemented acetabular shell, porous coated", Price: 560.00},
		{ID: "rp-003", CategoryID: "P090803", LeafCategoryID: "P0908030401", ManufacturerCode: "", ComponentDescription: "Polyethylene acetabular insert", Price: 190.00},
		{ID: "rp-004", CategoryID: "P090804", LeafCategoryID: "P09080401", ManufacturerCode: "STR", ComponentDescription: "Cemented femoral stem", Price: 480.00},
		{ID: "rp-005", CategoryID: "P0908", ManufacturerCode: "", ComponentDescription: "Hip prosthesis component, unspecified", Price: 250.00},
		{ID: "rp-006", CategoryID: "P0907", LeafCategoryID: "P090702", ManufacturerCode: "SNN", ComponentDescription: "Tibial insert, cruciate retaining", Price: 330.00},
		{ID: "rp-007", ManufacturerCode: "ZIM", ComponentDescription: "Orphan price without category", Price: 99.00},
	}
}

// SeedDemoData loads the demo fixture into storage. Existing rows with
// the same ids are overwritten.
func (s *SQLiteStorage) SeedDemoData(ctx context.Context) error {
	if err := s.SaveCategories(ctx, DemoCategories()); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}
	if err := s.SaveProducts(ctx, DemoProducts()); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}
	if err := s.SaveReferencePrices(ctx, DemoReferencePrices()); err != nil {
		return fmt.Errorf("failed to seed reference prices: %w", err)
	}
	return nil
}
