package model

// Product is a catalog entry being classified. Name is the primary
// classification input; the remaining free-text fields only participate
// in brand matching.
type Product struct {
	ID               string
	Name             string
	Description      string
	VendorName       string
	ManufacturerName string
	CategoryID       string // empty until first classification
}

// SearchText returns the text searched for brand keywords: name,
// description and vendor name joined, lowered by the caller.
func (p *Product) SearchText() string {
	text := p.Name
	if p.Description != "" {
		text += " " + p.Description
	}
	if p.VendorName != "" {
		text += " " + p.VendorName
	}
	return text
}
