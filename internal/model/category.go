// Package model defines the core domain models used throughout the application.
package model

import "strings"

// Category is a node in the hierarchical device nomenclature.
// Codes are hierarchical: every node's code carries its parent's code
// as a strict prefix (e.g. P0908 is an ancestor of P090804010102).
type Category struct {
	ID       string
	Code     string
	Name     string
	ParentID string // empty at a root
	Depth    int    // number of ancestors
	Path     string // slash-joined ancestor codes including self
}

// IsRoot reports whether the category has no parent.
func (c *Category) IsRoot() bool {
	return c.ParentID == ""
}

// PathCodes returns the ordered ancestor codes encoded in Path.
func (c *Category) PathCodes() []string {
	if c.Path == "" {
		return nil
	}
	return strings.Split(c.Path, "/")
}
