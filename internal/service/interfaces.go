// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/medassort/taxon/internal/model"
)

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Category operations. The category table is read-only to the engine.
	GetCategories(ctx context.Context) ([]model.Category, error)
	SaveCategories(ctx context.Context, categories []model.Category) error

	// Product operations. Only the category assignment is ever written
	// back by the engine.
	GetProducts(ctx context.Context) ([]model.Product, error)
	GetUnclassifiedProducts(ctx context.Context) ([]model.Product, error)
	GetProductByID(ctx context.Context, id string) (*model.Product, error)
	SaveProducts(ctx context.Context, products []model.Product) error
	UpdateProductCategory(ctx context.Context, productID, categoryID string) error
	UpdateProductCategories(ctx context.Context, updates []CategoryUpdate) error

	// Reference price operations, read-only to the engine.
	GetReferencePrices(ctx context.Context) ([]model.ReferencePrice, error)
	SaveReferencePrices(ctx context.Context, prices []model.ReferencePrice) error

	// Match operations. Matches for a method are replaced wholesale.
	DeleteMatchesByMethod(ctx context.Context, method model.MatchMethod) error
	SaveMatches(ctx context.Context, matches []model.Match) error
	GetMatchesByProduct(ctx context.Context, productID string) ([]model.Match, error)
	CountMatchesByMethod(ctx context.Context, method model.MatchMethod) (int, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// CategoryUpdate is one pending product write, grouped and batched by
// the engine before it reaches storage.
type CategoryUpdate struct {
	ProductID  string
	CategoryID string
	Outcome    model.ReclassOutcome
}
