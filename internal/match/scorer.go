package match

import (
	"fmt"
	"sort"
	"strings"

	"github.com/medassort/taxon/internal/model"
	"github.com/medassort/taxon/internal/taxonomy"
)

// ScoreConfig holds the scoring weights. The magnitudes are empirically
// chosen; changing them changes which matches users see, so they are
// named configuration, never inline literals.
type ScoreConfig struct {
	Base        float64 // granted to every candidate; ancestry is already proven
	DepthBonus0 float64 // product and price on the same node
	DepthBonus1 float64 // one level apart
	DepthBonus2 float64 // two levels apart
	BrandBonus  float64 // manufacturer keyword found in product text
	TokenBonus  float64 // fallback token overlap, awarded at most once
	Cap         float64 // 1.0 stays reserved for manual matches
	MinScore    float64 // candidates below this are dropped
	TopK        int     // matches retained per product
}

// DefaultScoreConfig returns the standard weights.
func DefaultScoreConfig() ScoreConfig {
	return ScoreConfig{
		Base:        0.3,
		DepthBonus0: 0.20,
		DepthBonus1: 0.15,
		DepthBonus2: 0.10,
		BrandBonus:  0.30,
		TokenBonus:  0.15,
		Cap:         0.95,
		MinScore:    0.3,
		TopK:        20,
	}
}

// stopTokens are tokens too generic to carry matching evidence.
var stopTokens = map[string]bool{
	"dia":  true,
	"mm":   true,
	"cm":   true,
	"size": true,
	"for":  true,
	"and":  true,
	"with": true,
	"the":  true,
}

// minTokenLen is the shortest token kept by the tokenizer; only tokens
// of overlapTokenLen or more participate in the overlap check.
const (
	minTokenLen     = 3
	overlapTokenLen = 4
)

// Scorer scores candidate (product, price) pairs.
type Scorer struct {
	tree   *taxonomy.Index
	brands BrandTable
	config ScoreConfig
}

// NewScorer creates a scorer over a frozen tree index and brand table.
func NewScorer(tree *taxonomy.Index, brands BrandTable, config ScoreConfig) *Scorer {
	return &Scorer{tree: tree, brands: brands, config: config}
}

// Score evaluates one candidate pair. The order of operations is fixed
// for reproducibility. A nil result means the candidate fell below the
// configured minimum.
func (s *Scorer) Score(product *model.Product, price *model.ReferencePrice) *model.Match {
	score := s.config.Base
	reasons := []string{fmt.Sprintf("shared category ancestry (+%.2f)", s.config.Base)}

	// Depth proximity between the product's node and the price's node.
	productDepth := s.tree.Depth(product.CategoryID)
	priceDepth := s.tree.Depth(s.priceCategoryID(price))
	if productDepth >= 0 && priceDepth >= 0 {
		diff := productDepth - priceDepth
		if diff < 0 {
			diff = -diff
		}
		if bonus := s.depthBonus(diff); bonus > 0 {
			score += bonus
			reasons = append(reasons, fmt.Sprintf("category depth distance %d (+%.2f)", diff, bonus))
		}
	}

	// Brand evidence beats token overlap; the fallback only runs when no
	// keyword fired.
	keyword := ""
	if price.ManufacturerCode != "" {
		keyword = s.brands.FindKeyword(price.ManufacturerCode, product.SearchText())
	}
	if keyword != "" {
		score += s.config.BrandBonus
		reasons = append(reasons, fmt.Sprintf("brand keyword %q (+%.2f)", keyword, s.config.BrandBonus))
	} else if token := overlapToken(product.Name, price.ComponentDescription); token != "" {
		score += s.config.TokenBonus
		reasons = append(reasons, fmt.Sprintf("shared token %q (+%.2f)", token, s.config.TokenBonus))
	}

	if score > s.config.Cap {
		score = s.config.Cap
	}
	if score < s.config.MinScore {
		return nil
	}

	return &model.Match{
		ProductID:        product.ID,
		ReferencePriceID: price.ID,
		Score:            score,
		Reason:           strings.Join(reasons, "; "),
		Method:           model.MethodAuto,
	}
}

// ScoreAll scores every candidate for a product, keeping the top-K by
// score. Ties break on ascending price id so repeated runs produce
// identical match tables.
func (s *Scorer) ScoreAll(product *model.Product, candidates []*model.ReferencePrice) []model.Match {
	matches := make([]model.Match, 0, len(candidates))
	for _, price := range candidates {
		if m := s.Score(product, price); m != nil {
			matches = append(matches, *m)
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].ReferencePriceID < matches[j].ReferencePriceID
	})

	if s.config.TopK > 0 && len(matches) > s.config.TopK {
		matches = matches[:s.config.TopK]
	}

	return matches
}

func (s *Scorer) priceCategoryID(price *model.ReferencePrice) string {
	return price.IndexCategoryID()
}

func (s *Scorer) depthBonus(diff int) float64 {
	switch diff {
	case 0:
		return s.config.DepthBonus0
	case 1:
		return s.config.DepthBonus1
	case 2:
		return s.config.DepthBonus2
	default:
		return 0
	}
}

// overlapToken tokenizes the product name on whitespace and punctuation,
// drops short tokens and stop words, and returns the first remaining
// token of overlapTokenLen or more that occurs as a substring of the
// price description.
func overlapToken(productName, priceDescription string) string {
	if priceDescription == "" {
		return ""
	}

	description := strings.ToLower(priceDescription)
	for _, token := range tokenize(productName) {
		if len(token) < overlapTokenLen {
			continue
		}
		if strings.Contains(description, token) {
			return token
		}
	}
	return ""
}

// tokenize splits text on anything that is not a letter or digit,
// lowers the result, and drops tokens shorter than minTokenLen along
// with the stop list.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isAlnum(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < minTokenLen || stopTokens[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || (r >= 'A' && r <= 'Z') ||
		r >= 0x80 // non-ASCII letters stay inside tokens
}
