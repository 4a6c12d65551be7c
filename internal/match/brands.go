// Package match resolves and scores product / reference-price candidates.
package match

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/medassort/taxon/internal/common"
)

// BrandTable maps a reference price's manufacturer code to the keywords
// that identify the brand in free-text product fields. Versioned
// alongside code, like the rule set.
type BrandTable map[string][]string

// DefaultBrandTable returns the built-in manufacturer keyword table.
func DefaultBrandTable() BrandTable {
	return BrandTable{
		"ZIM": {"zimmer", "trilogy", "cls", "alloclassic", "wagner"},
		"DEP": {"depuy", "pinnacle", "corail", "summit", "articul"},
		"STR": {"stryker", "exeter", "trident", "accolade", "restoration"},
		"SNN": {"smith nephew", "polarstem", "r3", "anthology", "genesis"},
		"LIM": {"lima", "delta tt", "c2 stem", "h-max"},
		"BIO": {"biomet", "taperloc", "exceed", "vanguard"},
	}
}

// LoadBrandTable reads a manufacturer keyword table from a YAML file.
func LoadBrandTable(path string) (BrandTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read brand file: %w", err)
	}

	var table BrandTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse brand file %s: %w", path, err)
	}

	return table, nil
}

// Validate rejects malformed table entries before any product is
// processed.
func (t BrandTable) Validate() error {
	for code, keywords := range t {
		if strings.TrimSpace(code) == "" {
			return common.NewConfigError("brand table", "entry with empty manufacturer code")
		}
		if len(keywords) == 0 {
			return common.NewConfigError("brand table", "manufacturer %s has no keywords", code)
		}
		for _, kw := range keywords {
			if strings.TrimSpace(kw) == "" {
				return common.NewConfigError("brand table", "manufacturer %s has an empty keyword", code)
			}
		}
	}
	return nil
}

// FindKeyword returns the first configured keyword for manufacturerCode
// that occurs, case-insensitively, in text. Empty when the code is
// unknown or nothing matches.
func (t BrandTable) FindKeyword(manufacturerCode, text string) string {
	keywords, ok := t[manufacturerCode]
	if !ok {
		return ""
	}

	lowered := strings.ToLower(text)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(kw)) {
			return kw
		}
	}
	return ""
}
