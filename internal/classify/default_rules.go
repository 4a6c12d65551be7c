package classify

import "github.com/medassort/taxon/internal/model"

// DefaultRules returns the built-in rule set for hip and knee implant
// components. Order is evaluation order: narrow rules sit above the
// broad ones they would otherwise lose to.
func DefaultRules() []model.Rule {
	return []model.Rule{
		// Acetabular side - most specific first
		{
			Name:            "cemented-pe-cup",
			TargetCode:      "P0908030102",
			IncludePatterns: []string{`\bpe\s+cup\b`, `cemented\s+pe\b`, `\bpoly(ethylene)?\s+cup\b`},
			ExcludePatterns: []string{`uncemented`, `cementless`},
		},
		{
			Name:            "acetabular-pe-insert",
			TargetCode:      "P0908030401",
			IncludePatterns: []string{`\bpe\b.*\binsert\b`, `\binsert\b.*\bpe\b`, `\bliner\b`},
			ExcludePatterns: []string{`tibial`},
		},
		{
			Name:            "cemented-cup-general",
			TargetCode:      "P09080301",
			IncludePatterns: []string{`\bcup\b.*\bcem`, `\bcem\S*\s.*\bcup\b`},
			ExcludePatterns: []string{`\bpe\b`, `uncemented`, `cementless`},
		},
		{
			Name:            "uncemented-metal-cup",
			TargetCode:      "P09080302",
			IncludePatterns: []string{`(uncemented|cementless).*\b(cup|shell)\b`, `\b(cup|shell)\b.*(uncemented|cementless)`},
		},
		{
			Name:            "acetabular-shell",
			TargetCode:      "P09080302",
			IncludePatterns: []string{`\bshell\b`},
		},

		// Femoral side
		{
			Name:            "anatomical-cemented-stem",
			TargetCode:      "P090804010102",
			IncludePatterns: []string{`\bstem\b.*anatom`, `anatom\S*\s.*\bstem\b`},
			ExcludePatterns: []string{`uncemented`, `cementless`},
		},
		{
			Name:            "cemented-stem",
			TargetCode:      "P09080401",
			IncludePatterns: []string{`\bstem\b.*\bcem`, `\bcem\S*\s.*\bstem\b`},
			ExcludePatterns: []string{`uncemented`, `cementless`},
		},
		{
			Name:            "femoral-head",
			TargetCode:      "P09080402",
			IncludePatterns: []string{`femoral\s+head`, `\bhead\b.*\b(cocr|ceramic|biolox)\b`},
		},
		{
			Name:            "hip-stem-general",
			TargetCode:      "P090804",
			IncludePatterns: []string{`\bstem\b`},
			ExcludePatterns: []string{`tibial`, `\bknee\b`},
		},

		// Knee
		{
			Name:            "tibial-insert",
			TargetCode:      "P090702",
			IncludePatterns: []string{`tibial\s+(insert|tray|baseplate)`, `\binsert\b.*tibial`},
		},
		{
			Name:            "knee-femoral-component",
			TargetCode:      "P090701",
			IncludePatterns: []string{`\bknee\b.*femoral`, `femoral\s+component.*\bknee\b`},
		},

		// Broad fallbacks - must stay last
		{
			Name:            "hip-general",
			TargetCode:      "P0908",
			IncludePatterns: []string{`\bhip\b`, `acetab`, `\bcotyl`},
		},
		{
			Name:            "knee-general",
			TargetCode:      "P0907",
			IncludePatterns: []string{`\bknee\b`},
		},
	}
}
