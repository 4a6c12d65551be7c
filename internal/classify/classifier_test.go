package classify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medassort/taxon/internal/common"
	"github.com/medassort/taxon/internal/model"
	"github.com/medassort/taxon/internal/taxonomy"
)

// testIndex holds every target code the default rule set points at.
func testIndex(t *testing.T) *taxonomy.Index {
	t.Helper()

	codes := []string{
		"P", "P09", "P0907", "P090701", "P090702",
		"P0908", "P090803", "P09080301", "P0908030102", "P09080302",
		"P09080304", "P0908030401",
		"P090804", "P09080401", "P0908040101", "P090804010102", "P09080402",
	}

	cats := make([]model.Category, 0, len(codes))
	for _, code := range codes {
		cats = append(cats, model.Category{ID: code, Code: code, Name: code})
	}

	idx, err := taxonomy.NewIndex(cats)
	require.NoError(t, err)
	return idx
}

func TestNewClassifierValidation(t *testing.T) {
	idx := testIndex(t)

	t.Run("default rules compile", func(t *testing.T) {
		c, err := NewClassifier(DefaultRules(), idx)
		require.NoError(t, err)
		assert.Equal(t, len(DefaultRules()), c.RuleCount())
	})

	t.Run("unknown target code is fatal", func(t *testing.T) {
		rules := []model.Rule{{
			Name:            "bad-target",
			TargetCode:      "ZZZZ",
			IncludePatterns: []string{`cup`},
		}}

		_, err := NewClassifier(rules, idx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, common.ErrConfig))
		assert.True(t, common.IsFatal(err))
		assert.Contains(t, err.Error(), "bad-target")
	})

	t.Run("empty rule name is fatal", func(t *testing.T) {
		rules := []model.Rule{{TargetCode: "P0908", IncludePatterns: []string{`hip`}}}
		_, err := NewClassifier(rules, idx)
		assert.True(t, errors.Is(err, common.ErrConfig))
	})

	t.Run("missing include patterns is fatal", func(t *testing.T) {
		rules := []model.Rule{{Name: "no-includes", TargetCode: "P0908"}}
		_, err := NewClassifier(rules, idx)
		assert.True(t, errors.Is(err, common.ErrConfig))
	})

	t.Run("broken pattern is fatal", func(t *testing.T) {
		rules := []model.Rule{{
			Name:            "bad-regex",
			TargetCode:      "P0908",
			IncludePatterns: []string{`(cup`},
		}}
		_, err := NewClassifier(rules, idx)
		assert.True(t, errors.Is(err, common.ErrConfig))
	})
}

func TestClassify(t *testing.T) {
	classifier, err := NewClassifier(DefaultRules(), testIndex(t))
	require.NoError(t, err)

	tests := []struct {
		name     string
		input    string
		wantCode string // "" means unclassified
		wantRule string
	}{
		{
			name:     "cemented cup skips the pe rule",
			input:    "DELTA CUP 50/28 cem.",
			wantCode: "P09080301",
			wantRule: "cemented-cup-general",
		},
		{
			name:     "pe cup hits the narrow rule first",
			input:    "Cemented PE Cup 50mm",
			wantCode: "P0908030102",
			wantRule: "cemented-pe-cup",
		},
		{
			name:     "uncemented excludes the cemented pe rule",
			input:    "Uncemented PE Cup 52mm",
			wantCode: "P09080302",
			wantRule: "uncemented-metal-cup",
		},
		{
			name:     "acetabular shell",
			input:    "Trilogy Acetabular Shell 54mm",
			wantCode: "P09080302",
			wantRule: "acetabular-shell",
		},
		{
			name:     "liner maps to acetabular insert",
			input:    "Neutral Liner 36/54",
			wantCode: "P0908030401",
			wantRule: "acetabular-pe-insert",
		},
		{
			name:     "anatomical cemented stem wins over general stem",
			input:    "SP-II Anatomical Stem cemented size 5",
			wantCode: "P090804010102",
			wantRule: "anatomical-cemented-stem",
		},
		{
			name:     "plain stem falls through to the general rule",
			input:    "CLS Spotorno Stem size 12.5",
			wantCode: "P090804",
			wantRule: "hip-stem-general",
		},
		{
			name:     "femoral head",
			input:    "Femoral Head CoCr 28mm",
			wantCode: "P09080402",
			wantRule: "femoral-head",
		},
		{
			name:     "tibial insert never reaches the hip rules",
			input:    "Tibial Insert CR 10mm",
			wantCode: "P090702",
			wantRule: "tibial-insert",
		},
		{
			name:     "broad hip fallback",
			input:    "Total hip system accessory",
			wantCode: "P0908",
			wantRule: "hip-general",
		},
		{
			name:     "broad knee fallback",
			input:    "Knee spacer block",
			wantCode: "P0907",
			wantRule: "knee-general",
		},
		{
			name:  "unrelated product stays unclassified",
			input: "Bone cement mixing bowl",
		},
		{
			name:  "empty name stays unclassified",
			input: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := classifier.Classify(tt.input)
			if tt.wantCode == "" {
				assert.Nil(t, result)
				return
			}
			require.NotNil(t, result)
			assert.Equal(t, tt.wantCode, result.TargetCode)
			assert.Equal(t, tt.wantRule, result.RuleName)
		})
	}
}

func TestClassifyRuleOrder(t *testing.T) {
	idx := testIndex(t)

	// Two rules both match "hip stem"; the first declared one must win.
	rules := []model.Rule{
		{Name: "first", TargetCode: "P090804", IncludePatterns: []string{`stem`}},
		{Name: "second", TargetCode: "P0908", IncludePatterns: []string{`stem`}},
	}

	classifier, err := NewClassifier(rules, idx)
	require.NoError(t, err)

	result := classifier.Classify("hip stem")
	require.NotNil(t, result)
	assert.Equal(t, "first", result.RuleName)
}

func TestClassifyExcludeSkipsWholeRule(t *testing.T) {
	idx := testIndex(t)

	// An exclude hit must skip the rule entirely, not fall through to a
	// weaker include within it.
	rules := []model.Rule{
		{
			Name:            "guarded",
			TargetCode:      "P09080301",
			IncludePatterns: []string{`cup`, `acetab`},
			ExcludePatterns: []string{`revision`},
		},
		{
			Name:            "fallback",
			TargetCode:      "P0908",
			IncludePatterns: []string{`acetab`},
		},
	}

	classifier, err := NewClassifier(rules, idx)
	require.NoError(t, err)

	result := classifier.Classify("revision acetabular cup")
	require.NotNil(t, result)
	assert.Equal(t, "fallback", result.RuleName)

	result = classifier.Classify("acetabular cup")
	require.NotNil(t, result)
	assert.Equal(t, "guarded", result.RuleName)
}

func TestRuleNames(t *testing.T) {
	classifier, err := NewClassifier(DefaultRules(), testIndex(t))
	require.NoError(t, err)

	names := classifier.RuleNames()
	require.Len(t, names, len(DefaultRules()))
	assert.Equal(t, "cemented-pe-cup", names[0])
	assert.Equal(t, "knee-general", names[len(names)-1])
}
