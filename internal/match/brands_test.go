package match

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medassort/taxon/internal/common"
)

func TestBrandTableValidate(t *testing.T) {
	t.Run("default table is valid", func(t *testing.T) {
		assert.NoError(t, DefaultBrandTable().Validate())
	})

	t.Run("empty manufacturer code", func(t *testing.T) {
		table := BrandTable{" ": {"zimmer"}}
		err := table.Validate()
		assert.True(t, errors.Is(err, common.ErrConfig))
	})

	t.Run("manufacturer without keywords", func(t *testing.T) {
		table := BrandTable{"ZIM": {}}
		err := table.Validate()
		assert.True(t, errors.Is(err, common.ErrConfig))
	})

	t.Run("blank keyword", func(t *testing.T) {
		table := BrandTable{"ZIM": {"zimmer", "  "}}
		err := table.Validate()
		assert.True(t, errors.Is(err, common.ErrConfig))
	})
}

func TestFindKeyword(t *testing.T) {
	table := DefaultBrandTable()

	t.Run("case-insensitive substring", func(t *testing.T) {
		assert.Equal(t, "trilogy", table.FindKeyword("ZIM", "Trilogy Acetabular Shell 54mm"))
		assert.Equal(t, "exeter", table.FindKeyword("STR", "EXETER V40 Stem 44/1"))
	})

	t.Run("first configured keyword wins", func(t *testing.T) {
		// Text mentions both zimmer and trilogy; zimmer is listed first.
		assert.Equal(t, "zimmer", table.FindKeyword("ZIM", "Zimmer Trilogy shell"))
	})

	t.Run("unknown manufacturer code", func(t *testing.T) {
		assert.Equal(t, "", table.FindKeyword("XXX", "Zimmer Trilogy shell"))
	})

	t.Run("no keyword in text", func(t *testing.T) {
		assert.Equal(t, "", table.FindKeyword("ZIM", "Exeter V40 Stem"))
	})
}

func TestLoadBrandTable(t *testing.T) {
	t.Run("reads yaml table", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "brands.yaml")
		content := "ZIM:\n  - zimmer\n  - trilogy\nDEP:\n  - depuy\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		table, err := LoadBrandTable(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"zimmer", "trilogy"}, table["ZIM"])
		assert.Equal(t, []string{"depuy"}, table["DEP"])
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadBrandTable("/nonexistent/brands.yaml")
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "brands.yaml")
		require.NoError(t, os.WriteFile(path, []byte("ZIM: [unclosed"), 0o600))

		_, err := LoadBrandTable(path)
		assert.Error(t, err)
	})
}
