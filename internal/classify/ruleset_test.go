package classify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRules(t *testing.T) {
	t.Run("file order is evaluation order", func(t *testing.T) {
		content := `rules:
  - name: tibial-insert
    target_code: P090702
    include:
      - tibial\s+insert
  - name: knee-general
    target_code: P0907
    include:
      - \bknee\b
    exclude:
      - revision
`
		path := filepath.Join(t.TempDir(), "rules.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		rules, err := LoadRules(path)
		require.NoError(t, err)
		require.Len(t, rules, 2)

		assert.Equal(t, "tibial-insert", rules[0].Name)
		assert.Equal(t, "P090702", rules[0].TargetCode)
		assert.Equal(t, []string{`tibial\s+insert`}, rules[0].IncludePatterns)
		assert.Equal(t, []string{"revision"}, rules[1].ExcludePatterns)
	})

	t.Run("empty rule list is rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.yaml")
		require.NoError(t, os.WriteFile(path, []byte("rules: []\n"), 0o600))

		_, err := LoadRules(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadRules("/nonexistent/rules.yaml")
		assert.Error(t, err)
	})
}
