package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompilePattern(t *testing.T) {
	t.Run("matching is case-insensitive", func(t *testing.T) {
		m, err := CompilePattern(`\bcup\b`)
		require.NoError(t, err)

		assert.True(t, m.Matches("DELTA CUP 50/28"))
		assert.True(t, m.Matches("delta cup 50/28"))
		assert.False(t, m.Matches("cupola holder"))
	})

	t.Run("explicit (?i) prefix is not doubled", func(t *testing.T) {
		m, err := CompilePattern(`(?i)stem`)
		require.NoError(t, err)
		assert.True(t, m.Matches("CLS Stem Standard"))
	})

	t.Run("word boundaries and alternation", func(t *testing.T) {
		m, err := CompilePattern(`\b(insert|liner)\b`)
		require.NoError(t, err)

		assert.True(t, m.Matches("acetabular insert 54mm"))
		assert.True(t, m.Matches("PE Liner neutral"))
		assert.False(t, m.Matches("inserter instrument"))
	})

	t.Run("empty pattern is rejected", func(t *testing.T) {
		_, err := CompilePattern("   ")
		assert.Error(t, err)
	})

	t.Run("invalid regex is rejected", func(t *testing.T) {
		_, err := CompilePattern(`\b(cup`)
		assert.Error(t, err)
	})
}

func TestCompilePatterns(t *testing.T) {
	t.Run("preserves order", func(t *testing.T) {
		matchers, err := CompilePatterns([]string{`cup`, `stem`})
		require.NoError(t, err)
		require.Len(t, matchers, 2)

		assert.True(t, matchers[0].Matches("delta cup"))
		assert.False(t, matchers[0].Matches("cls stem"))
		assert.True(t, matchers[1].Matches("cls stem"))
	})

	t.Run("first bad pattern fails the list", func(t *testing.T) {
		_, err := CompilePatterns([]string{`cup`, `(bad`})
		assert.Error(t, err)
	})
}
