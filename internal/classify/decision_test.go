package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medassort/taxon/internal/model"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name      string
		current   string
		candidate string
		want      model.ReclassOutcome
	}{
		{
			name:      "unclassified product gets new assignment",
			current:   "",
			candidate: "P0908",
			want:      model.OutcomeNew,
		},
		{
			name:      "identical codes are a no-op",
			current:   "P0908",
			candidate: "P0908",
			want:      model.OutcomeNoOp,
		},
		{
			name:      "candidate extends current code",
			current:   "P0908",
			candidate: "P090804010102",
			want:      model.OutcomeDeepen,
		},
		{
			name:      "one level deeper",
			current:   "P090803",
			candidate: "P09080301",
			want:      model.OutcomeDeepen,
		},
		{
			name:      "candidate less specific than current",
			current:   "P090804010102",
			candidate: "P0908",
			want:      model.OutcomeNoOp,
		},
		{
			name:      "sibling branch is a fix",
			current:   "P09080301",
			candidate: "P09080302",
			want:      model.OutcomeFix,
		},
		{
			name:      "unrelated branch is a fix",
			current:   "P0907",
			candidate: "P0908",
			want:      model.OutcomeFix,
		},
		{
			name:      "knee to hip leaf is a fix",
			current:   "P090702",
			candidate: "P09080402",
			want:      model.OutcomeFix,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.current, tt.candidate))
		})
	}
}

func TestShouldWrite(t *testing.T) {
	assert.True(t, ShouldWrite(model.OutcomeNew))
	assert.True(t, ShouldWrite(model.OutcomeDeepen))
	assert.True(t, ShouldWrite(model.OutcomeFix))
	assert.False(t, ShouldWrite(model.OutcomeNoOp))
}
