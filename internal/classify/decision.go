package classify

import (
	"strings"

	"github.com/medassort/taxon/internal/model"
)

// Decide turns a candidate code from the classifier into a
// reclassification outcome for a product whose current category code is
// currentCode (empty when unclassified).
//
// This is purely a string-prefix comparison over codes, not a
// tree-ancestor lookup: the decision stays well defined even when the
// live tree data is stale or partial.
func Decide(currentCode, candidateCode string) model.ReclassOutcome {
	switch {
	case currentCode == "":
		return model.OutcomeNew
	case currentCode == candidateCode:
		return model.OutcomeNoOp
	case strings.HasPrefix(candidateCode, currentCode):
		// Candidate is longer: narrowing to a more specific node.
		return model.OutcomeDeepen
	case strings.HasPrefix(currentCode, candidateCode):
		// Candidate is less specific than what we already have.
		return model.OutcomeNoOp
	default:
		// Different branch: treated as a misclassification repair.
		return model.OutcomeFix
	}
}

// ShouldWrite reports whether an outcome changes the product record.
func ShouldWrite(outcome model.ReclassOutcome) bool {
	switch outcome {
	case model.OutcomeNew, model.OutcomeDeepen, model.OutcomeFix:
		return true
	default:
		return false
	}
}
