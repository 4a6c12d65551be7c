package model

// Rule maps product names to a target category code. Rules are evaluated
// in declared order, first applicable rule wins; order encodes specificity
// and is curated by whoever authors the rule set.
type Rule struct {
	Name            string   `yaml:"name"`
	TargetCode      string   `yaml:"target_code"`
	IncludePatterns []string `yaml:"include"`
	ExcludePatterns []string `yaml:"exclude,omitempty"`
}

// ReclassOutcome is the decision taken for a classified candidate code.
type ReclassOutcome string

const (
	// OutcomeNew assigns a category to a previously unclassified product.
	OutcomeNew ReclassOutcome = "new"
	// OutcomeDeepen replaces the current category with a more specific one.
	OutcomeDeepen ReclassOutcome = "deepen"
	// OutcomeFix replaces a category on a different branch.
	OutcomeFix ReclassOutcome = "fix"
	// OutcomeNoOp keeps the current category untouched.
	OutcomeNoOp ReclassOutcome = "no-op"
)
