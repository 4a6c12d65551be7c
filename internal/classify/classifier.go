package classify

import (
	"github.com/medassort/taxon/internal/common"
	"github.com/medassort/taxon/internal/model"
	"github.com/medassort/taxon/internal/taxonomy"
)

// compiledRule holds a rule with its patterns compiled.
type compiledRule struct {
	rule     model.Rule
	includes []Matcher
	excludes []Matcher
}

// Classifier evaluates product names against an ordered rule list.
// Order is significant: it encodes specificity, curated by the rule-set
// author, and the first rule whose excludes don't fire and whose
// includes do fire wins. This is deliberately not a best-match or
// scoring classifier.
type Classifier struct {
	rules []compiledRule
}

// Result is a successful classification of one product name.
type Result struct {
	TargetCode string
	RuleName   string
}

// NewClassifier compiles the rule list and validates every target code
// against the category index. Any problem here is fatal: it must surface
// before the first product is processed.
func NewClassifier(rules []model.Rule, index *taxonomy.Index) (*Classifier, error) {
	compiled := make([]compiledRule, 0, len(rules))

	for _, rule := range rules {
		if rule.Name == "" {
			return nil, common.NewConfigError("rule set", "rule with empty name (target %q)", rule.TargetCode)
		}
		if rule.TargetCode == "" {
			return nil, common.NewConfigError(rule.Name, "rule has no target code")
		}
		if !index.HasCode(rule.TargetCode) {
			return nil, common.NewConfigError(rule.Name, "target code %s not present in category table", rule.TargetCode)
		}
		if len(rule.IncludePatterns) == 0 {
			return nil, common.NewConfigError(rule.Name, "rule has no include patterns")
		}

		includes, err := CompilePatterns(rule.IncludePatterns)
		if err != nil {
			return nil, common.NewConfigError(rule.Name, "include: %v", err)
		}
		excludes, err := CompilePatterns(rule.ExcludePatterns)
		if err != nil {
			return nil, common.NewConfigError(rule.Name, "exclude: %v", err)
		}

		compiled = append(compiled, compiledRule{
			rule:     rule,
			includes: includes,
			excludes: excludes,
		})
	}

	return &Classifier{rules: compiled}, nil
}

// RuleCount returns the number of compiled rules.
func (c *Classifier) RuleCount() int {
	return len(c.rules)
}

// RuleNames returns the rule names in evaluation order.
func (c *Classifier) RuleNames() []string {
	names := make([]string, len(c.rules))
	for i, cr := range c.rules {
		names[i] = cr.rule.Name
	}
	return names
}

// Classify maps a product name to the target code of the first
// applicable rule. A rule whose exclude patterns match is skipped
// entirely, with no fall-through to a weaker match within the same
// rule. A nil result means no rule matched: the product stays
// unclassified by this pass.
func (c *Classifier) Classify(name string) *Result {
	for _, cr := range c.rules {
		if anyMatches(cr.excludes, name) {
			continue
		}
		if anyMatches(cr.includes, name) {
			return &Result{
				TargetCode: cr.rule.TargetCode,
				RuleName:   cr.rule.Name,
			}
		}
	}
	return nil
}

func anyMatches(matchers []Matcher, text string) bool {
	for _, m := range matchers {
		if m.Matches(text) {
			return true
		}
	}
	return false
}
