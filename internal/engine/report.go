package engine

import (
	"fmt"
	"strings"

	"github.com/medassort/taxon/internal/cli"
	"github.com/medassort/taxon/internal/model"
)

// ClassificationReport is the primary observability surface of a
// classification pass. Its rendered form must be byte-identical between
// a dry-run and an apply over the same inputs, so nothing about the run
// mode, timing or identity appears in it.
type ClassificationReport struct {
	RuleHits      map[string]int
	Outcomes      map[model.ReclassOutcome]int
	Unclassified  []string // product names, sorted, for human review
	FailedWrites  []string // product ids whose write never succeeded
	TotalProducts int

	ruleOrder []string
}

// NewClassificationReport creates an empty report that renders rule hits
// in evaluation order.
func NewClassificationReport(ruleOrder []string) *ClassificationReport {
	return &ClassificationReport{
		RuleHits:  make(map[string]int),
		Outcomes:  make(map[model.ReclassOutcome]int),
		ruleOrder: ruleOrder,
	}
}

// Classified returns how many products a rule matched for.
func (r *ClassificationReport) Classified() int {
	total := 0
	for _, n := range r.RuleHits {
		total += n
	}
	return total
}

// Render produces the human-readable report.
func (r *ClassificationReport) Render() string {
	var b strings.Builder

	b.WriteString(cli.StyleTitle("Classification report"))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Products evaluated: %d\n", r.TotalProducts)
	fmt.Fprintf(&b, "Classified:         %d\n", r.Classified())
	fmt.Fprintf(&b, "Unclassified:       %d\n\n", len(r.Unclassified))

	b.WriteString(cli.StyleInfo("Outcomes"))
	b.WriteString("\n")
	for _, outcome := range []model.ReclassOutcome{model.OutcomeNew, model.OutcomeDeepen, model.OutcomeFix, model.OutcomeNoOp} {
		fmt.Fprintf(&b, "  %-8s %d\n", outcome, r.Outcomes[outcome])
	}
	b.WriteString("\n")

	b.WriteString(cli.StyleInfo("Rule hits"))
	b.WriteString("\n")
	for _, name := range r.ruleOrder {
		if hits := r.RuleHits[name]; hits > 0 {
			fmt.Fprintf(&b, "  %-28s %d\n", name, hits)
		}
	}

	if len(r.Unclassified) > 0 {
		b.WriteString("\n")
		b.WriteString(cli.StyleWarning("Unclassified products"))
		b.WriteString("\n")
		for _, name := range r.Unclassified {
			fmt.Fprintf(&b, "  %s\n", name)
		}
	}

	if len(r.FailedWrites) > 0 {
		b.WriteString("\n")
		b.WriteString(cli.StyleError("Failed writes"))
		b.WriteString("\n")
		for _, id := range r.FailedWrites {
			fmt.Fprintf(&b, "  %s\n", id)
		}
	}

	return b.String()
}

// MatchReport summarizes a matching pass.
type MatchReport struct {
	TotalProducts          int
	ProductsWithCandidates int
	ProductsMatched        int
	TotalMatches           int
	SkippedPrices          int      // prices without category linkage
	FailedWrites           []string // "product/price" keys, sorted
}

// NewMatchReport creates an empty match report.
func NewMatchReport() *MatchReport {
	return &MatchReport{}
}

// Render produces the human-readable report. Like the classification
// report, it must not differ between dry-run and apply.
func (r *MatchReport) Render() string {
	var b strings.Builder

	b.WriteString(cli.StyleTitle("Matching report"))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Products evaluated:       %d\n", r.TotalProducts)
	fmt.Fprintf(&b, "Products with candidates: %d\n", r.ProductsWithCandidates)
	fmt.Fprintf(&b, "Products matched:         %d\n", r.ProductsMatched)
	fmt.Fprintf(&b, "Matches stored:           %d\n", r.TotalMatches)

	if r.SkippedPrices > 0 {
		b.WriteString("\n")
		b.WriteString(cli.StyleWarning(fmt.Sprintf("Prices without category linkage: %d", r.SkippedPrices)))
		b.WriteString("\n")
	}

	if len(r.FailedWrites) > 0 {
		b.WriteString("\n")
		b.WriteString(cli.StyleError("Failed writes"))
		b.WriteString("\n")
		for _, key := range r.FailedWrites {
			fmt.Fprintf(&b, "  %s\n", key)
		}
	}

	return b.String()
}
