package model

// MatchMethod indicates how a product/price match was produced.
type MatchMethod string

const (
	// MethodAuto marks matches produced by the scoring engine.
	MethodAuto MatchMethod = "AUTO"
	// MethodManual marks matches created by a human outside this engine.
	// Score 1.0 is reserved for these.
	MethodManual MatchMethod = "MANUAL"
)

// Match links a product to a reference price with a score and the
// signals that produced it. Matches for a method are fully replaced on
// every matching run, never updated in place.
type Match struct {
	ProductID        string
	ReferencePriceID string
	Score            float64
	Reason           string // contributing signals, human-readable
	Method           MatchMethod
}
