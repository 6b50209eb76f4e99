package harness

import "github.com/san-kum/modelbench/internal/model"

const (
	OutcomeInstance   = "Instance found"
	OutcomeNoInstance = "No instance found"
)

// Classification is the human-readable reading of a satisfiability flag.
// A run command looks for an instance of a predicate; a check command looks
// for a counterexample to an assertion, so the same flag reads differently.
type Classification struct {
	Satisfiable   bool
	Outcome       string
	PredicateView string
	AssertionView string
}

// Classify depends on nothing but the flag.
func Classify(satisfiable bool) Classification {
	if satisfiable {
		return Classification{
			Satisfiable:   true,
			Outcome:       OutcomeInstance,
			PredicateView: "Predicate is consistent.",
			AssertionView: "Counterexample found. Assertion is invalid.",
		}
	}
	return Classification{
		Satisfiable:   false,
		Outcome:       OutcomeNoInstance,
		PredicateView: "Predicate may be inconsistent.",
		AssertionView: "No counterexample found. Assertion may be valid.",
	}
}

// Views returns the interpretation lines that fit a command kind; an
// unknown kind gets both.
func (c Classification) Views(kind model.Kind) []string {
	switch kind {
	case model.KindRun:
		return []string{c.PredicateView}
	case model.KindCheck:
		return []string{c.AssertionView}
	default:
		return []string{c.PredicateView, c.AssertionView}
	}
}
