package model

import "strings"

// ReasonSeparator joins rejection reasons for display and export.
const ReasonSeparator = ", "

// Verdict is the outcome of qualifying one ZIP. Invariant:
// Qualified == (len(Reasons) == 0). Reasons appear in rule-evaluation order.
type Verdict struct {
	Qualified bool     `json:"qualified"`
	Reasons   []string `json:"reasons,omitempty"`
}

// ReasonString renders the reasons as a single delimited string.
func (v Verdict) ReasonString() string {
	return strings.Join(v.Reasons, ReasonSeparator)
}

// ZipResult pairs an enriched ZIP with its verdict.
type ZipResult struct {
	EnrichedZip
	Verdict Verdict `json:"verdict"`
}
