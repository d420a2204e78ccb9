package analyzer

import "github.com/maltedev/selector-discovery/internal/dom"

type Role string

const (
	RoleContainer Role = "container"
	RoleTitle     Role = "title"
	RolePrice     Role = "price"
	RoleImage     Role = "image"
)

// Roles lists every role in analysis order.
var Roles = []Role{RoleContainer, RoleTitle, RolePrice, RoleImage}

// RoleStatus distinguishes a role that was never evaluated from one that was
// evaluated but produced no confident match.
type RoleStatus string

const (
	StatusMatched          RoleStatus = "matched"
	StatusNoConfidentMatch RoleStatus = "no_confident_match"
	StatusSkipped          RoleStatus = "skipped"
)

// PatternResult is the externally visible outcome for one role.
type PatternResult struct {
	Type        Role     `json:"type"`
	Value       string   `json:"value"`
	Confidence  float64  `json:"confidence"`
	Description string   `json:"description"`
	Examples    []string `json:"examples"`
}

// Report aggregates per-role results for one analysis pass.
type Report struct {
	Results []PatternResult     `json:"results"`
	Roles   map[Role]RoleStatus `json:"roles"`
}

func newReport() *Report {
	return &Report{Roles: make(map[Role]RoleStatus, len(Roles))}
}

func (r *Report) add(role Role, result *PatternResult) {
	if result == nil {
		r.Roles[role] = StatusNoConfidentMatch
		return
	}
	r.Roles[role] = StatusMatched
	r.Results = append(r.Results, *result)
}

// Candidate is an element under consideration for a role. Candidates live
// only for the duration of one analysis call.
type Candidate struct {
	Element  dom.Element
	RawScore int
	MaxScore int
	Features map[string]bool
	Selector string
	Text     string
	Price    *PricePoint
}

// NormalizedScore maps the accumulated score into [0,1].
func (c *Candidate) NormalizedScore() float64 {
	if c.MaxScore <= 0 {
		return 0
	}
	return float64(c.RawScore) / float64(c.MaxScore)
}

// sortCandidates orders candidates by descending normalized score, breaking
// ties by raw score and then by discovery order (stable).
func sortCandidates(candidates []*Candidate) {
	n := len(candidates)
	for i := 1; i < n; i++ {
		for j := i; j > 0 && less(candidates[j-1], candidates[j]); j-- {
			candidates[j-1], candidates[j] = candidates[j], candidates[j-1]
		}
	}
}

func less(a, b *Candidate) bool {
	as, bs := a.NormalizedScore(), b.NormalizedScore()
	if as != bs {
		return as < bs
	}
	return a.RawScore < b.RawScore
}
