// Package rules holds the priority/label derivation tables shared by the
// deterministic extractor and the generative instruction renderer. Both
// consume the same RuleSet so the two extraction paths cannot drift.
package rules

import "fmt"

// PriorityRule maps one ticket priority code to a task priority weight
// and an optional label.
type PriorityRule struct {
	Label  string // label contributed by this code; empty for none
	Weight int    // task priority, 1 (lowest) to 4 (highest)
}

// Version label derivation styles.
const (
	// VersionSuffix takes the text after the last separator, lower-cases
	// it and prefixes it: "TF-2410" -> "mr2410".
	VersionSuffix = "suffix"
	// VersionReleaseMR extracts release and maintenance numbers:
	// "lit-2410-tandf-6.0" -> "2410 MR6".
	VersionReleaseMR = "release-mr"
)

// RuleSet is one named, versioned rule-table variant.
type RuleSet struct {
	Name            string
	Priorities      map[string]PriorityRule
	DefaultPriority int    // weight for unknown or missing codes
	VersionMarker   string // fixVersion must contain this token to yield a label
	VersionPrefix   string // prefix for suffix-style version labels
	VersionStyle    string // VersionSuffix or VersionReleaseMR
	ClientPrefix    string // issue-key prefix marking client links
}

// Default is the current three-tier rule set.
var Default = RuleSet{
	Name: "default",
	Priorities: map[string]PriorityRule{
		"P1": {Label: "p1", Weight: 4},
		"P2": {Label: "p2", Weight: 3},
		"P3": {Label: "p3", Weight: 2},
	},
	DefaultPriority: 1,
	VersionMarker:   "TF-",
	VersionPrefix:   "mr",
	VersionStyle:    VersionSuffix,
	ClientPrefix:    "TFC-",
}

// Legacy is the earlier four-tier rule set with an "Urgent" label trigger
// and the release/MR version label form.
var Legacy = RuleSet{
	Name: "legacy",
	Priorities: map[string]PriorityRule{
		"P1": {Label: "Urgent", Weight: 4},
		"P2": {Weight: 3},
		"P3": {Weight: 2},
		"P4": {Weight: 1},
	},
	DefaultPriority: 1,
	VersionMarker:   "lit-",
	VersionStyle:    VersionReleaseMR,
	ClientPrefix:    "TFC-",
}

var variants = map[string]RuleSet{
	Default.Name: Default,
	Legacy.Name:  Legacy,
}

// Get returns the named rule-set variant.
func Get(name string) (RuleSet, error) {
	rs, ok := variants[name]
	if !ok {
		return RuleSet{}, fmt.Errorf("unknown rule set %q (valid: default, legacy)", name)
	}
	return rs, nil
}

// Priority resolves a ticket priority code to its label and weight.
// Unknown or missing codes yield the default weight and no label.
func (rs RuleSet) Priority(code string) (string, int) {
	if r, ok := rs.Priorities[code]; ok {
		return r.Label, r.Weight
	}
	return "", rs.DefaultPriority
}
