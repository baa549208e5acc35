package rules

import (
	"fmt"
	"sort"
	"strings"
	"text/template"
)

// Shared extraction constants. Both the deterministic extractor and the
// rendered instruction reference these, so the two paths agree on
// fallbacks and budgets.
const (
	TitlePlaceholder = "Untitled ticket"
	SummaryBudget    = 500 // character budget for truncated summaries
)

const instructionTemplate = `You convert one issue-tracker XML export into a single task record.
Respond with ONLY a JSON object. Required string fields: "content" and
"description". Optional fields: "due_date" (YYYY-MM-DD string), "labels"
(array of strings), "priority" (integer 1-4). No other fields.

Rules:
- content: the ticket summary verbatim; use "{{.TitlePlaceholder}}" when the
  summary is missing.
- description: a markdown summary of the ticket including its key and
  browse URL, assignee and reporter (fall back to "Unassigned" and "N/A"),
  created/updated timestamps ("N/A" when missing), related issue links,
  the ticket description truncated to {{.Budget}} characters, and a
  comment summary truncated to {{.Budget}} characters (write
  "No comments." when there are none).
- labels, from the ticket fields:
{{- range .Priorities}}
  - priority code {{.Code}}{{if .Label}} adds label "{{.Label}}"{{else}} adds no label{{end}}
{{- end}}
{{- if eq .VersionStyle "release-mr"}}
  - a fixVersion containing "{{.VersionMarker}}" adds a release label of the
    form "<release> MR<n>" (e.g. "lit-2410-tandf-6.0" -> "2410 MR6") unless
    a more specific existing label already matches
{{- else}}
  - a fixVersion containing "{{.VersionMarker}}" adds "{{.VersionPrefix}}" +
    the lower-cased text after its last "-" (e.g. "{{.VersionMarker}}2410" -> "{{.VersionPrefix}}2410")
    unless a more specific existing label already matches
{{- end}}
  - issue type, status and component each add their lower-cased text
  - deduplicate the final label list
- priority, from the ticket priority code:
{{- range .Priorities}}
  - {{.Code}} -> {{.Weight}}
{{- end}}
  - anything else -> {{.DefaultPriority}}
- due_date: omit it unless the ticket itself states a due date.

Ticket XML:
{{.XML}}
`

type instructionData struct {
	TitlePlaceholder string
	Budget           int
	Priorities       []priorityLine
	VersionStyle     string
	VersionMarker    string
	VersionPrefix    string
	DefaultPriority  int
	XML              string
}

type priorityLine struct {
	Code   string
	Label  string
	Weight int
}

// Instruction renders the natural-language rule block for the generative
// path, with the raw ticket XML embedded. The rule table is serialized
// from the same RuleSet the deterministic extractor consumes.
func (rs RuleSet) Instruction(rawXML string) (string, error) {
	codes := make([]string, 0, len(rs.Priorities))
	for code := range rs.Priorities {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	lines := make([]priorityLine, 0, len(codes))
	for _, code := range codes {
		r := rs.Priorities[code]
		lines = append(lines, priorityLine{Code: code, Label: r.Label, Weight: r.Weight})
	}

	tmpl, err := template.New("instruction").Parse(instructionTemplate)
	if err != nil {
		return "", fmt.Errorf("parsing instruction template: %w", err)
	}

	var b strings.Builder
	data := instructionData{
		TitlePlaceholder: TitlePlaceholder,
		Budget:           SummaryBudget,
		Priorities:       lines,
		VersionStyle:     rs.VersionStyle,
		VersionMarker:    rs.VersionMarker,
		VersionPrefix:    rs.VersionPrefix,
		DefaultPriority:  rs.DefaultPriority,
		XML:              rawXML,
	}
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("rendering instruction: %w", err)
	}
	return b.String(), nil
}
