package compile

import (
	"fmt"
	"strings"

	"github.com/dt-pm-tools/ticket2task/internal/rules"
	"github.com/dt-pm-tools/ticket2task/internal/ticket"
)

const (
	noComments    = "No comments."
	noDescription = "(No description)"
	ellipsis      = "..."
)

// link pairs a related issue key with its browse URL.
type link struct {
	Key string
	URL string
}

// ExtractDeterministic derives a draft Task from a parsed ticket using
// the given rule set. It never fails: absent fields degrade to fallback
// text. The due date is left empty for Normalize.
func ExtractDeterministic(t *ticket.Ticket, rs rules.RuleSet, baseURL string) Task {
	title := t.Summary
	if title == "" {
		title = rules.TitlePlaceholder
	}

	priorityLabel, priority := rs.Priority(t.Priority)

	var labels []string
	if priorityLabel != "" {
		labels = append(labels, priorityLabel)
	}
	if v := rs.VersionLabel(t.FixVersion); v != "" {
		labels = append(labels, v)
	}
	for _, field := range []string{t.Type, t.Status, t.Component} {
		if trimmed := strings.TrimSpace(field); trimmed != "" {
			labels = append(labels, strings.ToLower(trimmed))
		}
	}

	client, related := partitionLinks(t.Links, rs.ClientPrefix, baseURL)

	return Task{
		Content:     title,
		Description: buildDescription(t, baseURL, client, related),
		Labels:      dedupe(labels),
		Priority:    priority,
	}
}

// partitionLinks splits related issue keys into client links (key carries
// the reserved prefix) and everything else, each with a browse URL.
func partitionLinks(keys []string, clientPrefix, baseURL string) (client, related []link) {
	base := strings.TrimRight(baseURL, "/")
	for _, key := range keys {
		l := link{Key: key, URL: base + "/browse/" + key}
		if clientPrefix != "" && strings.HasPrefix(key, clientPrefix) {
			client = append(client, l)
		} else {
			related = append(related, l)
		}
	}
	return client, related
}

// buildDescription assembles the markdown description from the ticket
// fields, with the documented fallbacks for anything absent.
func buildDescription(t *ticket.Ticket, baseURL string, client, related []link) string {
	base := strings.TrimRight(baseURL, "/")

	var b strings.Builder

	key := t.Key
	if key == "" {
		key = "N/A"
	}
	b.WriteString(fmt.Sprintf("# [%s](%s/browse/%s): %s\n\n", key, base, key, orFallback(t.Summary, rules.TitlePlaceholder)))

	b.WriteString(fmt.Sprintf("**Client links:** %s\n", linkList(client)))
	b.WriteString(fmt.Sprintf("**Related links:** %s\n\n", linkList(related)))

	b.WriteString(fmt.Sprintf("**Assignee:** %s\n", orFallback(t.Assignee, "Unassigned")))
	b.WriteString(fmt.Sprintf("**Reporter:** %s\n", orFallback(t.Reporter, "N/A")))
	b.WriteString(fmt.Sprintf("**Created:** %s\n", orFallback(t.Created, "N/A")))
	b.WriteString(fmt.Sprintf("**Updated:** %s\n\n", orFallback(t.Updated, "N/A")))

	b.WriteString(fmt.Sprintf("**Description:** %s\n\n", orFallback(summarize(t.Description, rules.SummaryBudget), noDescription)))

	summary := summarize(strings.Join(t.Comments, " "), rules.SummaryBudget)
	switch n := len(t.Comments); {
	case n == 0:
		b.WriteString(fmt.Sprintf("**Comments:** %s\n", noComments))
	case n == 1:
		b.WriteString(fmt.Sprintf("**1 comment:** %s\n", summary))
	default:
		b.WriteString(fmt.Sprintf("**%d comments:** %s\n", n, summary))
	}

	return b.String()
}

// linkList renders links as markdown, or "None" when empty.
func linkList(links []link) string {
	if len(links) == 0 {
		return "None"
	}
	parts := make([]string, 0, len(links))
	for _, l := range links {
		parts = append(parts, fmt.Sprintf("[%s](%s)", l.Key, l.URL))
	}
	return strings.Join(parts, ", ")
}

// summarize collapses internal whitespace, truncates to the character
// budget and appends the ellipsis marker. Empty input yields "".
func summarize(text string, budget int) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	if collapsed == "" {
		return ""
	}
	r := []rune(collapsed)
	if len(r) > budget {
		r = r[:budget]
	}
	return string(r) + ellipsis
}

func orFallback(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// dedupe removes duplicate labels, preserving first-seen order and case.
func dedupe(labels []string) []string {
	out := make([]string, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}
