// Package ticket parses issue-tracker XML exports into an in-memory
// Ticket. Parsing is tolerant: any individual field may be absent, only
// structural XML malformedness is an error.
package ticket

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMalformed is returned when the input does not parse as well-formed XML.
var ErrMalformed = errors.New("malformed ticket XML")

// Ticket is the structured representation of one exported issue.
// It lives for a single compile call and is not persisted.
type Ticket struct {
	Key         string
	Summary     string
	Description string
	Reporter    string
	Assignee    string
	Created     string
	Updated     string
	Priority    string // free-text code, e.g. "P1"
	FixVersion  string
	Type        string
	Status      string
	Component   string
	Links       []string // related issue keys, document order, duplicates kept
	Comments    []string // comment texts, document order
}

// xmlIssue mirrors the issue-shaped element of the export. Jira's RSS
// export wraps the issue in rss/channel/item and nests comments and
// issue links under container elements; hand-rolled exports use a flat
// shape. Both are accepted.
type xmlIssue struct {
	Key         string       `xml:"key"`
	Summary     string       `xml:"summary"`
	Description string       `xml:"description"`
	Reporter    string       `xml:"reporter"`
	Assignee    string       `xml:"assignee"`
	Created     string       `xml:"created"`
	Updated     string       `xml:"updated"`
	Priority    string       `xml:"priority"`
	FixVersion  string       `xml:"fixVersion"`
	Type        string       `xml:"type"`
	Status      string       `xml:"status"`
	Component   string       `xml:"component"`
	Links       []xmlLink    `xml:"issuelink"`
	NestedLinks []xmlLink    `xml:"issuelinks>issuelink"`
	Comments    []xmlComment `xml:"comment"`
	NestedComms []xmlComment `xml:"comments>comment"`
}

type xmlLink struct {
	IssueKey string `xml:"issuekey"`
	CharData string `xml:",chardata"`
}

type xmlComment struct {
	Text string `xml:",chardata"`
}

// issue element names recognized when the issue is not the document root.
var issueElements = map[string]bool{
	"item":   true,
	"issue":  true,
	"ticket": true,
}

// Parse converts a raw XML document into a Ticket. It fails only when
// the document is not well-formed XML; absent fields yield zero values.
func Parse(data []byte) (*Ticket, error) {
	root, err := findIssueElement(data)
	if err != nil {
		return nil, err
	}

	t := &Ticket{
		Key:         strings.TrimSpace(root.Key),
		Summary:     strings.TrimSpace(root.Summary),
		Description: strings.TrimSpace(root.Description),
		Reporter:    strings.TrimSpace(root.Reporter),
		Assignee:    strings.TrimSpace(root.Assignee),
		Created:     strings.TrimSpace(root.Created),
		Updated:     strings.TrimSpace(root.Updated),
		Priority:    strings.TrimSpace(root.Priority),
		FixVersion:  strings.TrimSpace(root.FixVersion),
		Type:        strings.TrimSpace(root.Type),
		Status:      strings.TrimSpace(root.Status),
		Component:   strings.TrimSpace(root.Component),
	}

	for _, l := range append(root.Links, root.NestedLinks...) {
		key := strings.TrimSpace(l.IssueKey)
		if key == "" {
			key = strings.TrimSpace(l.CharData)
		}
		if key != "" {
			t.Links = append(t.Links, key)
		}
	}

	for _, c := range append(root.Comments, root.NestedComms...) {
		if text := strings.TrimSpace(c.Text); text != "" {
			t.Comments = append(t.Comments, text)
		}
	}

	return t, nil
}

// findIssueElement walks the token stream to the issue-shaped element
// (document root, or a nested item/issue/ticket element) and decodes it.
// The full document is always consumed so trailing malformedness is
// still reported.
func findIssueElement(data []byte) (*xmlIssue, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var (
		root       *xmlIssue
		depth      int
		sawElement bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		sawElement = true
		depth++
		if root == nil && ((depth == 1 && !containerElement(start.Name.Local)) || issueElements[start.Name.Local]) {
			var issue xmlIssue
			if err := dec.DecodeElement(&issue, &start); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
			}
			root = &issue
			depth--
		}
	}

	if !sawElement {
		return nil, fmt.Errorf("%w: no XML element found", ErrMalformed)
	}
	if root == nil {
		// Well-formed but empty (e.g. an rss/channel with no item):
		// treated as a ticket with every field absent.
		root = &xmlIssue{}
	}
	return root, nil
}

// containerElement reports whether a root element is a known wrapper
// around the issue rather than the issue itself.
func containerElement(name string) bool {
	return name == "rss" || name == "channel"
}
