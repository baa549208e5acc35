package ticket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlatExport(t *testing.T) {
	raw := []byte(`<ticket>
		<key>TF-100</key>
		<summary>Crash on save</summary>
		<description>Editor crashes when saving large files.</description>
		<reporter>alice@example.com</reporter>
		<assignee>bob@example.com</assignee>
		<created>2026-01-02T10:00:00Z</created>
		<updated>2026-01-03T09:30:00Z</updated>
		<priority>P1</priority>
		<fixVersion>TF-2410</fixVersion>
		<type>Bug</type>
		<status>Open</status>
		<component>Editor</component>
		<issuelink><issuekey>TFC-9</issuekey></issuelink>
		<issuelink><issuekey>TF-2</issuekey></issuelink>
		<comment>First comment</comment>
		<comment>Second comment</comment>
	</ticket>`)

	tk, err := Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "TF-100", tk.Key)
	assert.Equal(t, "Crash on save", tk.Summary)
	assert.Equal(t, "Editor crashes when saving large files.", tk.Description)
	assert.Equal(t, "alice@example.com", tk.Reporter)
	assert.Equal(t, "bob@example.com", tk.Assignee)
	assert.Equal(t, "P1", tk.Priority)
	assert.Equal(t, "TF-2410", tk.FixVersion)
	assert.Equal(t, "Bug", tk.Type)
	assert.Equal(t, "Open", tk.Status)
	assert.Equal(t, "Editor", tk.Component)
	assert.Equal(t, []string{"TFC-9", "TF-2"}, tk.Links)
	assert.Equal(t, []string{"First comment", "Second comment"}, tk.Comments)
}

func TestParseRSSWrappedExport(t *testing.T) {
	raw := []byte(`<rss version="0.92"><channel><item>
		<key>TF-7</key>
		<summary>Wrapped issue</summary>
		<issuelinks><issuelink><issuekey>TF-8</issuekey></issuelink></issuelinks>
		<comments><comment>Nested comment</comment></comments>
	</item></channel></rss>`)

	tk, err := Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "TF-7", tk.Key)
	assert.Equal(t, "Wrapped issue", tk.Summary)
	assert.Equal(t, []string{"TF-8"}, tk.Links)
	assert.Equal(t, []string{"Nested comment"}, tk.Comments)
}

func TestParseMissingFieldsAreNotErrors(t *testing.T) {
	tk, err := Parse([]byte(`<ticket><summary>Only a summary</summary></ticket>`))
	require.NoError(t, err)

	assert.Equal(t, "Only a summary", tk.Summary)
	assert.Empty(t, tk.Key)
	assert.Empty(t, tk.Priority)
	assert.Empty(t, tk.Links)
	assert.Empty(t, tk.Comments)
}

func TestParseMalformedXML(t *testing.T) {
	cases := map[string]string{
		"unterminated tag":   `<ticket><summary>Crash`,
		"mismatched closing": `<ticket><summary>Crash</wrong></ticket>`,
		"not xml at all":     `{"summary": "Crash"}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(raw))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestParseDuplicateLinksPreserved(t *testing.T) {
	raw := []byte(`<ticket>
		<issuelink><issuekey>TF-2</issuekey></issuelink>
		<issuelink><issuekey>TF-2</issuekey></issuelink>
	</ticket>`)

	tk, err := Parse(raw)
	require.NoError(t, err)

	// Dedup, if any, happens downstream.
	assert.Equal(t, []string{"TF-2", "TF-2"}, tk.Links)
}

func TestParseEmptyChannel(t *testing.T) {
	tk, err := Parse([]byte(`<rss><channel></channel></rss>`))
	require.NoError(t, err)
	assert.Empty(t, tk.Key)
	assert.Empty(t, tk.Summary)
}
