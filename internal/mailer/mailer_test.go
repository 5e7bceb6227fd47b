package mailer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderReengagement(t *testing.T) {
	t.Parallel()

	text, html, err := renderReengagement("alice", "https://hideout.example.com")
	require.NoError(t, err)

	assert.Contains(t, text, "Hi alice,")
	assert.Contains(t, text, "https://hideout.example.com")

	assert.Contains(t, html, "Hi alice,")
	assert.Contains(t, html, `href="https://hideout.example.com"`)
}

func TestRenderReengagement_EscapesHTML(t *testing.T) {
	t.Parallel()

	text, html, err := renderReengagement(`<script>alert("x")</script>`, "https://hideout.example.com")
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, strings.ToLower(html), "&lt;script&gt;")

	// The plain text body is not HTML and keeps the name verbatim.
	assert.Contains(t, text, `<script>alert("x")</script>`)
}
