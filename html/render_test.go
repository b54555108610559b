package html

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderRoundTrip(t *testing.T) {
	const src = `<!DOCTYPE html><html><head></head><body><p id="x" class="a">Hi &amp; bye</p><!--c--><script>if (a < b) {}</script></body></html>`
	doc, err := Parse(src)
	require.NoError(t, err)

	out, err := RenderString(doc.AsNode())
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestRenderAfterMutation(t *testing.T) {
	doc, err := Parse(`<p id="x">one</p>`)
	require.NoError(t, err)

	el := doc.CreateElement("span")
	el.SetAttribute("data-k", `"q"`)
	el.SetTextContent("two")
	doc.GetElementById("x").AppendChild(el.AsNode())

	var sb strings.Builder
	require.NoError(t, Render(&sb, doc.Body().AsNode()))
	assert.Equal(t, `<body><p id="x">one<span data-k="&#34;q&#34;">two</span></p></body>`, sb.String())

	assert.Error(t, Render(&sb, nil))
}
