package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/chrisuehlinger/domsugar/config"
	"github.com/chrisuehlinger/domsugar/events"
)

const page = `<!DOCTYPE html>
<html><body>
<form id="form"><button id="save" class="btn">Save</button></form>
<p id="status"></p>
</body></html>`

const script = `
document.ready(function () {
	document.find('#status').textContent = 'ready';
});
document.find('#form').on('click', '.btn', function (e) {
	this.setAttribute('data-clicked', 'yes');
	e.preventDefault();
});
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseDispatch(t *testing.T) {
	typ, sel, err := parseDispatch("click@#save")
	require.NoError(t, err)
	assert.Equal(t, "click", typ)
	assert.Equal(t, "#save", sel)

	for _, bad := range []string{"click", "@#save", "click@", ""} {
		_, _, err := parseDispatch(bad)
		assert.Error(t, err, bad)
	}

	var d dispatchFlags
	require.NoError(t, d.Set("keydown@body"))
	assert.Error(t, d.Set("nope"))
	assert.Equal(t, "keydown@body", d.String())
}

func TestSession(t *testing.T) {
	for _, mode := range []events.Mode{events.ModeAuto, events.ModeLegacy} {
		t.Run(string(mode), func(t *testing.T) {
			cfg := config.Default()
			cfg.Events.Backend = string(mode)

			s, err := newSession(cfg, zaptest.NewLogger(t), strings.NewReader(page))
			require.NoError(t, err)
			s.runScript(script, "app.js")
			s.win.Load()
			require.NoError(t, s.dispatch("click@#save"))
			require.NoError(t, s.dispatch("click@#missing"))
			require.NoError(t, s.err())

			assert.Equal(t, "ready", s.doc.GetElementById("status").TextContent())
			assert.Equal(t, "yes", s.doc.GetElementById("save").GetAttribute("data-clicked"))
		})
	}
}

func TestSessionScriptErrors(t *testing.T) {
	s, err := newSession(config.Default(), zaptest.NewLogger(t), strings.NewReader(page))
	require.NoError(t, err)

	s.runScript("document.body.on('click', function () { undefinedThing(); });", "bad.js")
	require.NoError(t, s.err())

	require.NoError(t, s.dispatch("click@body"))
	assert.Error(t, s.err())
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	htmlPath := writeFile(t, "page.html", page)
	scriptPath := writeFile(t, "app.js", script)

	err := execute(ctx, config.Default(), zaptest.NewLogger(t), options{html: htmlPath, script: scriptPath, dispatches: []string{"click@#save"}})
	assert.NoError(t, err)

	broken := writeFile(t, "broken.js", "function (")
	err = execute(ctx, config.Default(), zaptest.NewLogger(t), options{html: htmlPath, script: broken})
	assert.Error(t, err)

	err = execute(ctx, config.Default(), zaptest.NewLogger(t), options{html: filepath.Join(t.TempDir(), "missing.html")})
	assert.Error(t, err)

	cfg := config.Default()
	cfg.Events.Backend = "native"
	_, err = newSession(cfg, zaptest.NewLogger(t), strings.NewReader(page))
	assert.NoError(t, err)
	cfg.Events.Backend = "telepathy"
	_, err = newSession(cfg, zaptest.NewLogger(t), strings.NewReader(page))
	assert.True(t, errors.Is(err, events.ErrInvalidMode))
}

func TestExecutePageScripts(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib.js"), []byte(`
		var booted = [];
		document.ready(function () { booted.push('lib'); });
	`), 0o644))
	htmlPath := filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(htmlPath, []byte(`<html><head>
<script src="lib.js"></script>
<script>booted.push('inline');</script>
</head><body></body></html>`), 0o644))
	check := writeFile(t, "check.js", `
		window.load(function () {
			if (booted.join(',') !== 'inline,lib') { throw new Error('order: ' + booted.join(',')); }
		});
	`)

	err := execute(context.Background(), config.Default(), zaptest.NewLogger(t), options{html: htmlPath, script: check})
	assert.NoError(t, err)

	cfg := config.Default()
	cfg.Script.PageScripts = false
	err = execute(context.Background(), cfg, zaptest.NewLogger(t), options{html: htmlPath, script: check})
	assert.Error(t, err, "booted is undefined without the page scripts")

	var out strings.Builder
	err = execute(context.Background(), config.Default(), zaptest.NewLogger(t), options{
		html:   "data:text/html,<p id=x>data</p>",
		script: "data:,document.find('#x').textContent = 'ok';",
		dump:   &out,
	})
	assert.NoError(t, err)
	assert.Contains(t, out.String(), `<p id="x">ok</p>`)
}

func TestExecuteMissingPageScript(t *testing.T) {
	dir := t.TempDir()
	htmlPath := filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(htmlPath, []byte(`<html><head>
<script>document.ready(function () { document.body.textContent = 'ran'; });</script>
<script src="missing.js"></script>
</head><body></body></html>`), 0o644))

	var out strings.Builder
	err := execute(context.Background(), config.Default(), zaptest.NewLogger(t), options{
		html:       htmlPath,
		dispatches: []string{"click@body"},
		dump:       &out,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.js")
	assert.Contains(t, out.String(), "<body>ran</body>")
}

func TestRunUsage(t *testing.T) {
	var out strings.Builder
	assert.Equal(t, 2, run(nil, &out, &out))
	assert.Contains(t, out.String(), "Usage")

	out.Reset()
	assert.Equal(t, 2, run([]string{"-dispatch", "nope", "-html", "x.html"}, &out, &out))

	out.Reset()
	cfgPath := writeFile(t, "bad.yaml", "events:\n  backend: smoke-signals\n")
	assert.Equal(t, 1, run([]string{"-html", "x.html", "-config", cfgPath}, &out, &out))
	assert.Contains(t, out.String(), "invalid events.backend")
}
