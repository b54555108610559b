package js

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestRuntimeExecute(t *testing.T) {
	r := NewRuntime(zaptest.NewLogger(t))

	result, err := r.Execute("1 + 2")
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.ToInteger())

	_, err = r.Execute("var x = 42; function add(a, b) { return a + b; }")
	require.NoError(t, err)
	result, err = r.Execute("add(x, 1)")
	require.NoError(t, err)
	assert.Equal(t, int64(43), result.ToInteger())
	assert.Empty(t, r.Errors())
}

func TestRuntimeErrors(t *testing.T) {
	r := NewRuntime(nil)
	var reported []error
	r.SetOnError(func(err error) { reported = append(reported, err) })

	_, err := r.Execute("throw new Error('boom')")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	err = r.ExecuteScript("function (", "broken.js")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.js")

	assert.Len(t, r.Errors(), 2)
	assert.Len(t, reported, 2)

	r.ClearErrors()
	assert.Empty(t, r.Errors())
}

func TestConsole(t *testing.T) {
	r := NewRuntime(zaptest.NewLogger(t))
	_, err := r.Execute(`
		console.log("hello", 1, null, undefined);
		console.warn("careful");
		console.error("bad");
		console.debug("quiet");
		console.assert(1 === 2, "math");
		console.count(); console.count("x");
	`)
	require.NoError(t, err)
	assert.Empty(t, r.Errors())
}
