package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetLevel_FiltersRecords(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetLevel("warn")
	})

	SetLevel("warn")
	Infof("fetching %s", "en.wikipedia.org")
	Warnf("slow response from %s", "en.wikipedia.org")
	assert.NotContains(t, buf.String(), "fetching")
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "slow response from en.wikipedia.org")

	buf.Reset()
	SetLevel("DEBUG")
	Debugf("%d namespaces", 2)
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), `msg="2 namespaces"`)

	buf.Reset()
	SetLevel("bogus")
	Infof("hidden")
	Warnf("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `msg=shown`)

	buf.Reset()
	SetLevel("error")
	Warnf("quiet")
	assert.Empty(t, buf.String())
}
