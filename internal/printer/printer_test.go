package printer

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/colonyops/powerbar/pkg/tuitest"
)

func TestPrinter_Lines(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.Section("Config")
	p.Successf("loaded %s", "config.yaml")
	p.Warnf("no credentials")
	p.Errorf("%d error(s) found", 2)
	p.Infof("demo catalog")
	p.Printf("  detail")

	assert.Equal(t, "Config\n✔ loaded config.yaml\n! no credentials\n✘ 2 error(s) found\n• demo catalog\n  detail",
		tuitest.StripANSI(buf.String()))
}

func TestCtx(t *testing.T) {
	var buf bytes.Buffer
	ctx := NewContext(context.Background(), New(&buf))

	Ctx(ctx).Printf("hello")

	assert.Equal(t, "hello\n", buf.String())
	assert.NotNil(t, Ctx(context.Background()))
}
