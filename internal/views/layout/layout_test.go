package layout

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/a-h/templ"
)

func TestLayoutRendersProvidedContent(t *testing.T) {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := w.Write([]byte("<section>content</section>"))
		return err
	})

	var buf bytes.Buffer
	if err := Layout("Cost report", content).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render layout: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<title>Cost report</title>") {
		t.Fatalf("expected document title to be rendered: %s", out)
	}
	if !strings.Contains(out, "<section>content</section>") {
		t.Fatalf("expected content in output: %s", out)
	}
	if !strings.HasSuffix(out, "</main></body></html>") {
		t.Fatalf("expected document to be closed: %s", out)
	}
}

func TestLayoutEscapesTitle(t *testing.T) {
	var buf bytes.Buffer
	if err := Layout("<script>", nil).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render layout: %v", err)
	}
	if strings.Contains(buf.String(), "<title><script>") {
		t.Fatalf("expected title to be escaped: %s", buf.String())
	}
}
