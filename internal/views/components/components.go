package components

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// StatCard renders a headline figure with an optional delta and caption.
func StatCard(label, value, delta, caption string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		html := `<div class="rounded-lg border border-stone-200 bg-white p-4" data-stat="` + templ.EscapeString(label) + `">` +
			`<p class="text-xs uppercase tracking-wide text-stone-500">` + templ.EscapeString(label) + `</p>` +
			`<p class="mt-1 text-2xl font-semibold">` + templ.EscapeString(value) + `</p>`
		if delta != "" {
			html += `<p class="text-sm ` + deltaClass(delta) + `">` + templ.EscapeString(delta) + `</p>`
		}
		if caption != "" {
			html += `<p class="text-xs text-stone-400">` + templ.EscapeString(caption) + `</p>`
		}
		html += `</div>`
		_, err := io.WriteString(w, html)
		return err
	})
}

// Notice renders a flash message. Empty messages render nothing.
func Notice(kind, message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if message == "" {
			return nil
		}
		_, err := io.WriteString(w, `<div role="alert" class="`+noticeClass(kind)+`">`+templ.EscapeString(message)+`</div>`)
		return err
	})
}

func deltaClass(delta string) string {
	if len(delta) > 0 && delta[0] == '-' {
		return "text-emerald-600"
	}
	return "text-rose-600"
}

func noticeClass(kind string) string {
	switch kind {
	case "error":
		return "rounded border border-rose-200 bg-rose-50 px-3 py-2 text-rose-700"
	case "warning":
		return "rounded border border-amber-200 bg-amber-50 px-3 py-2 text-amber-800"
	default:
		return "rounded border border-stone-200 bg-stone-100 px-3 py-2 text-stone-700"
	}
}
