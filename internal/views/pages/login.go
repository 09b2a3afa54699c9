package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"franchiseops/internal/views/components"
	"franchiseops/internal/views/layout"
)

// Login renders the full sign-in page.
func Login(message, email string) templ.Component {
	return layout.Layout("Sign in", LoginPartial(message, email))
}

// LoginPartial renders the sign-in form for HTMX swaps.
func LoginPartial(message, email string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section id="login" class="mx-auto max-w-sm space-y-4"><h1 class="text-xl font-semibold">Sign in</h1>`); err != nil {
			return err
		}
		if err := components.Notice("error", message).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `<form method="post" action="/login" hx-post="/login" hx-target="#login" hx-swap="outerHTML" class="space-y-3">`+
			`<label class="block">Email<input type="email" name="email" required value="`+templ.EscapeString(email)+`"></label>`+
			`<label class="block">Password<input type="password" name="password" required></label>`+
			`<button type="submit">Sign in</button></form></section>`)
		return err
	})
}
