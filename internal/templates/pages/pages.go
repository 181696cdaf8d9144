// Package pages holds the shared site layout and the standalone pages
// (about, error). Components are written directly against the templ runtime
// (templ.ComponentFunc) rather than generated from .templ sources -- the
// markup here is small enough that the generator would be overhead.
package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/ndbelyaev/inkwell/internal/templates/layouts"
)

// Layout wraps a body component with the site chrome: head, nav with
// login/logout links depending on session state, and flash banners.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`+
				`<meta name="viewport" content="width=device-width, initial-scale=1">`+
				`<title>%s — Inkwell</title>`+
				`<link rel="stylesheet" href="/static/css/site.css">`+
				`</head><body><header class="site-header"><nav>`+
				`<a href="/" class="brand">Inkwell</a>`+
				`<a href="/about">About</a>`,
			templ.EscapeString(title),
		); err != nil {
			return err
		}

		if layouts.IsAuthenticated(ctx) {
			if _, err := fmt.Fprintf(w,
				`<span class="nav-user">%s</span><a href="/logout">Log out</a>`,
				templ.EscapeString(layouts.GetUserName(ctx)),
			); err != nil {
				return err
			}
		} else {
			if _, err := io.WriteString(w,
				`<a href="/login">Log in</a><a href="/registration">Sign up</a>`,
			); err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, `</nav></header><main>`); err != nil {
			return err
		}

		if msg := layouts.GetFlashSuccess(ctx); msg != "" {
			if _, err := fmt.Fprintf(w, `<div class="flash flash-success">%s</div>`,
				templ.EscapeString(msg)); err != nil {
				return err
			}
		}
		if msg := layouts.GetFlashError(ctx); msg != "" {
			if _, err := fmt.Fprintf(w, `<div class="flash flash-error">%s</div>`,
				templ.EscapeString(msg)); err != nil {
				return err
			}
		}

		if err := body.Render(ctx, w); err != nil {
			return err
		}

		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}

// About renders the static about page.
func About() templ.Component {
	return Layout("About", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w,
			`<article class="about"><h1>About Inkwell</h1>`+
				`<p>Inkwell is a small self-hosted blog with reader accounts.</p></article>`,
		)
		return err
	}))
}

// ErrorPage renders a friendly error page for the given status code.
func ErrorPage(code int, message string) templ.Component {
	return Layout("Error", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<section class="error-page"><h1>%d</h1><p>%s</p><a href="/">Back to the blog</a></section>`,
			code, templ.EscapeString(message),
		)
		return err
	}))
}
