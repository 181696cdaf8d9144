package auth

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/ndbelyaev/inkwell/internal/templates/pages"
)

// LoginPage renders the login form. name is echoed back after a failed
// attempt; errMsg is shown above the form when non-empty.
func LoginPage(csrfToken, name, errMsg string) templ.Component {
	return pages.Layout("Sign in", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section class="auth-form"><h1>Sign in</h1>`); err != nil {
			return err
		}
		if err := writeFormError(w, errMsg); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w,
			`<form method="post" action="/login">`+
				`<input type="hidden" name="csrf_token" value="%s">`+
				`<label>Name<input type="text" name="name" value="%s" required></label>`+
				`<label>Password<input type="password" name="password" required></label>`+
				`<label class="remember"><input type="checkbox" name="remember" value="1"> Remember me</label>`+
				`<button type="submit">Sign in</button>`+
				`</form>`+
				`<p>No account? <a href="/registration">Sign up</a></p></section>`,
			templ.EscapeString(csrfToken),
			templ.EscapeString(name),
		)
		return err
	}))
}

// RegisterPage renders the signup form, echoing previous input on failure.
func RegisterPage(csrfToken string, req *RegisterRequest, errMsg string) templ.Component {
	email, name := "", ""
	if req != nil {
		email, name = req.Email, req.Name
	}
	return pages.Layout("Sign up", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section class="auth-form"><h1>Sign up</h1>`); err != nil {
			return err
		}
		if err := writeFormError(w, errMsg); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w,
			`<form method="post" action="/registration">`+
				`<input type="hidden" name="csrf_token" value="%s">`+
				`<label>Email<input type="email" name="email" value="%s" required></label>`+
				`<label>Name<input type="text" name="name" value="%s" required></label>`+
				`<label>Password<input type="password" name="password" required></label>`+
				`<label>Repeat password<input type="password" name="password2" required></label>`+
				`<button type="submit">Create account</button>`+
				`</form>`+
				`<p>Already registered? <a href="/login">Sign in</a></p></section>`,
			templ.EscapeString(csrfToken),
			templ.EscapeString(email),
			templ.EscapeString(name),
		)
		return err
	}))
}

// writeFormError writes the inline error banner when msg is non-empty.
func writeFormError(w io.Writer, msg string) error {
	if msg == "" {
		return nil
	}
	_, err := fmt.Fprintf(w, `<div class="flash flash-error">%s</div>`, templ.EscapeString(msg))
	return err
}
