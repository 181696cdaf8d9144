package blog

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/ndbelyaev/inkwell/internal/templates/layouts"
	"github.com/ndbelyaev/inkwell/internal/templates/pages"
)

// FeedPage renders the paginated post feed on the front page.
func FeedPage(p *PostPage) templ.Component {
	return pages.Layout("Home", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section class="feed">`); err != nil {
			return err
		}

		if layouts.IsAuthenticated(ctx) {
			if _, err := io.WriteString(w,
				`<p class="feed-actions"><a href="/posts/new" class="button">Write a post</a></p>`,
			); err != nil {
				return err
			}
		}

		if len(p.Posts) == 0 {
			if _, err := io.WriteString(w,
				`<p class="feed-empty">Nothing here yet. Check back soon.</p>`,
			); err != nil {
				return err
			}
		}

		for i := range p.Posts {
			if err := postCard(&p.Posts[i]).Render(ctx, w); err != nil {
				return err
			}
		}

		if err := pagination(p).Render(ctx, w); err != nil {
			return err
		}

		_, err := io.WriteString(w, `</section>`)
		return err
	}))
}

// postCard renders one feed entry: title linking to the article, author,
// date, and the summary when one was written.
func postCard(p *Post) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<article class="post-card"><h2><a href="/blog/%s">%s</a></h2>`+
				`<p class="post-meta">%s · %s</p>`,
			templ.EscapeString(p.Slug),
			templ.EscapeString(p.Title),
			templ.EscapeString(p.AuthorName),
			p.CreatedAt.Format("January 2, 2006"),
		); err != nil {
			return err
		}
		if p.Summary != nil && *p.Summary != "" {
			if _, err := fmt.Fprintf(w, `<p class="post-summary">%s</p>`,
				templ.EscapeString(*p.Summary)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</article>`)
		return err
	})
}

// pagination renders older/newer links when more than one page exists.
func pagination(p *PostPage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if p.TotalPages <= 1 {
			return nil
		}
		if _, err := io.WriteString(w, `<nav class="pagination">`); err != nil {
			return err
		}
		if p.HasPrev() {
			if _, err := fmt.Fprintf(w, `<a href="/?page=%d">&larr; Newer</a>`, p.Page-1); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, `<span>Page %d of %d</span>`, p.Page, p.TotalPages); err != nil {
			return err
		}
		if p.HasNext() {
			if _, err := fmt.Fprintf(w, `<a href="/?page=%d">Older &rarr;</a>`, p.Page+1); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</nav>`)
		return err
	})
}

// PostPageView renders a single article. The body HTML was sanitized on
// write, so it is emitted raw here.
func PostPageView(p *Post) templ.Component {
	return pages.Layout(p.Title, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<article class="post"><h1>%s</h1><p class="post-meta">%s · %s</p>`,
			templ.EscapeString(p.Title),
			templ.EscapeString(p.AuthorName),
			p.CreatedAt.Format("January 2, 2006"),
		); err != nil {
			return err
		}
		if err := templ.Raw(p.BodyHTML).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</article><p><a href="/">&larr; All posts</a></p>`)
		return err
	}))
}

// NewPostPage renders the authoring form. errMsg, when non-empty, is shown
// inline above the form with the submitted values preserved.
func NewPostPage(csrfToken string, req *CreatePostRequest, errMsg string) templ.Component {
	var title, summary, body string
	if req != nil {
		title, summary, body = req.Title, req.Summary, req.Body
	}
	return pages.Layout("New post", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section class="post-form"><h1>New post</h1>`); err != nil {
			return err
		}
		if errMsg != "" {
			if _, err := fmt.Fprintf(w, `<div class="form-error">%s</div>`,
				templ.EscapeString(errMsg)); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w,
			`<form method="post" action="/posts">`+
				`<input type="hidden" name="csrf_token" value="%s">`+
				`<label>Title<input type="text" name="title" value="%s" required maxlength="200"></label>`+
				`<label>Summary<input type="text" name="summary" value="%s" maxlength="500"></label>`+
				`<label>Body<textarea name="body" rows="16" required>%s</textarea></label>`+
				`<button type="submit">Publish</button>`+
				`</form></section>`,
			templ.EscapeString(csrfToken),
			templ.EscapeString(title),
			templ.EscapeString(summary),
			templ.EscapeString(body),
		)
		return err
	}))
}
