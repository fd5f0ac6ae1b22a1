package handlers

import (
	"net/http"

	"github.com/pkg/errors"
)

func (p *Preview) Custom404Handler(w http.ResponseWriter, r *http.Request) {
	ctx := p.newContext(r.URL.Path)

	notFoundContent, err := p.templates.notFound.Exec(ctx)
	if err != nil {
		p.fail(w, r, errors.Wrap(err, "error rendering 404 page"))
		return
	}

	p.render(w, r, http.StatusNotFound, ctx, notFoundContent)
}
