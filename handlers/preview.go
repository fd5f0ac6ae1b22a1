package handlers

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"github.com/ZacxDev/langbook/content"
	"github.com/ZacxDev/langbook/nav"
	"github.com/ZacxDev/langbook/site"
	"github.com/ZacxDev/langbook/utils"
	"github.com/gobuffalo/plush"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

//go:embed templates/*.plush.html
var templateFS embed.FS

type templates struct {
	layout   *plush.Template
	notFound *plush.Template
	missing  *plush.Template
}

func parseTemplates() (*templates, error) {
	parse := func(name string) (*plush.Template, error) {
		raw, err := templateFS.ReadFile("templates/" + name)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		t, err := plush.Parse(string(raw))
		if err != nil {
			return nil, errors.Wrapf(err, "error parsing %s", name)
		}
		return t, nil
	}

	var (
		t   templates
		err error
	)
	if t.layout, err = parse("layout.plush.html"); err != nil {
		return nil, err
	}
	if t.notFound, err = parse("404.plush.html"); err != nil {
		return nil, err
	}
	if t.missing, err = parse("missing.plush.html"); err != nil {
		return nil, err
	}
	return &t, nil
}

// Preview serves the assembled navigation so it can be checked in a
// browser before the real generator runs.
type Preview struct {
	site      *site.Site
	content   *content.Tree
	templates *templates
	routes    map[string]nav.Route
	logger    *zap.SugaredLogger
}

// SetupRouter builds the preview router. tree may be nil, in which case
// every navigation route renders as a missing page.
func SetupRouter(s *site.Site, tree *content.Tree, origin string, logger *zap.SugaredLogger) (*mux.Router, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	t, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	routes := s.Routes()
	p := &Preview{
		site:      s,
		content:   tree,
		templates: t,
		routes: lo.SliceToMap(lo.UniqBy(routes, routeKey), func(r nav.Route) (string, nav.Route) {
			return routeKey(r), r
		}),
		logger: logger,
	}

	sitemap, err := utils.GenerateSitemapContent(origin, s.Metadata.Base, lo.Map(routes, func(r nav.Route, _ int) string {
		return r.Path
	}), time.Now())
	if err != nil {
		return nil, errors.Wrap(err, "error generating sitemap")
	}

	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(p.Custom404Handler)

	router.HandleFunc("/api/navbar", p.jsonHandler(s.Navbar)).Methods("GET")
	router.HandleFunc("/api/sidebar", p.jsonHandler(s.Sidebar)).Methods("GET")
	router.HandleFunc("/api/site", p.jsonHandler(s.Metadata)).Methods("GET")
	router.HandleFunc("/api/diagnostics", p.jsonHandler(diagnosticViews(s.Diagnostics))).Methods("GET")
	router.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write(sitemap)
	}).Methods("GET")
	router.PathPrefix("/").HandlerFunc(p.PageHandler).Methods("GET")

	return router, nil
}

// routeKey matches a route against request paths, which never carry a
// query or fragment.
func routeKey(r nav.Route) string {
	return nav.Clean(nav.PagePath(r.Path))
}

func (p *Preview) jsonHandler(v interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			p.logger.Errorw("error encoding response", "path", r.URL.Path, "error", err)
		}
	}
}

// PageHandler renders a page with the navbar and the sidebar of the scope
// the path falls in.
func (p *Preview) PageHandler(w http.ResponseWriter, r *http.Request) {
	current := r.URL.Path
	route, linked := p.routes[nav.Clean(current)]

	var page *content.Page
	if p.content != nil {
		var err error
		if page, err = p.content.Page(current); err != nil {
			page = nil
		}
	}

	if page == nil && !linked {
		p.Custom404Handler(w, r)
		return
	}

	ctx := p.newContext(current)
	var (
		body string
		err  error
	)
	if page != nil {
		title := page.Title()
		if title == "" {
			title = route.Label
		}
		ctx.Set("title", title)
		body = string(page.HTML())
	} else {
		ctx.Set("label", route.Label)
		ctx.Set("candidates", content.Candidates(current))
		body, err = p.templates.missing.Exec(ctx)
		if err != nil {
			p.fail(w, r, errors.Wrap(err, "error rendering missing page"))
			return
		}
	}

	p.render(w, r, http.StatusOK, ctx, body)
}

func (p *Preview) newContext(current string) *plush.Context {
	meta := p.site.Metadata

	ctx := plush.NewContext()
	ctx.Set("lang", meta.Lang)
	ctx.Set("title", meta.Title)
	ctx.Set("head", site.RenderHead(meta.Head))
	ctx.Set("currentPath", current)
	ctx.Set("navbar", navItems(p.site.Navbar, current))

	scope, ok := p.site.Sidebar.ScopeFor(current)
	rows := []sidebarRow{}
	if ok {
		rows = sidebarRows(rows, scope.Items, 0, current)
	}
	ctx.Set("scope", scope.Prefix)
	ctx.Set("sidebar", rows)
	ctx.Set("hasSidebar", len(rows) > 0)
	return ctx
}

func (p *Preview) render(w http.ResponseWriter, r *http.Request, status int, ctx *plush.Context, body string) {
	ctx.Set("yield", template.HTML(body))

	pageHTML, err := p.templates.layout.Exec(ctx)
	if err != nil {
		p.fail(w, r, errors.Wrap(err, "error executing layout"))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(pageHTML)); err != nil {
		p.logger.Errorw("error writing response", "path", r.URL.Path, "error", err)
	}
}

func (p *Preview) fail(w http.ResponseWriter, r *http.Request, err error) {
	p.logger.Errorw("preview failed", "path", r.URL.Path, "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
