package site

import (
	"github.com/ZacxDev/langbook/config"
	"github.com/ZacxDev/langbook/content"
	"github.com/ZacxDev/langbook/nav"
	"github.com/samber/lo"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Site is the validated configuration handed to the generator. It is built
// once and never modified.
type Site struct {
	Metadata    Metadata
	Navbar      []nav.NavEntry
	Sidebar     nav.Sidebar
	Diagnostics []nav.Diagnostic
}

type Options struct {
	// Content enables page titles for shorthand entries and dangling link
	// checks. Nil skips both.
	Content *content.Tree
	Logger  *zap.SugaredLogger
}

// Assemble validates the whole manifest. Malformed entries, duplicate
// routes and malformed metadata are returned as errors; everything else ends
// up in Site.Diagnostics.
func Assemble(m *config.SiteManifest, opts Options) (*Site, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	navOpts := nav.Options{LinkStyle: m.Site.LinkStyle}
	if opts.Content != nil {
		navOpts.Titles = opts.Content
	}

	meta, metaErr := AssembleMetadata(m.Site)
	navbar, navbarErr := nav.BuildNavbar(m.Navbar, navOpts)
	sidebar, diags, sidebarErr := nav.BuildSidebar(m.Sidebar, navOpts)
	if err := multierr.Combine(metaErr, navbarErr, sidebarErr); err != nil {
		return nil, err
	}

	s := &Site{
		Metadata: meta,
		Navbar:   navbar,
		Sidebar:  sidebar,
	}
	logger.Debugw("navigation assembled",
		"navbar_entries", len(navbar),
		"sidebar_scopes", len(sidebar.Scopes),
		"routes", len(s.Routes()))

	if opts.Content != nil {
		diags = append(diags, opts.Content.Check(s.Routes())...)
	}
	for _, d := range diags {
		logger.Debugw("diagnostic", "code", d.Code(), "route", d.Route, "message", d.Message)
	}
	s.Diagnostics = diags

	return s, nil
}

// Routes lists the internal navbar and sidebar routes, each path once.
func (s *Site) Routes() []nav.Route {
	routes := append(nav.NavbarRoutes(s.Navbar), s.Sidebar.Routes()...)
	return lo.UniqBy(routes, func(r nav.Route) string {
		return r.Path
	})
}

// Err returns the diagnostics that make the build fail.
func (s *Site) Err(strict bool) error {
	return nav.Escalate(s.Diagnostics, strict)
}

func (s *Site) Warnings() []nav.Diagnostic {
	return lo.Filter(s.Diagnostics, func(d nav.Diagnostic, _ int) bool {
		return d.Severity == nav.SeverityWarning
	})
}
