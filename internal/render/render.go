// Package render turns typed view models into complete HTML documents.
//
// Every page shares one shell (language tag, head, navbar, content section).
// Document pages fill the content section with the header fields and the
// rendered markdown; the index page fills it with the grouped listing.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"git.home.luguber.info/inful/ralog/internal/document"
)

//go:embed views/*.html.tmpl
var viewFS embed.FS

// EntryView is one linked thumbnail on the index page.
type EntryView struct {
	Href  string
	Image string
	Name  string
}

// GroupView is one location section on the index page.
type GroupView struct {
	Location string
	Entries  []EntryView
}

type pageView struct {
	document.Header
	Body template.HTML
}

type shellView struct {
	Site    Site
	Title   string
	Content template.HTML
}

// Renderer executes the embedded views. It is safe for concurrent use.
type Renderer struct {
	site  Site
	views *template.Template
}

// New parses the embedded views for site.
func New(site Site) (*Renderer, error) {
	if site.LogoAlt == "" {
		site.LogoAlt = site.Title
	}
	views, err := template.New("ralog").Option("missingkey=error").ParseFS(viewFS, "views/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse views: %w", err)
	}
	return &Renderer{site: site, views: views}, nil
}

// Site returns the presentation settings the renderer was built with.
func (r *Renderer) Site() Site { return r.site }

// RenderPage renders the page for one document. body is a trusted HTML fragment.
func (r *Renderer) RenderPage(header document.Header, body []byte) ([]byte, error) {
	content, err := r.fragment("page", pageView{Header: header, Body: template.HTML(body)}) // #nosec G203 -- body is our own markdown output
	if err != nil {
		return nil, err
	}
	return r.shell(r.site.PageTitle(header.Name), content)
}

// RenderIndex renders the landing page around the aggregated listing fragment.
func (r *Renderer) RenderIndex(listing template.HTML) ([]byte, error) {
	return r.shell(r.site.Title, listing)
}

// RenderGroups renders the grouped listing fragment for the index page.
func (r *Renderer) RenderGroups(groups []GroupView) (template.HTML, error) {
	return r.fragment("groups", groups)
}

func (r *Renderer) fragment(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.views.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil // #nosec G203 -- produced by html/template
}

func (r *Renderer) shell(title string, content template.HTML) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.views.ExecuteTemplate(&buf, "shell", shellView{Site: r.site, Title: title, Content: content}); err != nil {
		return nil, fmt.Errorf("render shell: %w", err)
	}
	return buf.Bytes(), nil
}
