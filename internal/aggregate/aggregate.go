// Package aggregate groups rendered pages by location for the index page.
package aggregate

import (
	"fmt"
	"html/template"
	"net/url"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/ralog/internal/document"
	"git.home.luguber.info/inful/ralog/internal/render"
)

// Order selects how location groups are sorted.
type Order string

const (
	// OrderCollated sorts locations with the collation rules of a language.
	OrderCollated Order = "collated"
	// OrderLexical sorts locations by byte order.
	OrderLexical Order = "lexical"
	// OrderFirstSeen keeps locations in the order they were first encountered.
	OrderFirstSeen Order = "first_seen"
)

// Orders lists every supported Order.
var Orders = []Order{OrderCollated, OrderLexical, OrderFirstSeen}

// ParseOrder validates a configured order name. The empty string selects
// OrderCollated.
func ParseOrder(s string) (Order, error) {
	if s == "" {
		return OrderCollated, nil
	}
	o := Order(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Orders, o) {
		return "", fmt.Errorf("unknown index order %q", s)
	}
	return o, nil
}

// Entry is one rendered page as seen by the index.
type Entry struct {
	OutputPath string
	Header     document.Header
}

// Group is every entry sharing one location, in discovery order.
type Group struct {
	Location string
	Entries  []Entry
}

type options struct {
	lang language.Tag
}

// Option configures GroupBy.
type Option func(*options)

// WithLanguage sets the collation language used by OrderCollated.
func WithLanguage(tag language.Tag) Option {
	return func(o *options) { o.lang = tag }
}

// GroupBy partitions entries by Location. Every entry lands in exactly one
// group and keeps its relative order.
func GroupBy(entries []Entry, order Order, opts ...Option) []Group {
	cfg := options{lang: render.DefaultLang}
	for _, opt := range opts {
		opt(&cfg)
	}

	index := make(map[string]int)
	var groups []Group
	for _, e := range entries {
		i, ok := index[e.Header.Location]
		if !ok {
			i = len(groups)
			index[e.Header.Location] = i
			groups = append(groups, Group{Location: e.Header.Location})
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}

	switch order {
	case OrderFirstSeen:
	case OrderLexical:
		slices.SortStableFunc(groups, func(a, b Group) int {
			return strings.Compare(a.Location, b.Location)
		})
	default:
		c := collate.New(cfg.lang)
		slices.SortStableFunc(groups, func(a, b Group) int {
			if n := c.CompareString(a.Location, b.Location); n != 0 {
				return n
			}
			return strings.Compare(a.Location, b.Location)
		})
	}
	return groups
}

// Views converts groups into the view models the index template expects.
// Links use only the base name of each output path, escaped as a single
// path segment so names containing '#' or '?' stay one link target.
func Views(groups []Group) []render.GroupView {
	views := make([]render.GroupView, 0, len(groups))
	for _, g := range groups {
		view := render.GroupView{Location: g.Location, Entries: make([]render.EntryView, 0, len(g.Entries))}
		for _, e := range g.Entries {
			view.Entries = append(view.Entries, render.EntryView{
				Href:  url.PathEscape(filepath.Base(e.OutputPath)),
				Image: e.Header.Image,
				Name:  e.Header.Name,
			})
		}
		views = append(views, view)
	}
	return views
}

// Fragment renders the grouped listing that fills the index page.
func Fragment(r *render.Renderer, groups []Group) (template.HTML, error) {
	return r.RenderGroups(Views(groups))
}
