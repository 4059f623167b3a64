package render

import "golang.org/x/text/language"

// Link is an extra <link> element emitted in every page head.
type Link struct {
	Rel  string `yaml:"rel"`
	Href string `yaml:"href"`
}

// Site holds the presentation settings shared by every generated page.
type Site struct {
	Lang           string
	Title          string
	TitleSeparator string
	Stylesheets    []string
	Links          []Link
	Logo           string
	LogoHeight     int
	LogoAlt        string
	HomeHref       string
}

// Default presentation values.
const (
	DefaultTitle          = "ラーログ"
	DefaultTitleSeparator = " | "
	DefaultLogo           = "./logo.png"
	DefaultLogoHeight     = 52
	DefaultHomeHref       = "./index.html"
	LocalStylesheet       = "./style.css"
	BulmaStylesheet       = "https://cdn.jsdelivr.net/npm/bulma@0.9.1/css/bulma.min.css"
)

// DefaultLang is the document language tag written on every page.
var DefaultLang = language.Japanese

// DefaultSite returns the stock presentation settings.
func DefaultSite() Site {
	return Site{
		Lang:           DefaultLang.String(),
		Title:          DefaultTitle,
		TitleSeparator: DefaultTitleSeparator,
		Stylesheets:    []string{LocalStylesheet, BulmaStylesheet},
		Logo:           DefaultLogo,
		LogoHeight:     DefaultLogoHeight,
		LogoAlt:        DefaultTitle,
		HomeHref:       DefaultHomeHref,
	}
}

// PageTitle is the <title> of a document page.
func (s Site) PageTitle(name string) string {
	return name + s.TitleSeparator + s.Title
}
