package aggregate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/ralog/internal/document"
	"git.home.luguber.info/inful/ralog/internal/render"
)

func entry(stem, name, location string) Entry {
	return Entry{
		OutputPath: "build/" + stem + ".html",
		Header:     document.Header{Name: name, Image: "./" + stem + ".jpg", Location: location},
	}
}

func locations(groups []Group) []string {
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.Location)
	}
	return out
}

func TestGroup_PartitionsByLocation(t *testing.T) {
	entries := []Entry{
		entry("a", "A", "博多"),
		entry("b", "B", "恵比寿"),
		entry("c", "C", "博多"),
	}

	groups := GroupBy(entries, OrderFirstSeen)
	require.Len(t, groups, 2)
	assert.Equal(t, "博多", groups[0].Location)
	assert.Equal(t, []Entry{entries[0], entries[2]}, groups[0].Entries)
	assert.Equal(t, []Entry{entries[1]}, groups[1].Entries)
}

func TestGroup_Empty(t *testing.T) {
	assert.Empty(t, GroupBy(nil, OrderCollated))
}

func TestGroup_LocationIsVerbatim(t *testing.T) {
	groups := GroupBy([]Entry{entry("a", "A", "Shibuya"), entry("b", "B", "shibuya "), entry("c", "C", "Shibuya")}, OrderLexical)
	assert.Equal(t, []string{"Shibuya", "shibuya "}, locations(groups))
	assert.Len(t, groups[0].Entries, 2)
}

func TestGroup_Orders(t *testing.T) {
	entries := []Entry{
		entry("1", "1", "き"),
		entry("2", "2", "カ"),
		entry("3", "3", "apple"),
		entry("4", "4", "Banana"),
	}

	t.Run("first seen", func(t *testing.T) {
		assert.Equal(t, []string{"き", "カ", "apple", "Banana"}, locations(GroupBy(entries, OrderFirstSeen)))
	})
	t.Run("lexical", func(t *testing.T) {
		assert.Equal(t, []string{"Banana", "apple", "き", "カ"}, locations(GroupBy(entries, OrderLexical)))
	})
	t.Run("collated", func(t *testing.T) {
		got := locations(GroupBy(entries, OrderCollated, WithLanguage(language.Japanese)))
		assert.Equal(t, []string{"apple", "Banana", "カ", "き"}, got)
	})
}

func TestGroup_DeterministicAcrossInputOrder(t *testing.T) {
	a := []Entry{entry("x", "X", "新宿"), entry("y", "Y", "池袋"), entry("z", "Z", "渋谷")}
	b := []Entry{a[2], a[0], a[1]}
	assert.Equal(t, locations(GroupBy(a, OrderCollated)), locations(GroupBy(b, OrderCollated)))
	assert.Equal(t, locations(GroupBy(a, OrderLexical)), locations(GroupBy(b, OrderLexical)))
}

func TestParseOrder(t *testing.T) {
	o, err := ParseOrder("")
	require.NoError(t, err)
	assert.Equal(t, OrderCollated, o)

	o, err = ParseOrder(" First_Seen ")
	require.NoError(t, err)
	assert.Equal(t, OrderFirstSeen, o)

	_, err = ParseOrder("random")
	assert.Error(t, err)
}

func TestFragment_EveryEntryLinkedOnceUnderItsLocation(t *testing.T) {
	r, err := render.New(render.DefaultSite())
	require.NoError(t, err)

	entries := []Entry{
		entry("ichiran", "一蘭", "博多"),
		entry("afuri", "AFURI", "恵比寿"),
		entry("shin", "博多一幸舎", "博多"),
	}
	listing, err := Fragment(r, GroupBy(entries, OrderFirstSeen))
	require.NoError(t, err)

	root, err := html.Parse(strings.NewReader(string(listing)))
	require.NoError(t, err)

	// heading text -> hrefs in the container that follows it
	perGroup := map[string][]string{}
	var current string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "h2":
				current = n.FirstChild.Data
			case "a":
				for _, a := range n.Attr {
					if a.Key == "href" {
						perGroup[current] = append(perGroup[current], a.Val)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	assert.Equal(t, map[string][]string{
		"博多":  {"./ichiran.html", "./shin.html"},
		"恵比寿": {"./afuri.html"},
	}, perGroup)
}

func TestViews_UsesBaseName(t *testing.T) {
	views := Views([]Group{{Location: "L", Entries: []Entry{entry("nested/dir/page", "P", "L")}}})
	require.Len(t, views, 1)
	assert.Equal(t, "page.html", views[0].Entries[0].Href)
	assert.Equal(t, "P", views[0].Entries[0].Name)
}

func TestViews_EscapesLinkSegment(t *testing.T) {
	views := Views([]Group{{Location: "L", Entries: []Entry{
		entry("a#b?c", "A", "L"),
		entry("two words", "B", "L"),
	}}})
	require.Len(t, views, 1)
	assert.Equal(t, "a%23b%3Fc.html", views[0].Entries[0].Href)
	assert.Equal(t, "two%20words.html", views[0].Entries[1].Href)
}
