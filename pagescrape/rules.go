// CLAUDE:SUMMARY The ten extraction rules, evaluated with goquery over a parsed page.
package pagescrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultSocialPlatforms are the href substrings that mark a social link.
var DefaultSocialPlatforms = []string{"facebook", "twitter"}

// Rules evaluates the extraction rules. Href matching is case-sensitive
// substring (or prefix/suffix) matching on the raw attribute value;
// anchors without an href, or with an empty one, never match.
type Rules struct {
	// SocialPlatforms replaces DefaultSocialPlatforms when non-empty.
	SocialPlatforms []string `yaml:"social_platforms" json:"social_platforms"`
}

// Extract applies the default rules.
func Extract(doc *goquery.Document) *Result {
	return Rules{}.Extract(doc)
}

// Extract applies every rule to doc.
func (r Rules) Extract(doc *goquery.Document) *Result {
	social := r.SocialPlatforms
	if len(social) == 0 {
		social = DefaultSocialPlatforms
	}
	anchors := doc.Find("a[href]")

	return &Result{
		ContactInformation: Contact{
			Phone:            firstText(anchors, prefix("tel:")),
			Email:            firstText(anchors, prefix("mailto:")),
			Address:          selectionText(doc.Find("address").First()),
			SocialMediaLinks: hrefs(anchors, containsAny(social...)),
		},
		ReportsAndPublications:   hrefs(anchors, suffix(".pdf")),
		StatisticalData:          tableRows(doc),
		LegislativeAndRegulatory: hrefs(anchors, containsAny("law", "regulation")),
		ToolsAndAPIs:             hrefs(anchors, containsAny("api", "tool")),
		NewsAndEvents: NewsEvents{
			NewsArticles:   hrefs(anchors, containsAny("news")),
			UpcomingEvents: texts(doc.Find("div.event-date")),
		},
		KeyPersonnel:               personnel(doc),
		LicensingAndCertifications: hrefs(anchors, containsAny("license")),
		PublicDatabases:            hrefs(anchors, containsAny("database", "registry")),
		DocumentsAndForms:          hrefs(anchors, containsAny(".pdf", ".doc")),
	}
}

type hrefMatcher func(href string) bool

func prefix(p string) hrefMatcher {
	return func(h string) bool { return strings.HasPrefix(h, p) }
}

func suffix(s string) hrefMatcher {
	return func(h string) bool { return strings.HasSuffix(h, s) }
}

func containsAny(subs ...string) hrefMatcher {
	return func(h string) bool {
		for _, s := range subs {
			if strings.Contains(h, s) {
				return true
			}
		}
		return false
	}
}

func matching(anchors *goquery.Selection, match hrefMatcher) *goquery.Selection {
	return anchors.FilterFunction(func(_ int, a *goquery.Selection) bool {
		h, _ := a.Attr("href")
		return h != "" && match(h)
	})
}

func hrefs(anchors *goquery.Selection, match hrefMatcher) []string {
	out := []string{}
	matching(anchors, match).Each(func(_ int, a *goquery.Selection) {
		h, _ := a.Attr("href")
		out = append(out, h)
	})
	return out
}

func firstText(anchors *goquery.Selection, match hrefMatcher) *string {
	return selectionText(matching(anchors, match).First())
}

func selectionText(s *goquery.Selection) *string {
	if s.Length() == 0 {
		return nil
	}
	t := s.Text()
	return &t
}

func texts(s *goquery.Selection) []string {
	out := []string{}
	s.Each(func(_ int, el *goquery.Selection) {
		out = append(out, el.Text())
	})
	return out
}

// tableRows collects the trimmed <td> texts of every row of every table.
// Rows without <td> (header-only rows) are skipped; <th> cells are not kept.
func tableRows(doc *goquery.Document) [][]string {
	out := [][]string{}
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		table.Find("tr").Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() == 0 {
				return
			}
			vals := make([]string, 0, cells.Length())
			cells.Each(func(_ int, td *goquery.Selection) {
				vals = append(vals, strings.TrimSpace(td.Text()))
			})
			out = append(out, vals)
		})
	})
	return out
}

func personnel(doc *goquery.Document) []Person {
	out := []Person{}
	doc.Find("div.personnel-list").Each(func(_ int, div *goquery.Selection) {
		name := div.Find("h2").First()
		role := div.Find("p.role").First()
		if name.Length() == 0 || role.Length() == 0 {
			return
		}
		out = append(out, Person{Name: name.Text(), Role: role.Text()})
	})
	return out
}
