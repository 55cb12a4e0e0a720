package pagescrape

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hazyhaar/findata/batch"
)

func pageServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/contact", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<a href="tel:+1-202-555-0100">Call</a><a href="/r.pdf">r</a>`))
	})
	mux.HandleFunc("/forbidden", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no", http.StatusForbidden)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestScrape_Success(t *testing.T) {
	srv := pageServer(t)
	s := New(Config{})
	res, err := s.Scrape(context.Background(), srv.URL+"/contact")
	require.NoError(t, err)
	require.Equal(t, "Call", *res.ContactInformation.Phone)
	require.Equal(t, []string{"/r.pdf"}, res.ReportsAndPublications)
}

func TestScrape_NonSuccessStatus(t *testing.T) {
	// WHAT: A 403 page is a failure, not an empty result.
	// WHY: Error pages would otherwise be scraped as if they were content.
	srv := pageServer(t)
	_, err := New(Config{}).Scrape(context.Background(), srv.URL+"/forbidden")
	require.ErrorIs(t, err, batch.ErrStatus)
}

func TestScrapeAll_OrderAndIsolation(t *testing.T) {
	// WHAT: N URLs give N entries in input order; failures carry a nil result.
	// WHY: One bad ministry site must not hide the others.
	srv := pageServer(t)
	urls := []string{
		srv.URL + "/contact",
		srv.URL + "/forbidden",
		"http://127.0.0.1:1/unreachable",
		srv.URL + "/contact",
	}
	entries := New(Config{}).ScrapeAll(context.Background(), urls)
	require.Len(t, entries, 4)
	for i, e := range entries {
		require.Equal(t, urls[i], e.URL)
	}
	require.NotNil(t, entries[0].Result)
	require.Nil(t, entries[1].Result)
	require.Equal(t, "status", entries[1].Kind)
	require.Nil(t, entries[2].Result)
	require.Equal(t, "transport", entries[2].Kind)
	require.NotNil(t, entries[3].Result)
}

func TestPrint(t *testing.T) {
	phone := "Call"
	entries := []Entry{
		{URL: "https://a.example", Result: &Result{
			ContactInformation:         Contact{Phone: &phone, SocialMediaLinks: []string{}},
			ReportsAndPublications:     []string{"/x.pdf"},
			StatisticalData:            [][]string{{"1", "2"}},
			LegislativeAndRegulatory:   []string{},
			ToolsAndAPIs:               []string{},
			NewsAndEvents:              NewsEvents{NewsArticles: []string{}, UpcomingEvents: []string{}},
			KeyPersonnel:               []Person{{Name: "N", Role: "R"}},
			LicensingAndCertifications: []string{},
			PublicDatabases:            []string{},
			DocumentsAndForms:          []string{"/x.pdf"},
		}},
		{URL: "https://b.example"},
	}
	var buf bytes.Buffer
	require.NoError(t, Print(&buf, entries))

	want := strings.Join([]string{
		"Data for https://a.example:",
		`Contact Information: {"Phone":"Call","Email":null,"Address":null,"Social Media Links":[]}`,
		`Reports and Publications: ["/x.pdf"]`,
		`Statistical Data: [["1","2"]]`,
		`Legislative and Regulatory Information: []`,
		`Tools and APIs: []`,
		`News and Events: {"News Articles":[],"Upcoming Events":[]}`,
		`Key Personnel: [{"Name":"N","Role":"R"}]`,
		`Licensing and Certifications: []`,
		`Public Databases: []`,
		`Documents and Forms: ["/x.pdf"]`,
		"Data for https://b.example:",
		"No data available",
		"",
	}, "\n")
	require.Equal(t, want, buf.String())
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintJSON(&buf, []Entry{{URL: "https://b.example", Kind: "status", Error: "http 404"}}))
	require.Contains(t, buf.String(), `"result": null`)
	require.Contains(t, buf.String(), `"error_kind": "status"`)
}
