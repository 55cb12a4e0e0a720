package docfetch

import (
	"net/url"
	"strings"

	"github.com/hazyhaar/findata/horosafe"
)

// fallbackBase names documents whose URL has no usable final segment.
const fallbackBase = "document"

// BaseName derives the artifact base name from the final segment of the
// URL's escaped path, with characters unsafe in file names removed.
// The result is deterministic and BaseName(BaseName(u)) == BaseName(u).
func BaseName(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.EscapedPath()
	}
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[i+1:]
	}
	p = horosafe.StripUnsafeFileChars(p)
	switch p {
	case "", ".", "..":
		return fallbackBase
	}
	return p
}
