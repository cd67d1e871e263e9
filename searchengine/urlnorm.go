package searchengine

import (
	"net/url"
	"sort"
	"strings"
)

// trackingParams is the set of query-string keys stripped by
// NormalizeURL, supplemented from original_source's utilities/url_utils.py
// tracking-parameter list.
var trackingParams = map[string]bool{
	"utm_source": true, "utm_medium": true, "utm_campaign": true,
	"utm_term": true, "utm_content": true, "gclid": true, "fbclid": true,
	"ref": true, "ref_src": true,
}

// NormalizeURL canonicalizes scheme/host case, strips a trailing slash and
// tracking query parameters, and sorts remaining query parameters — used
// by citation/link de-duplication so the same page reached via two
// differently-tagged URLs counts as one source (spec.md §8).
func NormalizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return strings.TrimSpace(raw)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")

	if u.RawQuery != "" {
		values := u.Query()
		for key := range values {
			if trackingParams[strings.ToLower(key)] {
				values.Del(key)
			}
		}
		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var q strings.Builder
		for i, k := range keys {
			if i > 0 {
				q.WriteByte('&')
			}
			for j, v := range values[k] {
				if j > 0 {
					q.WriteByte('&')
				}
				q.WriteString(k)
				q.WriteByte('=')
				q.WriteString(v)
			}
		}
		u.RawQuery = q.String()
	}

	return u.String()
}
