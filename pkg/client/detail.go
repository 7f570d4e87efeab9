package client

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formbind/pkg/errormap"
)

var (
	detailPolicyOnce sync.Once
	detailPolicy     *bluemonday.Policy
)

func plainText(markup string) string {
	detailPolicyOnce.Do(func() {
		detailPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(detailPolicy.Sanitize(markup))
}

// serverDetail extracts a human readable explanation from an error body: the
// messages of an error envelope, or the first <h3> heading of an HTML page.
func serverDetail(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if entries, ok := errormap.Decode(body); ok {
		msgs := make([]string, 0, len(entries))
		for _, entry := range entries {
			if msg := strings.TrimSpace(entry.Msg); msg != "" {
				msgs = append(msgs, msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	text := string(body)
	lower := strings.ToLower(text)
	start := strings.Index(lower, "<h3>")
	end := strings.Index(lower, "</h3>")
	if start < 0 || end <= start+4 {
		return ""
	}
	return plainText(text[start+4 : end])
}
