package header

import (
	"html/template"
	"strings"

	"golang.org/x/net/html"
)

// languageAttributes re-tokenizes the host-supplied attribute list and emits it
// escaped. Event handler attributes and malformed names are dropped.
func languageAttributes(raw string) template.HTMLAttr {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	z := html.NewTokenizer(strings.NewReader("<html " + raw + ">"))
	switch z.Next() {
	case html.StartTagToken, html.SelfClosingTagToken:
	default:
		return ""
	}
	tok := z.Token()
	parts := make([]string, 0, len(tok.Attr))
	seen := make(map[string]struct{}, len(tok.Attr))
	for _, a := range tok.Attr {
		key := strings.ToLower(a.Key)
		if !validAttrName(key) || strings.HasPrefix(key, "on") {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		parts = append(parts, key+`="`+html.EscapeString(a.Val)+`"`)
	}
	return template.HTMLAttr(strings.Join(parts, " "))
}

func validAttrName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == ':':
		default:
			return false
		}
	}
	return true
}
