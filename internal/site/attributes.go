package site

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

var rtlScripts = map[string]struct{}{
	"Arab": {},
	"Hebr": {},
	"Thaa": {},
	"Syrc": {},
	"Nkoo": {},
	"Adlm": {},
	"Rohg": {},
}

// LanguageAttributes returns the attribute list for the <html> tag. Locale
// identifiers like en_US are canonicalised to BCP 47; unknown tags fall back to en-US.
func LanguageAttributes(tag string) string {
	parsed := canonicalLanguage(tag)
	attrs := make([]string, 0, 2)
	if isRTL(parsed) {
		attrs = append(attrs, `dir="rtl"`)
	}
	attrs = append(attrs, fmt.Sprintf(`lang="%s"`, parsed.String()))
	return strings.Join(attrs, " ")
}

func canonicalLanguage(tag string) language.Tag {
	tag = strings.ReplaceAll(strings.TrimSpace(tag), "_", "-")
	if tag == "" {
		return language.AmericanEnglish
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return language.AmericanEnglish
	}
	return parsed
}

func isRTL(tag language.Tag) bool {
	script, conf := tag.Script()
	if conf == language.No {
		return false
	}
	_, ok := rtlScripts[script.String()]
	return ok
}

// BodyClasses mirrors the classes a page template puts on <body>: "home blog"
// for the front page, otherwise the page classes for slug. Extra classes are
// appended after sanitisation; duplicates are dropped.
func BodyClasses(slug string, extra []string) []string {
	var base []string
	slug = sanitizeClass(strings.ToLower(strings.TrimSpace(slug)))
	if slug == "" {
		base = []string{"home", "blog"}
	} else {
		base = []string{"page", "page-template-default", "page-" + slug}
	}
	return sanitizeClasses(append(base, extra...))
}

func sanitizeClasses(classes []string) []string {
	if len(classes) == 0 {
		return nil
	}
	out := make([]string, 0, len(classes))
	seen := make(map[string]struct{}, len(classes))
	for _, c := range classes {
		c = sanitizeClass(c)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// sanitizeClass strips percent-encoded octets and anything outside [A-Za-z0-9_-].
func sanitizeClass(class string) string {
	var b strings.Builder
	for i := 0; i < len(class); i++ {
		c := class[i]
		if c == '%' && i+2 < len(class) && isHex(class[i+1]) && isHex(class[i+2]) {
			i += 2
			continue
		}
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '-':
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
