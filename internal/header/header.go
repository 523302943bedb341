package header

import (
	"errors"
	"fmt"
	"strings"
)

// WelcomePageSlug is the only page that receives the welcome heading.
const WelcomePageSlug = "about-us"

// WelcomeHeading is emitted verbatim below the site header on the welcome page.
const WelcomeHeading = "Thanks for visiting our page!"

// ErrInvalidInput is returned when required site metadata is missing.
var ErrInvalidInput = errors.New("header: invalid input")

// SiteMetadata describes the site-wide values interpolated into the header.
type SiteMetadata struct {
	Name        string
	Description string
	Charset     string
	HomeURL     string
	// LanguageAttributes is the raw attribute list for the <html> tag, e.g. `lang="en-US"`.
	LanguageAttributes string
	BodyClasses        []string
}

// MenuItem is a node of the navigation tree. Children render in slice order.
type MenuItem struct {
	Label    string
	URL      string
	Children []MenuItem
	Current  bool
}

// PageContext identifies the page being rendered.
type PageContext struct {
	CurrentPageSlug string
}

// HeadExtension is host-produced markup inserted verbatim into <head>.
type HeadExtension string

// InputError lists the metadata fields that failed validation.
type InputError struct {
	fields []string
}

// Error implements the error interface.
func (e *InputError) Error() string {
	return fmt.Sprintf("header: invalid input: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the offending field names.
func (e *InputError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Unwrap exposes ErrInvalidInput so callers can use errors.Is.
func (e *InputError) Unwrap() error { return ErrInvalidInput }

func validate(meta *SiteMetadata) error {
	if meta == nil {
		return &InputError{fields: []string{"meta"}}
	}
	if strings.TrimSpace(meta.Charset) == "" {
		return &InputError{fields: []string{"meta.charset"}}
	}
	return nil
}
