package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"finitefield.org/hanko-theme/internal/content"
	"finitefield.org/hanko-theme/internal/header"
	"finitefield.org/hanko-theme/internal/site"
	"finitefield.org/hanko-theme/internal/testutil"
)

func newTestServer(t *testing.T, mutate func(*site.Site)) *Server {
	t.Helper()

	st, err := site.Load(filepath.Join("testdata", "site.yaml"))
	require.NoError(t, err)
	if mutate != nil {
		mutate(st)
	}
	return New(StaticSite(st), content.NewStore(filepath.Join("testdata", "content")))
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthzOK(t *testing.T) {
	t.Parallel()

	rec := get(t, newTestServer(t, nil).Router(), "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", strings.TrimSpace(rec.Body.String()))
}

func TestAboutPageCarriesWelcomeHeading(t *testing.T) {
	t.Parallel()

	rec := get(t, newTestServer(t, nil).Router(), "/about-us")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "text/html; charset=UTF-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	require.True(t, strings.HasPrefix(body, "<!DOCTYPE html>\n"))
	require.True(t, strings.HasSuffix(body, "</html>\n"))
	require.Contains(t, body, "<h3>"+header.WelcomeHeading+"</h3>")
	require.Contains(t, body, `<link rel="stylesheet" href="/assets/theme.css">`)

	doc := testutil.ParseHTML(t, rec.Body.Bytes())
	require.Equal(t, "page page-template-default page-about-us", doc.Find("body").AttrOr("class", ""))
	current := doc.Find("nav.navigation-menu a[aria-current='page']")
	require.Equal(t, 1, current.Length())
	require.Equal(t, "About us", current.Text())
	require.Equal(t, "About us", strings.TrimSpace(doc.Find("main.site-content h2.entry-title").Text()))
	require.Equal(t, "workshop", doc.Find("main .entry-content strong").Text())
}

func TestHomePage(t *testing.T) {
	t.Parallel()

	rec := get(t, newTestServer(t, nil).Router(), "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), header.WelcomeHeading)

	doc := testutil.ParseHTML(t, rec.Body.Bytes())
	require.Equal(t, "home blog", doc.Find("body").AttrOr("class", ""))
	require.Equal(t, "Home", doc.Find("li.current-menu-item > a").Text())
	require.Equal(t, []string{"Home", "Guides", "Materials", "About us"}, testutil.Texts(doc.Find("nav a")))
	require.Equal(t, "Welcome", strings.TrimSpace(doc.Find("h2.entry-title").Text()))
}

func TestMissingPageStillRendersHeader(t *testing.T) {
	t.Parallel()

	rec := get(t, newTestServer(t, nil).Router(), "/no-such-page")
	require.Equal(t, http.StatusNotFound, rec.Code)

	doc := testutil.ParseHTML(t, rec.Body.Bytes())
	require.Equal(t, 1, doc.Find("header.site-header").Length())
	require.Equal(t, "error404", doc.Find("body").AttrOr("class", ""))
	require.Equal(t, "Not found", strings.TrimSpace(doc.Find("h2.entry-title").Text()))
	require.Equal(t, 0, doc.Find("a[aria-current]").Length())
}

func TestInvalidMetadataFailsWithoutPartialOutput(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, func(s *site.Site) { s.Charset = "" })
	rec := get(t, srv.Router(), "/about-us")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "<!DOCTYPE html>")
	require.Contains(t, rec.Body.String(), "render failed")
}

func TestSiteLoadFailure(t *testing.T) {
	t.Parallel()

	srv := New(func() (*site.Site, error) { return nil, errors.New("boom") }, content.NewStore(t.TempDir()))
	rec := get(t, srv.Router(), "/")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	_, err := srv.RenderHeader("", "/")
	require.EqualError(t, err, "boom")
}

func TestRenderHeader(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil)
	out, err := srv.RenderHeader("about-us", "/about-us")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(out, "<h3>"+header.WelcomeHeading+"</h3>\n"))
	require.NotContains(t, out, "<main")

	footer := New(StaticSite(mustLoad(t)), content.NewStore(t.TempDir()), WithMenuLocation("footer"))
	out, err = footer.RenderHeader("", "/")
	require.NoError(t, err)
	doc := testutil.ParseHTMLString(t, out)
	require.Equal(t, 0, doc.Find("nav li").Length(), "unknown location renders an empty menu")
}

func mustLoad(t *testing.T) *site.Site {
	t.Helper()
	st, err := site.Load(filepath.Join("testdata", "site.yaml"))
	require.NoError(t, err)
	return st
}
