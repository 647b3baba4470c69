package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moegirlwiki/mwsiteconfig/mwapi"
)

const minimalSiteInfo = `{"query":{
	"extensiontags":["<pre>"],
	"general":{"linktrail":"/^([a-z]+)(.*)$/sD"},
	"magicwords":[{"name":"redirect","aliases":["#REDIRECT"]}],
	"namespacealiases":[],
	"namespaces":{
		"6":{"*":"File","canonical":"File","id":6},
		"14":{"*":"Category","canonical":"Category","id":14}
	},
	"protocols":["http://"]
}}`

const minimalFragment = `pub fn create_configuration() -> ::parse_wiki_text::Configuration {
    ::parse_wiki_text::create_configuration(&::parse_wiki_text::ConfigurationSource {
        category_namespaces: &["category"],
        extension_tags: &["pre"],
        file_namespaces: &["file"],
        link_trail: "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz",
        magic_words: &[],
        protocols: &["http://"],
        redirect_magic_words: &["redirect"],
    })
}
`

// wiki serves body at /w/api.php and returns the host to pass to run. An
// empty contentType sends no Content-Type header at all.
func wiki(t *testing.T, status int, contentType, body string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/w/api.php" {
			http.NotFound(w, r)
			return
		}
		if contentType == "" {
			// A nil entry stops net/http from sniffing one.
			w.Header()["Content-Type"] = nil
		} else {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return strings.TrimPrefix(srv.URL, "http://")
}

func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	var out, errOut bytes.Buffer
	code = run(ctx, args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRun_Usage(t *testing.T) {
	for _, args := range [][]string{nil, {"a.example", "b.example"}} {
		code, stdout, stderr := runCLI(t, args...)
		assert.Equal(t, 1, code)
		assert.Empty(t, stdout)
		assert.Equal(t, "Invalid use.\n", stderr)
	}
}

func TestRun_WritesRustFragment(t *testing.T) {
	host := wiki(t, http.StatusOK, mwapi.SiteInfoContentType, minimalSiteInfo)

	code, stdout, stderr := runCLI(t, "-scheme", "http", host)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, minimalFragment, stdout)
	assert.Empty(t, stderr)
}

func TestRun_WritesJSONFile(t *testing.T) {
	host := wiki(t, http.StatusOK, mwapi.SiteInfoContentType, minimalSiteInfo)
	path := filepath.Join(t.TempDir(), "config.json")

	code, stdout, stderr := runCLI(t, "-scheme", "http", "-format", "json", "-o", path, host)
	require.Equal(t, 0, code, stderr)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"redirect_magic_words": [`)
	assert.Contains(t, string(data), `"link_trail": "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"`)
}

func TestRun_Failures(t *testing.T) {
	noRedirect := strings.Replace(minimalSiteInfo, `"name":"redirect"`, `"name":"notoc"`, 1)

	tests := []struct {
		name       string
		status     int
		ctype      string
		body       string
		wantStderr string
	}{
		{"status", http.StatusBadGateway, mwapi.SiteInfoContentType, minimalSiteInfo, "The status of the response is not as expected."},
		{"content type", http.StatusOK, "text/html; charset=utf-8", minimalSiteInfo, "The value of the 'Content-Type' header of the response is not as expected."},
		{"no content type", http.StatusOK, "", minimalSiteInfo, `The value of the 'Content-Type' header of the response is not as expected. Status: 200, Content-Type: ""`},
		{"shape", http.StatusOK, mwapi.SiteInfoContentType, `{"query":{}}`, "Failed to parse response:"},
		{"api error", http.StatusOK, mwapi.SiteInfoContentType, `{"error":{"code":"internal_api_error","info":"boom"}}`, "Failed to parse response: the wiki returned an API error: internal_api_error: boom"},
		{"semantics", http.StatusOK, mwapi.SiteInfoContentType, noRedirect, "Invalid site configuration: redirect magic word missing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := wiki(t, tt.status, tt.ctype, tt.body)

			code, stdout, stderr := runCLI(t, "-scheme", "http", host)
			assert.Equal(t, 1, code)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, tt.wantStderr)
		})
	}
}

func TestRun_TruncatedBody(t *testing.T) {
	host := wiki(t, http.StatusOK, mwapi.SiteInfoContentType, minimalSiteInfo)

	code, stdout, stderr := runCLI(t, "-scheme", "http", "-max-body-size", "16", host)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.True(t, strings.HasPrefix(stderr, "Failed to parse response: "), stderr)
}

func TestRun_LogsSiteInfoWarnings(t *testing.T) {
	body := `{"warnings":{"main":{"*":"Unrecognized parameter: foo."}},` + strings.TrimPrefix(minimalSiteInfo, "{")
	host := wiki(t, http.StatusOK, mwapi.SiteInfoContentType, body)

	code, stdout, stderr := runCLI(t, "-scheme", "http", host)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, minimalFragment, stdout)
	assert.Contains(t, stderr, "level=WARN")
	assert.Contains(t, stderr, "siteinfo warning from main")
	assert.Contains(t, stderr, "Unrecognized parameter: foo.")
}

func TestRun_InvalidHost(t *testing.T) {
	code, stdout, stderr := runCLI(t, "bad host")
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.True(t, strings.HasPrefix(stderr, "Invalid URL: "), stderr)
}

func TestRun_RequestFailed(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	host := strings.TrimPrefix(srv.URL, "http://")
	srv.Close()

	code, stdout, stderr := runCLI(t, "-scheme", "http", host)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.True(t, strings.HasPrefix(stderr, "Request failed: "), stderr)
}

func TestRun_InvalidFormat(t *testing.T) {
	code, _, stderr := runCLI(t, "-format", "toml", "en.wikipedia.org")
	assert.Equal(t, 1, code)
	assert.True(t, strings.HasPrefix(stderr, "Invalid configuration: "), stderr)
}
