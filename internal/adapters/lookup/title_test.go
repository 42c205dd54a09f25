package lookup

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTitleFetcher_FetchTitle(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		want        string
		wantErr     bool
	}{
		{
			name:   "simple",
			status: http.StatusOK,
			body:   "<html><head><title>Example Domain</title></head><body></body></html>",
			want:   "Example Domain",
		},
		{
			name:   "whitespace collapsed",
			status: http.StatusOK,
			body:   "<title>\n  Example\n\t Domain  </title>",
			want:   "Example Domain",
		},
		{
			name:   "entities",
			status: http.StatusOK,
			body:   "<title>Tom &amp; Jerry</title>",
			want:   "Tom & Jerry",
		},
		{
			name:   "no title",
			status: http.StatusOK,
			body:   "<html><body><p>nothing here</p></body></html>",
			want:   "",
		},
		{
			name:        "latin1",
			status:      http.StatusOK,
			contentType: "text/html; charset=iso-8859-1",
			body:        "<title>caf\xe9</title>",
			want:        "café",
		},
		{
			name:    "not found",
			status:  http.StatusNotFound,
			body:    "<title>Not Found</title>",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				ct := tc.contentType
				if ct == "" {
					ct = "text/html; charset=utf-8"
				}
				w.Header().Set("Content-Type", ct)
				w.WriteHeader(tc.status)
				_, err := w.Write([]byte(tc.body))
				assert.NoError(t, err)
			}))
			defer srv.Close()

			title, err := NewTitleFetcher("feiji-test", 0).FetchTitle(t.Context(), srv.URL)
			if tc.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, title)
		})
	}
}

func TestTitleFetcher_BodyLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(strings.Repeat("<p>filler</p>", 100) + "<title>late</title>"))
	}))
	defer srv.Close()

	title, err := NewTitleFetcher("", 64).FetchTitle(t.Context(), srv.URL)
	require.NoError(t, err)
	assert.Empty(t, title)
}

func TestTitleFetcher_UserAgent(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.UserAgent()
		_, _ = w.Write([]byte("<title>ok</title>"))
	}))
	defer srv.Close()

	_, err := NewTitleFetcher("feiji/1.0", 0).FetchTitle(t.Context(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "feiji/1.0", got)
}
