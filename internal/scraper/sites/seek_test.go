package sites

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobex-scraper/internal/httpclient"
	"jobex-scraper/internal/scraper"
)

func newTestSeek(t *testing.T, status int, body string) (*Seek, *http.Request) {
	t.Helper()

	var got http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = *r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	client, err := httpclient.New(httpclient.Options{})
	require.NoError(t, err)

	s := NewSeek(client, Options{})
	s.endpoint = srv.URL + "/v4/counts"
	return s, &got
}

func TestSeek_RequestURL(t *testing.T) {
	s := NewSeek(nil, Options{})
	assert.Equal(t,
		"https://jobsearch-api-ts.cloud.seek.com.au/v4/counts?siteKey=NZ-Main&where=All+New+Zealand&keywords=software+engineer",
		s.RequestURL("software engineer"))
}

// TestSeek_SumsClassificationBucket verifies every item in counts[2] is summed
func TestSeek_SumsClassificationBucket(t *testing.T) {
	s, got := newTestSeek(t, http.StatusOK, `{"counts":[{"items":{"x":100}},{},{"items":{"6281":3,"1209":5}}]}`)

	count, err := s.JobCount(context.Background(), "software engineer")
	require.NoError(t, err)
	assert.True(t, count.Found)
	assert.Equal(t, uint64(8), count.Value)

	assert.Equal(t, "/v4/counts", got.URL.Path)
	assert.Equal(t, "siteKey=NZ-Main&where=All+New+Zealand&keywords=software+engineer", got.URL.RawQuery)
}

// TestSeek_EmptyBucketIsZero verifies an empty items object is a present zero
func TestSeek_EmptyBucketIsZero(t *testing.T) {
	s, _ := newTestSeek(t, http.StatusOK, `{"counts":[{},{},{"items":{}}]}`)

	count, err := s.JobCount(context.Background(), "chef")
	require.NoError(t, err)
	assert.True(t, count.Found)
	assert.Equal(t, uint64(0), count.Value)
}

func TestSeek_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   scraper.Kind
	}{
		{"non numeric item", http.StatusOK, `{"counts":[{},{},{"items":{"a":"x"}}]}`, scraper.ErrJSONShape},
		{"negative item", http.StatusOK, `{"counts":[{},{},{"items":{"a":-1}}]}`, scraper.ErrJSONShape},
		{"fractional item", http.StatusOK, `{"counts":[{},{},{"items":{"a":1.5}}]}`, scraper.ErrJSONShape},
		{"missing counts", http.StatusOK, `{"total":3}`, scraper.ErrJSONShape},
		{"short counts", http.StatusOK, `{"counts":[{},{}]}`, scraper.ErrJSONShape},
		{"counts keyed object", http.StatusOK, `{"counts":{"2":{"items":{"a":3,"b":5}}}}`, scraper.ErrJSONShape},
		{"items not object", http.StatusOK, `{"counts":[{},{},{"items":[1,2]}]}`, scraper.ErrJSONShape},
		{"overflow", http.StatusOK, `{"counts":[{},{},{"items":{"a":18446744073709551615,"b":1}}]}`, scraper.ErrJSONShape},
		{"malformed body", http.StatusOK, `{"counts":[`, scraper.ErrParse},
		{"server error", http.StatusInternalServerError, `{}`, scraper.ErrNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestSeek(t, tt.status, tt.body)

			count, err := s.JobCount(context.Background(), "chef")
			require.Error(t, err)
			assert.False(t, count.Found)
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)
		})
	}
}

// TestSeek_OversizeBody verifies a body past the cap is a network error, not a truncated parse
func TestSeek_OversizeBody(t *testing.T) {
	body := `{"counts":[{},{},{"items":{"a":1}}],"pad":"` + strings.Repeat("x", maxSeekBody) + `"}`
	s, _ := newTestSeek(t, http.StatusOK, body)

	_, err := s.JobCount(context.Background(), "chef")
	assert.Equal(t, scraper.ErrNetwork, scraper.KindOf(err))
	assert.Contains(t, err.Error(), "exceeds")
}

func TestSeek_UnreachableEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	client, err := httpclient.New(httpclient.Options{})
	require.NoError(t, err)
	s := NewSeek(client, Options{})
	s.endpoint = endpoint

	_, err = s.JobCount(context.Background(), "chef")
	assert.Equal(t, scraper.ErrNetwork, scraper.KindOf(err))
}
