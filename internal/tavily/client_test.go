package tavily

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Backtthefuture/weibocheck/internal/search"
)

func TestClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tvly-key", r.Header.Get("Authorization"))

		var req SearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "话题 微博热搜", req.Query)
		assert.Equal(t, "news", req.Topic)
		assert.Equal(t, "basic", req.SearchDepth)
		assert.Equal(t, 5, req.MaxResults)

		w.Write([]byte(`{"query":"q","results":[{"title":"t1","url":"https://a","content":"c1","score":0.9,"published_date":"2026-10-18"}]}`))
	}))
	defer srv.Close()

	c := NewClient("tvly-key").WithEndpoint(srv.URL)
	resp, err := c.Search(context.Background(), &search.Request{Query: "话题 微博热搜", Topic: "news"})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "t1", resp.Results[0].Title)
	assert.Equal(t, "2026-10-18", resp.Results[0].PublishedDate)
}

func TestClient_SearchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("bad key"))
	}))
	defer srv.Close()

	_, err := NewClient("x").WithEndpoint(srv.URL).Search(context.Background(), &search.Request{Query: "q"})
	assert.ErrorContains(t, err, "status 401")
}
