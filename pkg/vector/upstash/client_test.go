package upstash

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-twin-be/pkg/vector"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query-data", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotBody))

		fmt.Fprint(w, `{"result":[
			{"id":"a","score":0.91,"metadata":{"title":"Frontend","category":"skills","content":"React"}},
			{"id":"b","score":0.70,"metadata":{"title":"Legacy","category":"about","text":"seeded by old script"}},
			{"id":"c","score":0.50}
		]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "tok")
	got, err := c.Query(context.Background(), "what frontend tools", 3)
	require.NoError(t, err)

	assert.Equal(t, "what frontend tools", gotBody["data"])
	assert.EqualValues(t, 3, gotBody["topK"])
	assert.Equal(t, true, gotBody["includeMetadata"])

	assert.Equal(t, []vector.Match{
		{ID: "a", Score: 0.91, Title: "Frontend", Category: "skills", Content: "React"},
		{ID: "b", Score: 0.70, Title: "Legacy", Category: "about", Content: "seeded by old script"},
		{ID: "c", Score: 0.50},
	}, got)
}

func TestQueryErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"http status", http.StatusUnauthorized, `{"error":"Unauthorized","status":401}`},
		{"error envelope", http.StatusOK, `{"error":"index not found"}`},
		{"garbage", http.StatusOK, `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, "tok").Query(context.Background(), "q", 3)
			assert.Error(t, err)
		})
	}
}

func TestUpsert(t *testing.T) {
	var got []map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/upsert-data", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		fmt.Fprint(w, `{"result":"Success"}`)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "tok").Upsert(context.Background(), []vector.Document{
		{ID: "skills-1", Title: "Frontend", Category: "skills", Content: "React"},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "skills-1", got[0]["id"])
	assert.Equal(t, "React", got[0]["data"])
	assert.Equal(t, map[string]interface{}{"title": "Frontend", "category": "skills", "content": "React"}, got[0]["metadata"])
}
