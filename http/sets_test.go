package bhttp_test

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	bhttp "github.com/brynbellomy/go-orderedset/http"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(bhttp.UnrestrictedCORS(bhttp.NewSetServer(time.Second, logger)))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string, out any) int {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func createSet(t *testing.T, srv *httptest.Server, body string) string {
	t.Helper()
	var created struct {
		ID string `json:"id"`
	}
	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/sets", body, &created))
	require.NotEmpty(t, created.ID)
	return created.ID
}

type insertResult struct {
	Result   string `json:"result"`
	Size     int    `json:"size"`
	Error    string `json:"error"`
	Value    int64  `json:"value"`
	Capacity int    `json:"capacity"`
}

func insert(t *testing.T, srv *httptest.Server, id string, v int) (int, insertResult) {
	t.Helper()
	var res insertResult
	status := do(t, srv, http.MethodPost, "/sets/"+id+"/values", fmt.Sprintf(`{"value": %d}`, v), &res)
	return status, res
}

var (
	someValues = []int{7, -10, 4, 8, -2, 9, -10, 8, -5, 6, -9, 5}
	someSizes  = []int{1, 2, 3, 4, 5, 6, 6, 6, 7, 8, 9, 10}
)

func TestSetServer_Unbounded(t *testing.T) {
	srv := newTestServer(t)
	id := createSet(t, srv, "")

	for i, v := range someValues {
		status, res := insert(t, srv, id, v)
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, someSizes[i], res.Size, "index %d value %d", i, v)
		if i == 6 || i == 7 {
			require.Equal(t, "already_present", res.Result)
		} else {
			require.Equal(t, "inserted", res.Result)
		}
	}

	var set struct {
		ID       string  `json:"id"`
		Capacity *int    `json:"capacity"`
		Size     int     `json:"size"`
		Values   []int64 `json:"values"`
	}
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/sets/"+id, "", &set))
	require.Equal(t, id, set.ID)
	require.Nil(t, set.Capacity)
	require.Equal(t, 10, set.Size)
	require.Equal(t, []int64{-10, -9, -5, -2, 4, 5, 6, 7, 8, 9}, set.Values)

	t.Run("find", func(t *testing.T) {
		var found struct {
			Found bool `json:"found"`
		}
		require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/sets/"+id+"/values/-9", "", &found))
		require.True(t, found.Found)
		require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/sets/"+id+"/values/0", "", &found))
		require.False(t, found.Found)
	})

	t.Run("range", func(t *testing.T) {
		tests := []struct {
			query    string
			expected []int64
		}{
			{"min=0&max=9", []int64{4, 5, 6, 7, 8, 9}},
			{"min=-10&max=0", []int64{-10, -9, -5, -2}},
			{"min=9&max=0", []int64{}},
			{"min=100&max=200", []int64{}},
		}
		for _, tt := range tests {
			var rng struct {
				Values []int64 `json:"values"`
			}
			require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/sets/"+id+"/range?"+tt.query, "", &rng))
			require.Equal(t, tt.expected, rng.Values, tt.query)
		}
	})
}

func TestSetServer_Bounded(t *testing.T) {
	srv := newTestServer(t)

	var created struct {
		ID       string `json:"id"`
		Capacity *int   `json:"capacity"`
	}
	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/sets", `{"capacity": 9}`, &created))
	require.NotNil(t, created.Capacity)
	require.Equal(t, 9, *created.Capacity)

	for i, v := range someValues[:len(someValues)-1] {
		status, _ := insert(t, srv, created.ID, v)
		require.Equal(t, http.StatusOK, status, "index %d", i)
	}

	status, res := insert(t, srv, created.ID, 5)
	require.Equal(t, http.StatusConflict, status)
	require.Equal(t, int64(5), res.Value)
	require.Equal(t, 9, res.Capacity)
	require.Contains(t, res.Error, "capacity exceeded")

	status, _ = insert(t, srv, created.ID, 7)
	require.Equal(t, http.StatusConflict, status, "duplicates are rejected once full")
}

func TestSetServer_NegativeCapacity(t *testing.T) {
	srv := newTestServer(t)

	var created struct {
		ID       string `json:"id"`
		Capacity *int   `json:"capacity"`
	}
	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/sets", `{"capacity": -3}`, &created))
	require.Equal(t, 0, *created.Capacity)

	status, _ := insert(t, srv, created.ID, 1)
	require.Equal(t, http.StatusConflict, status)
}

func TestSetServer_Errors(t *testing.T) {
	srv := newTestServer(t)
	id := createSet(t, srv, `{}`)

	var errBody struct {
		Error string `json:"error"`
		ID    string `json:"id"`
	}

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"unknown set", http.MethodGet, "/sets/nope", "", http.StatusNotFound},
		{"insert into unknown set", http.MethodPost, "/sets/nope/values", `{"value": 1}`, http.StatusNotFound},
		{"missing value", http.MethodPost, "/sets/" + id + "/values", `{}`, http.StatusBadRequest},
		{"malformed insert body", http.MethodPost, "/sets/" + id + "/values", `{"value": "x"}`, http.StatusBadRequest},
		{"non-integer find", http.MethodGet, "/sets/" + id + "/values/abc", "", http.StatusBadRequest},
		{"missing range bound", http.MethodGet, "/sets/" + id + "/range?min=1", "", http.StatusBadRequest},
		{"malformed create body", http.MethodPost, "/sets", `{"capacity": "ten"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errBody.Error = ""
			require.Equal(t, tt.status, do(t, srv, tt.method, tt.path, tt.body, &errBody))
			require.NotEmpty(t, errBody.Error)
		})
	}

	t.Run("not found carries id", func(t *testing.T) {
		require.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/sets/nope", "", &errBody))
		require.Equal(t, "nope", errBody.ID)
	})
}

func TestSetServer_Delete(t *testing.T) {
	srv := newTestServer(t)
	id := createSet(t, srv, "")

	require.Equal(t, http.StatusNoContent, do(t, srv, http.MethodDelete, "/sets/"+id, "", nil))
	require.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/sets/"+id, "", nil))
	require.Equal(t, http.StatusNotFound, do(t, srv, http.MethodDelete, "/sets/"+id, "", nil))
}

func TestUnrestrictedCORS(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/sets", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, "https://example.com", resp.Header.Get("Access-Control-Allow-Origin"))
}
