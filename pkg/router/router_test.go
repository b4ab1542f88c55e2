package router_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/questx-lab/quest-engine/pkg/errorx"
	"github.com/questx-lab/quest-engine/pkg/router"
	"github.com/questx-lab/quest-engine/pkg/testutil"
	"github.com/stretchr/testify/require"
)

type echoRequest struct {
	Name  string   `json:"name"`
	Limit int      `json:"limit"`
	Tags  []string `json:"tags"`
}

type echoResponse struct {
	Name  string   `json:"name"`
	Limit int      `json:"limit"`
	Tags  []string `json:"tags"`
}

type envelope struct {
	Code  int64        `json:"code"`
	Error string       `json:"error"`
	Data  echoResponse `json:"data"`
}

func echo(ctx context.Context, req *echoRequest) (*echoResponse, error) {
	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Name is required")
	}

	return &echoResponse{Name: req.Name, Limit: req.Limit, Tags: req.Tags}, nil
}

func newTestRouter() (*router.Router, *[]error) {
	r := router.New(testutil.MockContext())

	closed := []error{}
	r.AddCloser(func(ctx context.Context, err error) {
		closed = append(closed, err)
	})

	router.GET(r, "/get", echo)
	router.POST(r, "/post", echo)

	guarded := r.Branch()
	guarded.Before(func(ctx context.Context) (context.Context, error) {
		return nil, errorx.New(errorx.Unauthenticated, "Need authenticated")
	})
	router.POST(guarded, "/guarded", echo)

	return r, &closed
}

func newTestServer(t *testing.T) *httptest.Server {
	r, _ := newTestRouter()
	server := httptest.NewServer(r.Handler())
	t.Cleanup(server.Close)

	return server
}

func decode(t *testing.T, resp *http.Response) envelope {
	defer resp.Body.Close()

	var result envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}

func TestRouter_GETBindsQuery(t *testing.T) {
	r, closed := newTestRouter()

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/get?name=alice&limit=5&tags=a&tags=b", nil)
	r.Handler().ServeHTTP(recorder, req)

	result := decode(t, recorder.Result())
	require.EqualValues(t, 0, result.Code)
	require.Equal(t, "alice", result.Data.Name)
	require.Equal(t, 5, result.Data.Limit)
	require.Equal(t, []string{"a", "b"}, result.Data.Tags)
	require.Equal(t, []error{nil}, *closed)
}

func TestRouter_POSTBindsJSON(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Post(server.URL+"/post", "application/json",
		strings.NewReader(`{"name":"bob","limit":3}`))
	require.NoError(t, err)

	result := decode(t, resp)
	require.EqualValues(t, 0, result.Code)
	require.Equal(t, "bob", result.Data.Name)
	require.Equal(t, 3, result.Data.Limit)
}

func TestRouter_Errors(t *testing.T) {
	server := newTestServer(t)

	testCases := []struct {
		name    string
		method  string
		path    string
		body    string
		code    errorx.Code
		message string
	}{
		{
			name:    "handler error",
			method:  http.MethodPost,
			path:    "/post",
			body:    `{}`,
			code:    errorx.BadRequest,
			message: "Name is required",
		},
		{
			name:    "invalid json",
			method:  http.MethodPost,
			path:    "/post",
			body:    `{"name":`,
			code:    errorx.BadRequest,
			message: "Invalid request",
		},
		{
			name:    "method mismatch",
			method:  http.MethodPost,
			path:    "/get",
			body:    `{"name":"alice"}`,
			code:    errorx.NotFound,
			message: "Not found POST /get",
		},
		{
			name:    "middleware error",
			method:  http.MethodPost,
			path:    "/guarded",
			body:    `{"name":"alice"}`,
			code:    errorx.Unauthenticated,
			message: "Need authenticated",
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, server.URL+tt.path, strings.NewReader(tt.body))
			require.NoError(t, err)
			req.Header.Set("Content-Type", "application/json")

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)

			result := decode(t, resp)
			require.EqualValues(t, tt.code, result.Code)
			require.Equal(t, tt.message, result.Error)
		})
	}
}
