package router

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/questx-lab/quest-engine/pkg/errorx"
	"github.com/questx-lab/quest-engine/pkg/xcontext"
	"github.com/rs/cors"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. The returned context replaces the
// request context.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc always runs after the response is written.
type CloserFunc func(ctx context.Context, err error)

type Router struct {
	mux  *http.ServeMux
	base context.Context

	befores []MiddlewareFunc
	closers *[]CloserFunc
}

// New creates a router whose requests inherit every value of ctx, such as
// configs, logger and database.
func New(ctx context.Context) *Router {
	return &Router{
		mux:     http.NewServeMux(),
		base:    ctx,
		closers: &[]CloserFunc{},
	}
}

// Branch returns a router sharing the same routes and closers but with its
// own before-middlewares.
func (r *Router) Branch() *Router {
	befores := make([]MiddlewareFunc, len(r.befores))
	copy(befores, r.befores)

	return &Router{
		mux:     r.mux,
		base:    r.base,
		befores: befores,
		closers: r.closers,
	}
}

func (r *Router) Before(m MiddlewareFunc) {
	r.befores = append(r.befores, m)
}

func (r *Router) AddCloser(c CloserFunc) {
	*r.closers = append(*r.closers, c)
}

func (r *Router) Handle(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

func (r *Router) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   xcontext.Configs(r.base).ApiServer.AllowOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
		AllowCredentials: true,
	}).Handler(r.mux)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.Handle(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.Handle(pattern, wrapHandler(r, http.MethodPost, handler))
}

func wrapHandler[Request, Response any](
	r *Router, method string, handler HandlerFunc[Request, Response],
) http.Handler {
	befores := r.befores
	return http.HandlerFunc(func(w http.ResponseWriter, httpReq *http.Request) {
		ctx := context.Context(inheritContext{Context: httpReq.Context(), values: r.base})
		ctx = xcontext.WithHTTPRequest(ctx, httpReq)

		var err error
		defer func() {
			for _, c := range *r.closers {
				c(ctx, err)
			}
		}()

		resp, err := func() (*Response, error) {
			if httpReq.Method != method {
				return nil, errorx.New(errorx.NotFound, "Not found %s %s", httpReq.Method, httpReq.URL.Path)
			}

			for _, m := range befores {
				newCtx, err := m(ctx)
				if err != nil {
					return nil, err
				}
				ctx = newCtx
			}

			req := new(Request)
			if err := bind(httpReq, method, req); err != nil {
				xcontext.Logger(ctx).Debugf("Cannot bind the request: %v", err)
				return nil, errorx.New(errorx.BadRequest, "Invalid request")
			}

			return handler(ctx, req)
		}()

		if err != nil {
			writeError(ctx, w, err)
			return
		}

		writeResponse(ctx, w, resp)
	})
}

func bind(r *http.Request, method string, req any) error {
	if method == http.MethodGet {
		return bindQuery(r, req)
	}

	// Multipart bodies are read by the handler itself.
	if r.Body == nil || r.ContentLength == 0 || isMultipart(r) {
		return nil
	}

	return json.NewDecoder(r.Body).Decode(req)
}

func bindQuery(r *http.Request, req any) error {
	values := map[string]any{}
	for k, v := range r.URL.Query() {
		if len(v) == 1 {
			values[k] = v[0]
		} else {
			values[k] = v
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           req,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(values)
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

type inheritContext struct {
	context.Context
	values context.Context
}

func (c inheritContext) Value(key any) any {
	if v := c.Context.Value(key); v != nil {
		return v
	}

	return c.values.Value(key)
}
