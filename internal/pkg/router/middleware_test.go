package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tabineta/authd/internal/pkg/instrument"
)

func TestChainOrder(t *testing.T) {
	var order []string

	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), tag("outer"), tag("inner"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if len(order) != 3 || order[0] != "outer" || order[1] != "inner" || order[2] != "handler" {
		t.Fatalf("unexpected execution order: %v", order)
	}
}

func TestChainEmpty(t *testing.T) {
	called := false
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !called {
		t.Fatalf("expected handler to run without middleware")
	}
}

type staticID struct{ id string }

func (s staticID) Generate() string { return s.id }

func TestMiddlewareCorrelationID(t *testing.T) {
	t.Run("EchoesIncomingHeader", func(t *testing.T) {
		var got string
		h := middlewareCorrelationID(staticID{id: "generated"})(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			got = instrument.GetCorrelationID(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderCorrelationID, "from-client")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		if got != "from-client" {
			t.Fatalf("expected from-client in context, got %q", got)
		}
		if rec.Header().Get(HeaderCorrelationID) != "from-client" {
			t.Fatalf("expected header echoed back, got %q", rec.Header().Get(HeaderCorrelationID))
		}
	})

	t.Run("GeneratesWhenMissing", func(t *testing.T) {
		var got string
		h := middlewareCorrelationID(staticID{id: "generated"})(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			got = instrument.GetCorrelationID(r.Context())
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if got != "generated" {
			t.Fatalf("expected generated id in context, got %q", got)
		}
	})

	t.Run("RejectsHeaderInjection", func(t *testing.T) {
		var got string
		h := middlewareCorrelationID(staticID{id: "generated"})(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			got = instrument.GetCorrelationID(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderCorrelationID, "bad\rvalue")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		if got != "generated" {
			t.Fatalf("expected fallback to generated id, got %q", got)
		}
	})
}
