package main

import (
	"net/http"
	"net/url"

	"github.com/AdamBeresnev/tournament-store/internal/boundary"
	"github.com/AdamBeresnev/tournament-store/internal/bracket"
	"github.com/AdamBeresnev/tournament-store/internal/httputil"
	"github.com/AdamBeresnev/tournament-store/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type createRequest struct {
	Name string `json:"name"`
}

type saveImageRequest struct {
	FileName  string `json:"fileName"`
	ImageData string `json:"imageData"`
}

func respond[T any](w http.ResponseWriter, res boundary.Response[T]) {
	httputil.WriteJSON(w, res.StatusCode(), res)
}

// nameParam returns the {name} segment. chi matches on the already decoded
// path unless the request carried a RawPath, in which case the param is still
// escaped.
func nameParam(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name
	}
	if unescaped, err := url.PathUnescape(name); err == nil {
		return unescaped
	}
	return name
}

func newRouter(adapter *boundary.Adapter, maxBodyBytes int64) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Trace)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestSize(maxBodyBytes))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.NotFound(w, "Route not found")
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, boundary.Response[boundary.Health]{
			Success: true,
			Data:    boundary.Health{Status: "ok"},
		})
	})

	r.Route("/tournaments", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			respond(w, adapter.GetAll(r.Context()))
		})

		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var req createRequest
			if status, err := httputil.DecodeJSON(r, &req); err != nil {
				httputil.BadRequest(w, status, "Invalid JSON body", err)
				return
			}
			respond(w, adapter.Create(r.Context(), req.Name))
		})

		r.Put("/", func(w http.ResponseWriter, r *http.Request) {
			var t bracket.Tournament
			if status, err := httputil.DecodeJSON(r, &t); err != nil {
				httputil.BadRequest(w, status, "Invalid tournament document", err)
				return
			}
			respond(w, adapter.Update(r.Context(), &t))
		})

		r.Get("/path", func(w http.ResponseWriter, r *http.Request) {
			httputil.WriteJSON(w, http.StatusOK, adapter.GetPath())
		})

		r.Route("/{name}", func(r chi.Router) {
			r.Post("/images", func(w http.ResponseWriter, r *http.Request) {
				var req saveImageRequest
				if status, err := httputil.DecodeJSON(r, &req); err != nil {
					httputil.BadRequest(w, status, "Invalid JSON body", err)
					return
				}
				respond(w, adapter.SaveParticipantImage(r.Context(), nameParam(r), req.FileName, req.ImageData))
			})

			r.Get("/images", func(w http.ResponseWriter, r *http.Request) {
				respond(w, adapter.GetImageData(r.Context(), nameParam(r), r.URL.Query().Get("path")))
			})

			r.Get("/theme", func(w http.ResponseWriter, r *http.Request) {
				respond(w, adapter.GetTheme(r.Context(), nameParam(r)))
			})
		})
	})

	return r
}
