package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"dealflow/internal/domain"
	"dealflow/pkg/errcodes"
	"dealflow/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		reply.Error(r.Context(), w, domain.NewError(errcodes.NotFound, "route not found: "+r.URL.Path))
	})

	r.Route("/", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			r.Route("/deals", func(r chi.Router) {
				r.Post("/", handler(s.postV1Deal))
				r.Get("/", handler(s.listV1Deals))
				r.Get("/{id}", handler(s.getV1Deal))
				r.Post("/{id}/process", handler(s.postV1DealProcess))
				r.Post("/{id}/transition", handler(s.postV1DealTransition))
				r.Post("/{id}/calls", handler(s.postV1DealCall))
				r.Post("/{id}/followups", handler(s.postV1DealFollowUp))
			})

			r.Post("/followups/{id}/complete", handler(s.postV1FollowUpComplete))

			r.Route("/buyers", func(r chi.Router) {
				r.Post("/", handler(s.postV1Buyer))
				r.Get("/{id}/eligibility", handler(s.getV1BuyerEligibility))
			})
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
