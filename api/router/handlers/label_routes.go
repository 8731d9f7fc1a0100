package handlers

import (
	"openkeep/core"

	"github.com/go-chi/chi/v5"
)

func RegisterLabelRoutes(r chi.Router, svc *core.LabelService) {
	h := &LabelHandlers{Service: svc}

	r.Get("/labels", h.ListLabelsHandler)
	r.Post("/labels", h.CreateLabelHandler)

	r.Route("/labels/{labelID}", func(subRouter chi.Router) {
		subRouter.Get("/", h.GetLabelHandler)
		subRouter.Patch("/", h.RenameLabelHandler)
		subRouter.Delete("/", h.DeleteLabelHandler)
	})
}
