package handlers

import (
	"openkeep/core"

	"github.com/go-chi/chi/v5"
)

func RegisterNoteRoutes(r chi.Router, svc *core.NoteService) {
	h := &NoteHandlers{Service: svc}

	r.Get("/notes", h.ListNotesHandler)
	r.Post("/notes", h.CreateNoteHandler)
	r.Put("/notes", h.ReorderNotesHandler)
	r.Delete("/notes/trash", h.EmptyTrashHandler)

	r.Route("/notes/{noteID}", func(subRouter chi.Router) {
		subRouter.Get("/", h.GetNoteHandler)
		subRouter.Patch("/", h.UpdateNoteHandler)
		subRouter.Delete("/", h.DeleteNoteHandler)
	})
}
