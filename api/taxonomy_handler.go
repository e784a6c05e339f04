package api

import (
	"net/http"

	"github.com/rpupo63/blog-backend/database"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// taxonomyHandler exposes categories and tags read-only. They are managed
// with the command line tool.
type taxonomyHandler struct {
	responder    Responder
	logger       zerolog.Logger
	categoryRepo *database.CategoryRepo
	tagRepo      *database.TagRepo
}

func newTaxonomyHandler(db database.Database) taxonomyHandler {
	logger := log.With().Str("handlerName", "taxonomyHandler").Logger()

	return taxonomyHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		categoryRepo: db.CategoryRepo(),
		tagRepo:      db.TagRepo(),
	}
}

func (h taxonomyHandler) listCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := h.categoryRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "categories", err))
			return
		}
		h.responder.WriteJSON(w, http.StatusOK, categories)
	}
}

func (h taxonomyHandler) listTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := h.tagRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "tags", err))
			return
		}
		h.responder.WriteJSON(w, http.StatusOK, tags)
	}
}
