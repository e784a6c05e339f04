package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/blog-backend/database"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type userHandler struct {
	responder Responder
	logger    zerolog.Logger
	userRepo  *database.UserRepo
}

func newUserHandler(db database.Database) userHandler {
	logger := log.With().Str("handlerName", "userHandler").Logger()

	return userHandler{
		responder: NewResponder(logger),
		logger:    logger,
		userRepo:  db.UserRepo(),
	}
}

// getUserProfile returns a user's public profile with the ids of their posts
func (h userHandler) getUserProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := h.userRepo.FindByUsername(r.Context(), chi.URLParam(r, "username"))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}
		if user == nil {
			h.responder.WriteEmpty(w, http.StatusNotFound)
			return
		}

		blogs, err := h.userRepo.PostIDs(r.Context(), user.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "blog posts", err))
			return
		}

		h.responder.WriteJSON(w, http.StatusOK, userProfileResponse{
			ID:        user.ID,
			Username:  user.Username,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Blogs:     blogs,
		})
	}
}
