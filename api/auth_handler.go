package api

import (
	"net/http"

	"github.com/rpupo63/blog-backend/auth"
	"github.com/rpupo63/blog-backend/database"
	"github.com/rpupo63/blog-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	userRepo  *database.UserRepo
	issuer    *auth.TokenIssuer
}

func newAuthHandler(db database.Database, issuer *auth.TokenIssuer) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger),
		logger:    logger,
		userRepo:  db.UserRepo(),
		issuer:    issuer,
	}
}

func (h authHandler) register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var registration auth.Registration
		if err := readJSON(w, r, &registration); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user, err := auth.Register(r.Context(), h.userRepo, registration)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("username", user.Username).Msg("user registered")
		h.responder.WriteJSON(w, http.StatusCreated, user)
	}
}

func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload loginPayload
		if err := readJSON(w, r, &payload); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user, err := auth.Authenticate(r.Context(), h.userRepo, payload.Username, payload.Password)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if user == nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("invalid username or password"))
			return
		}

		token, err := h.issuer.Issue(user.ID, user.Username)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("could not issue token", err))
			return
		}

		h.responder.WriteJSON(w, http.StatusOK, tokenResponse{Token: token})
	}
}
