package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/angelbv/cvweb-backend/config"
	"github.com/angelbv/cvweb-backend/database"
	"github.com/angelbv/cvweb-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	userRepo  *database.UserRepo
	secret    string
}

func newAuthHandler(userRepo *database.UserRepo, c map[string]string) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger),
		logger:    logger,
		userRepo:  userRepo,
		secret:    config.GetString(c, "TOKEN_SECRET", ""),
	}
}

// LoginRequest carries the owner's credentials
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued session token
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// login checks the owner's credentials and issues a session token.
// Logout is client-side token discard; there is no server session state.
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("failed to read request body"))
			return
		}

		var req LoginRequest
		if err := json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		if req.Username == "" || req.Password == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("username and password are required"))
			return
		}

		user, err := h.userRepo.FindByUsername(req.Username)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}
		// Same response for unknown user and wrong password.
		if user == nil || !user.CheckPassword(req.Password) {
			h.responder.WriteError(w, errs.NewUnauthorizedError("invalid username or password"))
			return
		}

		token, err := signOwnerToken(h.secret, user.ID)
		if err != nil {
			h.logger.Error().Err(err).Msg("failed to sign session token")
			h.responder.WriteError(w, errs.NewInternalError("failed to issue session token"))
			return
		}

		h.responder.WriteJSON(w, LoginResponse{Token: token, Username: user.Username})
	}
}
