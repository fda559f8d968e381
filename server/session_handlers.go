package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	errs "github.com/lblod/acmidm-login-service/internal/errors"
	"github.com/lblod/acmidm-login-service/rlog"
	"github.com/lblod/acmidm-login-service/sparql"
)

type loginRequest struct {
	AuthorizationCode string `json:"authorizationCode"`
}

// LoginHandler exchanges the authorization code from the request body for a
// session binding on the mu-session-id URI.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionURI := getSessionIDHeader(r)
		if sessionURI == "" {
			writeError(w, errs.ErrMissingSessionHeader.Error(), http.StatusBadRequest)
			return
		}

		var body loginRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.AuthorizationCode == "" {
			writeError(w, errs.ErrMissingAuthorizationCode.Error(), http.StatusBadRequest)
			return
		}

		ctx := s.callContext(r)
		info, err := s.sessions.Login(ctx, sessionURI, body.AuthorizationCode)
		if err != nil {
			if errs.Is(err, errs.ErrAuthentication) {
				s.audit.Record(ctx, rlog.ClassLoginFailure, err.Error(), sessionURI)
			}
			s.renderError(w, err)
			return
		}

		clearAuthorizationCache(w)
		writeJSON(w, sessionResponse(info), http.StatusCreated)
	}
}

// LogoutHandler removes the binding for the mu-session-id URI.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionURI := getSessionIDHeader(r)
		if sessionURI == "" {
			writeError(w, errs.ErrMissingSessionHeader.Error(), http.StatusBadRequest)
			return
		}

		ctx := s.callContext(r)
		if err := s.sessions.Logout(ctx, sessionURI); err != nil {
			if errs.Is(err, errs.ErrInvalidSession) {
				s.audit.Record(ctx, rlog.ClassUnknownSession, err.Error(), sessionURI)
			}
			s.renderError(w, err)
			return
		}

		clearAuthorizationCache(w)
		w.WriteHeader(http.StatusNoContent)
	}
}

// CurrentSessionHandler returns the binding for the mu-session-id URI.
func (s *Server) CurrentSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionURI := getSessionIDHeader(r)
		if sessionURI == "" {
			writeError(w, errs.ErrMissingSessionHeader.Error(), http.StatusBadRequest)
			return
		}

		info, err := s.sessions.CurrentSession(s.callContext(r), sessionURI)
		if err != nil {
			s.renderError(w, err)
			return
		}

		writeJSON(w, sessionResponse(info), http.StatusOK)
	}
}

// callContext attaches the caller's mu headers for propagation to the store.
func (s *Server) callContext(r *http.Request) context.Context {
	return sparql.WithCallHeaders(r.Context(), sparql.CallHeaders{
		SessionID: getSessionIDHeader(r),
		CallID:    getCallIDHeader(r),
	})
}

// renderError maps a domain error onto its status code and error envelope.
// Anything outside the taxonomy is a storage or programming fault: logged
// and rendered as a 500 with the message, never a stack trace.
func (s *Server) renderError(w http.ResponseWriter, err error) {
	switch {
	case errs.Is(err, errs.ErrMissingSessionHeader), errs.Is(err, errs.ErrMissingAuthorizationCode):
		writeError(w, err.Error(), http.StatusBadRequest)
	case errs.Is(err, errs.ErrAuthentication):
		writeError(w, err.Error(), http.StatusUnauthorized)
	case errs.Is(err, errs.ErrNoGroup):
		writeError(w, err.Error(), http.StatusForbidden)
	case errs.Is(err, errs.ErrInvalidSession):
		writeError(w, err.Error(), http.StatusBadRequest)
	default:
		log.Error().Err(err).Msg("unexpected error while handling request")
		writeError(w, err.Error(), http.StatusInternalServerError)
	}
}
