package server

import (
	"encoding/json"
	"net/http"

	"github.com/lblod/acmidm-login-service/auth"
)

const contentTypeJSONAPI = "application/vnd.api+json"

// getSessionIDHeader returns the caller's session URI from the request headers.
func getSessionIDHeader(r *http.Request) string {
	return r.Header.Get("mu-session-id")
}

// getCallIDHeader returns the mu call id propagated to the store.
func getCallIDHeader(r *http.Request) string {
	return r.Header.Get("mu-call-id")
}

// clearAuthorizationCache instructs mu-authorization to drop any cached
// access decisions for the session; sent on every successful login/logout.
func clearAuthorizationCache(w http.ResponseWriter) {
	w.Header().Set("mu-auth-allowed-groups", "CLEAR")
}

type resourceRef struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type relationship struct {
	Links struct {
		Related string `json:"related"`
	} `json:"links"`
	Data resourceRef `json:"data"`
}

type sessionAttributes struct {
	Roles []string `json:"roles"`
}

type sessionResource struct {
	Type       string            `json:"type"`
	ID         string            `json:"id"`
	Attributes sessionAttributes `json:"attributes"`
}

type sessionBody struct {
	Links struct {
		Self string `json:"self"`
	} `json:"links"`
	Data          sessionResource         `json:"data"`
	Relationships map[string]relationship `json:"relationships"`
}

// sessionResponse shapes a session binding as a JSON:API document.
func sessionResponse(info *auth.SessionInfo) sessionBody {
	roles := info.Roles
	if roles == nil {
		roles = []string{}
	}

	body := sessionBody{
		Data: sessionResource{
			Type:       "sessions",
			ID:         info.SessionID,
			Attributes: sessionAttributes{Roles: roles},
		},
		Relationships: map[string]relationship{
			"account": relationshipFor("/accounts/", "accounts", info.AccountID),
			"group":   relationshipFor("/bestuurseenheden/", "bestuurseenheden", info.GroupID),
		},
	}
	body.Links.Self = "sessions/current"
	return body
}

func relationshipFor(basePath, resourceType, id string) relationship {
	rel := relationship{Data: resourceRef{Type: resourceType, ID: id}}
	rel.Links.Related = basePath + id
	return rel
}

func writeJSON(w http.ResponseWriter, body any, status int) {
	w.Header().Set("Content-Type", contentTypeJSONAPI)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError renders the mu error envelope: {"errors": [{"title": message}]}.
func writeError(w http.ResponseWriter, message string, status int) {
	type errorObject struct {
		Title string `json:"title"`
	}
	writeJSON(w, map[string][]errorObject{"errors": {{Title: message}}}, status)
}
