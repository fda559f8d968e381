package resolverfake

import (
	"context"
	"sync"

	errs "github.com/lblod/acmidm-login-service/internal/errors"
	"github.com/lblod/acmidm-login-service/openid"
)

var _ openid.Resolver = (*FakeResolver)(nil)

// FakeResolver maps authorization codes to canned claim sets for tests.
// Unknown codes fail the way a rejected exchange does.
type FakeResolver struct {
	claims map[string]openid.Claims
	calls  int
	lock   sync.Mutex
}

func NewFakeResolver() *FakeResolver {
	return &FakeResolver{claims: make(map[string]openid.Claims)}
}

// AddCode registers a claim set for an authorization code.
func (r *FakeResolver) AddCode(code string, claims openid.Claims) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.claims[code] = claims
}

func (r *FakeResolver) Exchange(_ context.Context, authorizationCode string) (openid.Claims, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.calls++
	claims, ok := r.claims[authorizationCode]
	if !ok {
		return nil, errs.ErrAuthentication
	}
	return claims, nil
}

// Calls reports how many exchanges were attempted.
func (r *FakeResolver) Calls() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.calls
}
