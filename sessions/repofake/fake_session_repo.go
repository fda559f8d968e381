package repofake

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/lblod/acmidm-login-service/identity"
	errs "github.com/lblod/acmidm-login-service/internal/errors"
	"github.com/lblod/acmidm-login-service/openid"
	"github.com/lblod/acmidm-login-service/sessions"
)

var _ sessions.Repo = (*FakeSessionRepo)(nil)

// FakeSessionRepo is an in-memory sessions.Repo for tests. Groups must be
// registered up front with AddGroup; bindings behave like the store does
// (purge is a no-op on unknown URIs, lookups return ErrNotFound).
type FakeSessionRepo struct {
	groupIDClaim string

	groups   map[string]*sessions.Group   // keyed by group identifier
	bindings map[string]*sessions.Session // keyed by session URI
	accounts map[string]*identity.Account // keyed by session URI
	lock     sync.RWMutex
}

func NewFakeSessionRepo(groupIDClaim string) *FakeSessionRepo {
	return &FakeSessionRepo{
		groupIDClaim: groupIDClaim,
		groups:       make(map[string]*sessions.Group),
		bindings:     make(map[string]*sessions.Session),
		accounts:     make(map[string]*identity.Account),
	}
}

// AddGroup registers a bestuurseenheid under the given identifier code.
func (r *FakeSessionRepo) AddGroup(code string) *sessions.Group {
	r.lock.Lock()
	defer r.lock.Unlock()

	id := uuid.NewString()
	group := &sessions.Group{
		URI: "http://data.lblod.info/id/bestuurseenheden/" + id,
		ID:  id,
	}
	r.groups[code] = group
	return group
}

func (r *FakeSessionRepo) ResolveGroup(_ context.Context, claims openid.Claims) (*sessions.Group, error) {
	code := claims.String(r.groupIDClaim)
	if code == "" {
		return nil, errs.ErrNotFound
	}

	r.lock.RLock()
	defer r.lock.RUnlock()

	group, ok := r.groups[code]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return group, nil
}

func (r *FakeSessionRepo) Purge(_ context.Context, sessionURI string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	delete(r.bindings, sessionURI)
	delete(r.accounts, sessionURI)
	return nil
}

func (r *FakeSessionRepo) Create(_ context.Context, account *identity.Account, sessionURI string, group *sessions.Group, roles []string) (*sessions.Session, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	session := &sessions.Session{
		URI:        sessionURI,
		ID:         uuid.NewString(),
		AccountURI: account.URI,
		Group:      *group,
		Roles:      roles,
	}
	r.bindings[sessionURI] = session
	r.accounts[sessionURI] = account
	return session, nil
}

func (r *FakeSessionRepo) FindAccountBySession(_ context.Context, sessionURI string) (*identity.Account, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	account, ok := r.accounts[sessionURI]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return account, nil
}

func (r *FakeSessionRepo) FindSessionByAccount(_ context.Context, account *identity.Account) (*sessions.Session, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	for _, session := range r.bindings {
		if session.AccountURI == account.URI {
			return session, nil
		}
	}
	return nil, errs.ErrNotFound
}

// BindingCount reports how many bindings currently exist.
func (r *FakeSessionRepo) BindingCount() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.bindings)
}

// Binding returns the binding for a session URI, nil when absent.
func (r *FakeSessionRepo) Binding(sessionURI string) *sessions.Session {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.bindings[sessionURI]
}
