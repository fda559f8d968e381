package repofake

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/lblod/acmidm-login-service/identity"
	"github.com/lblod/acmidm-login-service/openid"
)

var _ identity.Repo = (*FakeIdentityRepo)(nil)

// FakeIdentityRepo is an in-memory identity.Repo for tests.
type FakeIdentityRepo struct {
	userIDClaim    string
	accountIDClaim string

	persons  map[string]*identity.Person // keyed by user identifier claim
	accounts map[string]*identity.Account // keyed by personURI + account identifier
	lock     sync.RWMutex
}

func NewFakeIdentityRepo(userIDClaim, accountIDClaim string) *FakeIdentityRepo {
	return &FakeIdentityRepo{
		userIDClaim:    userIDClaim,
		accountIDClaim: accountIDClaim,
		persons:        make(map[string]*identity.Person),
		accounts:       make(map[string]*identity.Account),
	}
}

func (r *FakeIdentityRepo) FindOrCreatePerson(_ context.Context, claims openid.Claims) (*identity.Person, error) {
	userID := claims.String(r.userIDClaim)
	if userID == "" {
		return nil, fmt.Errorf("claims are missing the %q claim", r.userIDClaim)
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	if person, ok := r.persons[userID]; ok {
		return person, nil
	}

	id := uuid.NewString()
	person := &identity.Person{
		URI:        "http://data.lblod.info/id/persoon/" + id,
		ID:         id,
		Identifier: userID,
		FirstName:  claims.String("given_name"),
		FamilyName: claims.String("family_name"),
	}
	r.persons[userID] = person
	return person, nil
}

func (r *FakeIdentityRepo) FindOrCreateAccount(_ context.Context, person *identity.Person, claims openid.Claims) (*identity.Account, error) {
	accountID := claims.String(r.accountIDClaim)
	if accountID == "" {
		return nil, fmt.Errorf("claims are missing the %q claim", r.accountIDClaim)
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	key := person.URI + "|" + accountID
	if account, ok := r.accounts[key]; ok {
		return account, nil
	}

	id := uuid.NewString()
	account := &identity.Account{
		URI: "http://data.lblod.info/id/account/" + id,
		ID:  id,
	}
	r.accounts[key] = account
	return account, nil
}

// PersonCount reports how many persons have been created.
func (r *FakeIdentityRepo) PersonCount() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.persons)
}

// AccountCount reports how many accounts have been created.
func (r *FakeIdentityRepo) AccountCount() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.accounts)
}
