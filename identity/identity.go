package identity

// Person is the stable natural-person record in the store. It is created once
// per distinct user identifier claim and never deleted by this service.
type Person struct {
	URI        string // resource URI in the users graph
	ID         string // mu:uuid
	Identifier string // external identifier from the user-id claim
	FirstName  string
	FamilyName string
}

// Account is the online-service identity of a Person, keyed by the external
// account identifier claim.
type Account struct {
	URI string
	ID  string
}
