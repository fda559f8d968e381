package sessions

// Group is a bestuurseenheid: a pre-existing reference entity the session is
// scoped to. Groups are looked up by identifier and never created here.
type Group struct {
	URI string
	ID  string
}

// Session binds the caller-supplied session URI to exactly one account, one
// group and a normalized role set. The URI is issued by the calling edge
// component (mu-identifier), not generated by this service; the ID is the
// mu:uuid minted when the binding is inserted.
type Session struct {
	URI        string
	ID         string
	AccountURI string
	Group      Group
	Roles      []string
}
