package domain

// Identity is the stable reference to a user record carried inside signed
// tokens. Immutable once created; owned by the user store.
type Identity struct {
	SubjectID string
	Username  string
}

// SessionBundle is the credential triple handed to the transport layer
// after a successful login, signup, or refresh. It is transient: the
// server keeps no record of it once the response is written.
//
// AccessToken embeds the hash of Fingerprint, so the two halves only work
// together; RefreshToken is bound to nothing but its own expiry.
type SessionBundle struct {
	AccessToken  string
	RefreshToken string

	// Fingerprint is the raw fingerprint value. The transport layer must
	// deliver it to the client through a channel separate from the access
	// token (an HttpOnly cookie in the reference deployment) for the
	// binding to add any protection.
	Fingerprint string
}
