package models

// Session is the client's belief about the authenticated user: an opaque
// bearer token, the user record and the locally cached cart. The token is
// never parsed or inspected.
type Session struct {
	Token string       `json:"token"`
	User  *User        `json:"user"`
	Cart  CartSnapshot `json:"cart"`
}

// Authenticated reports whether both token and user identity are present
func (s *Session) Authenticated() bool {
	return s.Token != "" && s.User != nil && s.User.ID > 0
}

// UserID returns the user identifier, or zero when logged out
func (s *Session) UserID() int {
	if s.User == nil {
		return 0
	}
	return s.User.ID
}
