package domain

// Session holds the token pair issued by the booking backend plus the
// credentials of the last successful login. Tokens are always replaced as a
// pair; there is no externally visible half-authenticated state.
type Session struct {
	Token       string // issued at login, sent on every signed call
	CourseToken string // course-scoped, fetched once per session

	// credentials retained for silent reauthentication on session expiry
	SavedUserID   string
	SavedPassword string
}

func (s Session) Authenticated() bool {
	return s.Token != "" && s.CourseToken != ""
}

func (s Session) HasCredentials() bool {
	return s.SavedUserID != "" && s.SavedPassword != ""
}
