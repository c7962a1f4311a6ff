package domain

// User is the identity resolved by the auth collaborator.
type User struct {
	ID    SubjectID
	Email string
	Name  *string
}

// Session is an authenticated session issued by the auth collaborator.
type Session struct {
	ID     string
	UserID SubjectID
}

// AuthSession is the user and session bound to an inbound request.
type AuthSession struct {
	User    User
	Session Session
}
