package errs

var (
	// Identity & credentials
	ErrAccountNotFound    = NotFound("account not found")
	ErrUsernameTaken      = AlreadyExists("username already exists")
	ErrPasswordTooShort   = InvalidArg("password must be at least 6 characters long")
	ErrPasswordMismatch   = InvalidArg("new password and confirm password do not match")
	ErrWrongPassword      = InvalidArg("password entered is incorrect")
	ErrInvalidCredentials = Unauthorized("invalid username or password")
	ErrUnauthenticated    = Unauthorized("not authenticated")

	// Recovery flow
	ErrNoRecoveryContact = FailedPrecondition("account has no recovery email on file")
	ErrInvalidCode       = FailedPrecondition("invalid or expired one-time code")

	// Social graph
	ErrAlreadyFollowing = AlreadyExists("already following this account")
	ErrNotFollowing     = FailedPrecondition("not following this account")
	ErrSelfFollow       = InvalidArg("cannot follow yourself")
	ErrChatNotFound     = NotFound("chat not found")
	ErrNotAMember       = Forbidden("not a member of this chat")
	ErrPostNotFound     = NotFound("post not found")
)

func ErrDeliveryFailed(cause error) error {
	return Wrap(CodeUnavailable, "unable to deliver one-time code", cause)
}

func ErrSessionStore(cause error) error {
	return Wrap(CodeInternal, "session store failure", cause)
}
