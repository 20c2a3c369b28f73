package models

// LoginRequest is the credential payload accepted by the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SessionUser is the authenticated identity exposed to handlers and embedded
// in the session token.
type SessionUser struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
