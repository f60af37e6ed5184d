package models

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

type BootstrapRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

// BootstrapResponse carries the created administrator. The server does not
// issue a token here; a login with the same credentials follows.
type BootstrapResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

// Session is the authenticated state shared by every screen.
type Session struct {
	Token string
	User  User
}

func (s *Session) Valid() bool {
	return s != nil && s.Token != "" && s.User.Username != ""
}

type Health struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Message  string `json:"message"`
}
