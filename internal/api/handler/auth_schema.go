package handler

type loginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=128"`
}

// tokenResponse carries the access token. The refresh token never appears in
// a response body; it travels only in the HTTP-only cookie.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type messageResponse struct {
	Message string `json:"message"`
}
