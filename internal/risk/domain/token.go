package domain

import "time"

// TokenPair is what a login or refresh hands back: a short-lived access
// token and the longer-lived refresh token used to rotate both.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration // access token lifetime
}
