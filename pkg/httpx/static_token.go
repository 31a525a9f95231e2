package httpx

import "context"

// StaticToken is an authenticator for APIs that hand out a long lived key.
type StaticToken string

func (t StaticToken) Authenticate(context.Context) error {
	return nil
}

func (t StaticToken) BearerToken() string {
	return string(t)
}
