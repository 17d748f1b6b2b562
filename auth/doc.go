// Package auth authenticates API callers by bearer token.
//
// The service is protected by a single shared API key. The key is
// configured either in plaintext (auth.api_key / API_KEY) or as a bcrypt
// hash (auth.api_key_hash) so the secret does not have to live in the
// environment:
//
//	a, err := auth.NewAuthenticator(cfg.Auth)
//	token, err := a.Authenticate("Bearer", presented)
package auth
