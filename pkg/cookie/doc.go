// Package cookie writes and reads HTTP cookies with shared defaults and
// optional HMAC signing.
//
// Signed cookies carry base64(value) and an HMAC-SHA256 over the cookie name
// and value. GetSigned tries every configured secret, so rotating keys only
// requires prepending the new secret:
//
//	mgr, err := cookie.New([]string{newSecret, oldSecret})
//	_ = mgr.SetSigned(w, "ff_checkout-v2", "on")
//	v, err := mgr.GetSigned(r, "ff_checkout-v2")
//	if errors.Is(err, cookie.ErrInvalidSignature) {
//		// tampered or signed with a retired key
//	}
//
// Secrets must be at least 32 characters. Config and NewFromConfig load the
// settings from COOKIE_* environment variables.
package cookie
