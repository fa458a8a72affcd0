// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package middleware

import (
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
)

// DefaultCookieMaxAge keeps a chosen locale for a year.
const DefaultCookieMaxAge = 365 * 24 * 60 * 60

// CookieCodec reads and writes the locale cookie. Without a hash key the
// value is stored as-is; with one it is signed.
type CookieCodec struct {
	sc     *securecookie.SecureCookie // nil for plain cookies
	Name   string
	MaxAge int
	Secure bool
}

// NewCookieCodec creates a codec. hashKey is an optional 32-byte hex string.
func NewCookieCodec(name, hashKey string, secure bool) (*CookieCodec, error) {
	c := &CookieCodec{
		Name:   name,
		MaxAge: DefaultCookieMaxAge,
		Secure: secure,
	}
	if hashKey == "" {
		return c, nil
	}

	key, err := hex.DecodeString(hashKey)
	if err != nil {
		return nil, fmt.Errorf("invalid locale cookie hash key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("locale cookie hash key must be 32 bytes, got %d", len(key))
	}
	c.sc = securecookie.New(key, nil).MaxAge(c.MaxAge)
	return c, nil
}

// Signed reports whether cookie values are signed.
func (c *CookieCodec) Signed() bool {
	return c.sc != nil
}

// Read returns the locale stored in the request, or "" if absent or
// tampered with.
func (c *CookieCodec) Read(r *http.Request) string {
	cookie, err := r.Cookie(c.Name)
	if err != nil || cookie.Value == "" {
		return ""
	}
	if c.sc == nil {
		return cookie.Value
	}
	var value string
	if err := c.sc.Decode(c.Name, cookie.Value, &value); err != nil {
		return ""
	}
	return value
}

// Write stores code in the response.
func (c *CookieCodec) Write(w http.ResponseWriter, code string) error {
	value := code
	if c.sc != nil {
		encoded, err := c.sc.Encode(c.Name, code)
		if err != nil {
			return fmt.Errorf("failed to encode locale cookie: %w", err)
		}
		value = encoded
	}

	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   c.MaxAge,
		Expires:  time.Now().Add(time.Duration(c.MaxAge) * time.Second),
		Secure:   c.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
