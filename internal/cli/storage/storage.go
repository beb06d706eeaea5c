// Package storage persists small string values across coractl runs, the way a
// browser keeps localStorage between page loads.
package storage

import "errors"

// Well-known keys. Signing out removes all four together.
const (
	KeySession         = "auth-storage"
	KeyAccessToken     = "access_token"
	KeyRefreshToken    = "refresh_token"
	KeyDocumentStorage = "document-storage"
)

// SessionKeys lists every key cleared on sign-out
var SessionKeys = []string{KeySession, KeyAccessToken, KeyRefreshToken, KeyDocumentStorage}

// ErrNotFound is returned by Get for a missing key
var ErrNotFound = errors.New("storage: key not found")

// Storage is a string key/value store. Remove deletes all given keys in one
// step: either every key is gone afterwards or none is.
type Storage interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(keys ...string) error
}
