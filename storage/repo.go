package storage

import apperrors "github.com/jrsteele09/go-lab-console/internal/errors"

// Keys persisted by the console between restarts.
const (
	KeyCurrentUser  = "currentUser"
	KeyToken        = "token"
	KeyUserID       = "userId"
	KeyUserFullName = "userFullName"
	KeyUsuario      = "usuario"
	KeySucursal     = "sucursal"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = apperrors.ErrNotFound

// AllKeys lists every key written by the console.
func AllKeys() []string {
	return []string{KeyCurrentUser, KeyToken, KeyUserID, KeyUserFullName, KeyUsuario, KeySucursal}
}

// AuxiliaryKeys are written alongside the session but are not owned by the session store.
func AuxiliaryKeys() []string {
	return []string{KeyUserID, KeyUserFullName, KeyUsuario, KeySucursal}
}

// Repo is a flat string key/value store.
type Repo interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(keys ...string) error
}
