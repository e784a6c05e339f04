// Package permissions decides who may change a resource.
package permissions

import "github.com/google/uuid"

// Owned is implemented by resources that have a single owner.
type Owned interface {
	OwnerID() uuid.UUID
}

// IsOwner reports whether identity owns resource. A nil identity owns nothing.
func IsOwner(identity uuid.UUID, resource Owned) bool {
	if identity == uuid.Nil || resource == nil {
		return false
	}
	return resource.OwnerID() == identity
}

// CanModify allows reads for everyone and writes only for the owner.
func CanModify(method string, identity uuid.UUID, resource Owned) bool {
	switch method {
	case "GET", "HEAD", "OPTIONS":
		return true
	}
	return IsOwner(identity, resource)
}
