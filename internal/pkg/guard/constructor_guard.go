// Package guard provides a small helper for enforcing that domain objects
// are created through their constructor functions rather than as zero values.
package guard

import "errors"

// ErrObjectIsNotConstructed is returned by Validate when no custom error is supplied.
var ErrObjectIsNotConstructed = errors.New("object must be created via its constructor")

// ConstructorGuard marks an object as properly constructed. Embed it as a
// private field and initialize it with NewConstructorGuard inside the
// constructor; the zero value fails Validate.
type ConstructorGuard struct {
	constructed bool
}

// NewConstructorGuard returns a guard in the constructed state.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{constructed: true}
}

// Validate returns nil when the guard was created via NewConstructorGuard.
// Otherwise it returns notConstructed, or ErrObjectIsNotConstructed when
// notConstructed is nil.
func (g ConstructorGuard) Validate(notConstructed error) error {
	if g.constructed {
		return nil
	}
	if notConstructed == nil {
		return ErrObjectIsNotConstructed
	}
	return notConstructed
}
