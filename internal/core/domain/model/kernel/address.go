package kernel

import (
	"errors"

	"pharmaflow/internal/pkg/errs"
)

// ErrAddressIsNotConstructed indicates that an Address was not created via NewAddress.
var ErrAddressIsNotConstructed = errors.New("Address must be created via NewAddress constructor")

// Address is the delivery destination for an order: a postal address plus the
// geographic point used for the tracking map. ContactPhone is the number the
// delivery agent calls on arrival.
type Address struct {
	street       string
	city         string
	zipCode      string
	contactPhone string
	location     GeoPoint

	isConstructed bool
}

// NewAddress creates an Address. Street and city are required; the location
// must be a constructed GeoPoint.
func NewAddress(street, city, zipCode, contactPhone string, location GeoPoint) (Address, error) {
	address := Address{isConstructed: true}

	if err := errors.Join(
		address.setStreet(street),
		address.setCity(city),
		address.setLocation(location),
	); err != nil {
		return Address{}, err
	}

	address.zipCode = zipCode
	address.contactPhone = contactPhone
	return address, nil
}

// Validate ensures the Address was created via NewAddress.
func (a Address) Validate() error {
	if !a.isConstructed {
		return ErrAddressIsNotConstructed
	}
	return nil
}

// Street returns the street line of the address.
func (a Address) Street() string {
	return a.street
}

// City returns the city of the address.
func (a Address) City() string {
	return a.city
}

// ZipCode returns the postal code, which may be empty.
func (a Address) ZipCode() string {
	return a.zipCode
}

// ContactPhone returns the recipient's phone number, which may be empty.
func (a Address) ContactPhone() string {
	return a.contactPhone
}

// Location returns the geographic point of the address.
func (a Address) Location() GeoPoint {
	return a.location
}

func (a *Address) setStreet(street string) error {
	if street == "" {
		return errs.NewValueIsRequiredError("street")
	}
	a.street = street
	return nil
}

func (a *Address) setCity(city string) error {
	if city == "" {
		return errs.NewValueIsRequiredError("city")
	}
	a.city = city
	return nil
}

func (a *Address) setLocation(location GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}
	a.location = location
	return nil
}
