package kernel

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const (
	// MaxLocationCodeLength bounds warehouse location codes such as "A-12-03".
	MaxLocationCodeLength = 64
	// MaxBinNumberLength bounds bin labels inside a location.
	MaxBinNumberLength = 32
)

// ErrBinLocationIsNotConstructed is returned by Validate on the zero value.
var ErrBinLocationIsNotConstructed = errs.NewValueIsRequiredError(
	"bin location must be created via NewBinLocation")

// BinLocation is where a picker took an item from: a warehouse location code
// and an optional bin inside it.
//
// Example:
//
//	loc, err := kernel.NewBinLocation("A-12-03", "B7")
//	fmt.Println(loc) // A-12-03/B7
type BinLocation struct { //nolint:recvcheck //using for validation
	locationCode string
	binNumber    string
	guard        guard.ConstructorGuard
}

// NewBinLocation trims both parts and validates them. The location code is
// required, the bin number may be empty.
func NewBinLocation(locationCode, binNumber string) (BinLocation, error) {
	loc := BinLocation{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(loc.setLocationCode(locationCode), loc.setBinNumber(binNumber)); err != nil {
		return BinLocation{}, err
	}

	return loc, nil
}

// Validate reports whether the location was built by NewBinLocation.
func (l BinLocation) Validate() error {
	return l.guard.Validate(ErrBinLocationIsNotConstructed)
}

// LocationCode returns the warehouse location code.
func (l BinLocation) LocationCode() string {
	return l.locationCode
}

// BinNumber returns the bin label, or "" when none was recorded.
func (l BinLocation) BinNumber() string {
	return l.binNumber
}

// String renders "<location>/<bin>", or just the location when no bin is set.
func (l BinLocation) String() string {
	if l.binNumber == "" {
		return l.locationCode
	}
	return fmt.Sprintf("%s/%s", l.locationCode, l.binNumber)
}

// IsEqual compares two constructed locations.
func (l BinLocation) IsEqual(other BinLocation) (bool, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return l.locationCode == other.locationCode && l.binNumber == other.binNumber, nil
}

func (l *BinLocation) setLocationCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return errs.NewValueIsRequiredError("locationCode")
	}
	if len(code) > MaxLocationCodeLength {
		return errs.NewValueIsOutOfRangeError("locationCode", len(code), 1, MaxLocationCodeLength)
	}

	l.locationCode = code
	return nil
}

func (l *BinLocation) setBinNumber(bin string) error {
	bin = strings.TrimSpace(bin)
	if len(bin) > MaxBinNumberLength {
		return errs.NewValueIsOutOfRangeError("binNumber", len(bin), 0, MaxBinNumberLength)
	}

	l.binNumber = bin
	return nil
}
