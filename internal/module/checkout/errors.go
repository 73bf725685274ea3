package checkout

import "errors"

var (
	// ErrCartEmpty indicates checkout was attempted with no lines.
	ErrCartEmpty = errors.New("cart is empty")

	// ErrPhoneRequired indicates the user must add a phone number before
	// checking out.
	ErrPhoneRequired = errors.New("phone number required")

	// ErrMultipleItems indicates the cart holds more than one line. The
	// gateway session carries a single line; the user has to trim the
	// cart first.
	ErrMultipleItems = errors.New("checkout supports a single item")
)
