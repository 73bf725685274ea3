package payment

import "errors"

var (
	// ErrPaymentNotFound indicates the payment does not exist.
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrProviderNotFound indicates no provider is registered under the
	// requested name.
	ErrProviderNotFound = errors.New("payment provider not found")

	// ErrAlreadySettled indicates the payment was already decided by an
	// earlier webhook.
	ErrAlreadySettled = errors.New("payment already settled")
)
