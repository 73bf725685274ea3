package settings

import "errors"

var (
	// ErrNotDirty indicates the submitted section equals the saved one.
	ErrNotDirty = errors.New("no changes to save")

	// ErrAccountMismatch indicates the payout account number and its
	// confirmation differ.
	ErrAccountMismatch = errors.New("account numbers do not match")
)
