package entity

import "errors"

var (
	// ErrCredentialNotProvisioned means the certificate pair for the statement
	// source is missing on disk. Operators must provision it; no code fix helps.
	ErrCredentialNotProvisioned = errors.New("statement source credential not provisioned")

	// ErrUpstream wraps any failure talking to the statement source or the stores.
	ErrUpstream = errors.New("upstream request failed")

	// ErrDuplicatePayment is returned by a ledger when its storage guard rejects
	// a payment whose external hash is already recorded.
	ErrDuplicatePayment = errors.New("matched payment already recorded")

	ErrRunInProgress = errors.New("reconciliation run already in progress")

	ErrNotFound = errors.New("not found")
)
