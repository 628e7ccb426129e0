// Package services defines the business logic for recording campaign
// participation and computing the dashboard snapshot. This file centralizes
// common service-level error values so that they can be consistently
// returned by service methods and checked by callers.
//
// Validation errors are client-fixable and map to HTTP 400 at the handler
// layer; anything else coming out of a service is a storage (or upstream)
// failure and maps to 500.
package services

import "errors"

// Validation errors for the submission path. Primary validation happens in
// the client form; these exist as defense in depth so a malformed record can
// never reach the metrics table.
var (
	// ErrNameRequired is returned when the full name is missing or blank.
	ErrNameRequired = errors.New("full name is required")

	// ErrPostcodeRequired is returned when the postcode is missing or blank.
	ErrPostcodeRequired = errors.New("postcode is required")

	// ErrEmailRequired is returned when the email address is missing or blank.
	ErrEmailRequired = errors.New("email is required")

	// ErrEmailInvalid is returned when the email address is not syntactically
	// valid.
	ErrEmailInvalid = errors.New("email address is not valid")

	// ErrContentRequired is returned when the submitted message text is empty.
	ErrContentRequired = errors.New("email content is required")

	// ErrOutsideServiceArea is returned when the postcode does not match the
	// campaign's area filter. Records for non-matching postcodes are never
	// persisted.
	ErrOutsideServiceArea = errors.New("postcode is outside the campaign area")
)

// ErrSenderDisabled is returned by the transactional send path when no mail
// provider is configured for this deployment.
var ErrSenderDisabled = errors.New("transactional email sending is not configured")

// IsValidation reports whether err is one of the client-fixable validation
// sentinels above, letting handlers pick between 400 and 500 without
// enumerating every sentinel at each call site.
func IsValidation(err error) bool {
	for _, v := range []error{
		ErrNameRequired,
		ErrPostcodeRequired,
		ErrEmailRequired,
		ErrEmailInvalid,
		ErrContentRequired,
		ErrOutsideServiceArea,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
