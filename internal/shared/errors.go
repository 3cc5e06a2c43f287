package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Catalogue load errors. Fatal at startup: the bridge must never serve
	// requests against a broken or empty catalogue.
	ErrCatalogueNotFound  = fmt.Errorf("catalogue source not found")
	ErrMalformedCatalogue = fmt.Errorf("malformed catalogue")
	ErrEmptyCatalogue     = fmt.Errorf("catalogue has no usable rows")

	// Lookup errors, recoverable per request
	ErrSongNotFound  = fmt.Errorf("song not found")
	ErrAmbiguousSong = fmt.Errorf("ambiguous song request")

	// Planning errors
	ErrNoAnchor = fmt.Errorf("no jump anchor available")

	// Input backend errors
	ErrNoBackend  = fmt.Errorf("no input backend available")
	ErrSendFailed = fmt.Errorf("sending input failed")
	ErrBridgeBusy = fmt.Errorf("another key sequence is in flight")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
