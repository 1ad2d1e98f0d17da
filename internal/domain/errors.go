package domain

import "errors"

var (
	// Chart of accounts errors
	ErrAccountNotFound    = errors.New("gl account not found")
	ErrDuplicateCode      = errors.New("gl account code already exists")
	ErrParentNotFound     = errors.New("parent gl account not found")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrInvalidAccountType = errors.New("invalid account type")

	// Float account errors
	ErrFloatAccountNotFound = errors.New("float account not found")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrSameAccount          = errors.New("cannot transfer to same float account")
	ErrInvalidAmount        = errors.New("amount must be positive")

	// Mapping errors
	ErrMappingNotFound  = errors.New("no float-gl mapping resolves for transaction")
	ErrDuplicateMapping = errors.New("active mapping already exists for this role")

	// Posting errors
	ErrInvalidEvent     = errors.New("invalid posting event")
	ErrUnbalancedEntry  = errors.New("journal entries do not balance")
	ErrPostingNotFound  = errors.New("gl transaction not found")
	ErrDuplicatePosting = errors.New("source transaction already posted")
	ErrAlreadyReversed  = errors.New("gl transaction already reversed")
	ErrUnknownTemplate  = errors.New("no posting template for transaction type")

	// Reconciliation errors
	ErrNoDrift = errors.New("account has no drift to repair")

	// Infrastructure errors
	ErrStoreUnavailable = errors.New("data store unavailable")
)
