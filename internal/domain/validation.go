package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidAccountName = errors.New("invalid account name")
	ErrInvalidAccountCode = errors.New("invalid account code")
	ErrInvalidBranchID    = errors.New("invalid branch id")
	ErrAmountTooLarge     = errors.New("amount exceeds maximum allowed")
	ErrMetadataTooLarge   = errors.New("metadata size exceeds limit")
)

// Validation constants
const (
	MaxAccountNameLength = 255
	MinAccountNameLength = 1
	MaxMetadataSize      = 10240        // 10KB
	MaxPostingAmount     = "1000000000" // 1 billion
)

// Account codes follow the numeric chart convention (e.g. 1100, 4010-2).
var accountCodeRegex = regexp.MustCompile(`^[0-9]{3,6}(-[0-9]{1,3})?$`)

// ValidateAccountName validates a chart-of-accounts name.
func ValidateAccountName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) < MinAccountNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidAccountName)
	}

	if len(name) > MaxAccountNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAccountName, MaxAccountNameLength)
	}

	return nil
}

// ValidateAccountCode validates a chart-of-accounts code.
func ValidateAccountCode(code string) error {
	if !accountCodeRegex.MatchString(strings.TrimSpace(code)) {
		return fmt.Errorf("%w: %q", ErrInvalidAccountCode, code)
	}
	return nil
}

// ValidateBranchID validates a branch identifier.
func ValidateBranchID(branchID string) error {
	if strings.TrimSpace(branchID) == "" {
		return ErrInvalidBranchID
	}
	return nil
}

// ValidateAmount validates a posting or adjustment amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxPostingAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxPostingAmount)
	}

	return nil
}

// ValidateFee validates an optional fee portion (zero is fine).
func ValidateFee(fee decimal.Decimal) error {
	if fee.IsNegative() {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxPostingAmount)
	if fee.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum fee is %s", ErrAmountTooLarge, MaxPostingAmount)
	}

	return nil
}

// ValidateMetadata validates metadata size
func ValidateMetadata(metadata map[string]any) error {
	if metadata == nil {
		return nil
	}

	// Estimate size (rough approximation)
	size := 0
	for k, v := range metadata {
		size += len(k)
		size += len(fmt.Sprintf("%v", v))
	}

	if size > MaxMetadataSize {
		return fmt.Errorf("%w: metadata size %d bytes exceeds limit of %d bytes", ErrMetadataTooLarge, size, MaxMetadataSize)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
