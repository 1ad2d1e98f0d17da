package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FloatAccountType identifies the service channel a float account serves.
type FloatAccountType string

const (
	FloatTypeMoMo              FloatAccountType = "momo"
	FloatTypeEZwich            FloatAccountType = "e-zwich"
	FloatTypeCashInTill        FloatAccountType = "cash-in-till"
	FloatTypeJumia             FloatAccountType = "jumia"
	FloatTypePower             FloatAccountType = "power"
	FloatTypeAgencyBanking     FloatAccountType = "agency-banking"
	FloatTypeSettlementPartner FloatAccountType = "settlement-partner"
)

// FloatAccount is a branch-scoped balance for one payment channel/provider.
// CurrentBalance is mutated only through the balance manager or the settlement
// engine, never directly.
type FloatAccount struct {
	ID             string
	BranchID       string
	AccountType    FloatAccountType
	Provider       string
	CurrentBalance decimal.Decimal
	MinThreshold   decimal.Decimal
	MaxThreshold   decimal.Decimal
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ValidateDebit checks the account can absorb a debit of amount.
func (f *FloatAccount) ValidateDebit(amount decimal.Decimal) error {
	if !f.Active {
		return ErrAccountInactive
	}
	if f.CurrentBalance.LessThan(amount) {
		return ErrInsufficientFunds
	}
	return nil
}

// BelowMinThreshold reports whether the balance has fallen under the alert floor.
func (f *FloatAccount) BelowMinThreshold() bool {
	return !f.MinThreshold.IsZero() && f.CurrentBalance.LessThan(f.MinThreshold)
}

// FloatTransactionType classifies a float balance movement.
type FloatTransactionType string

const (
	FloatTxnAdjustment   FloatTransactionType = "adjustment"
	FloatTxnTransferOut  FloatTransactionType = "transfer-out"
	FloatTxnTransferIn   FloatTransactionType = "transfer-in"
	FloatTxnChannelEvent FloatTransactionType = "channel-event"
	FloatTxnRecharge     FloatTransactionType = "recharge"
)

// FloatTransaction is the audit row written for every balance adjustment.
// This trail is the reconciliation ground truth independent of the GL.
type FloatTransaction struct {
	ID             string
	FloatAccountID string
	Type           FloatTransactionType
	Amount         decimal.Decimal
	BalanceBefore  decimal.Decimal
	BalanceAfter   decimal.Decimal
	Reference      string
	CreatedBy      string
	CreatedAt      time.Time
}
