package domain

import "time"

// MappingRole names the purpose a GL account plays for a float account or
// transaction type.
type MappingRole string

const (
	RoleMain       MappingRole = "main"
	RoleFee        MappingRole = "fee"
	RoleCommission MappingRole = "commission"
	RoleLiability  MappingRole = "liability"
	RoleSettlement MappingRole = "settlement"
	RolePartner    MappingRole = "partner"

	// RoleCash is the branch till/operational GL side of a channel posting,
	// normally bound through the generic transaction-type fallback.
	RoleCash MappingRole = "cash"
)

// SignConvention records which journal side increases the mapped balance.
// Carried explicitly per mapping; inferring it from the account type risks
// silently inverted reconciliation reports.
type SignConvention string

const (
	SignDebitIncreases  SignConvention = "debit-increases"
	SignCreditIncreases SignConvention = "credit-increases"
)

// FloatGLMapping associates a float account (or, as a fallback, a transaction
// type within a branch) with a GL account by role. At most one active mapping
// may exist per (float account, role) and per (transaction type, branch, role).
type FloatGLMapping struct {
	ID              string
	FloatAccountID  *string
	TransactionType *string
	BranchID        string
	GLAccountID     string
	GLAccountCode   string
	Role            MappingRole
	Sign            SignConvention
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// MappingSet is a resolved role -> mapping view for one posting.
type MappingSet map[MappingRole]*FloatGLMapping

// Account returns the GL account id mapped for role, or "" if unmapped.
func (s MappingSet) Account(role MappingRole) string {
	if m, ok := s[role]; ok {
		return m.GLAccountID
	}
	return ""
}

// Has reports whether every given role is mapped.
func (s MappingSet) Has(roles ...MappingRole) bool {
	for _, r := range roles {
		if _, ok := s[r]; !ok {
			return false
		}
	}
	return true
}
