package domain

// AccountClassification defines the fundamental accounting nature of an account.
type AccountClassification string

const (
	Asset     AccountClassification = "ASSET"
	Liability AccountClassification = "LIABILITY"
)

// AccountStatus is the lifecycle state of an account.
type AccountStatus string

const (
	AccountActive          AccountStatus = "ACTIVE"
	AccountDraft           AccountStatus = "DRAFT"
	AccountDisabled        AccountStatus = "DISABLED"
	AccountPendingDeletion AccountStatus = "PENDING_DELETION"
)

// AccountKind is the product category of an account (what kind of thing it
// tracks), orthogonal to its classification.
type AccountKind string

const (
	KindDepository AccountKind = "DEPOSITORY"
	KindInvestment AccountKind = "INVESTMENT"
	KindCrypto     AccountKind = "CRYPTO"
	KindProperty   AccountKind = "PROPERTY"
	KindVehicle    AccountKind = "VEHICLE"
	KindCreditCard AccountKind = "CREDIT_CARD"
	KindLoan       AccountKind = "LOAN"
	KindOther      AccountKind = "OTHER"
)

// Account represents a financial account within the core domain.
// Every monetary value recorded against an account is either already in the
// account's currency or normalized before aggregation.
type Account struct {
	AccountID      string                `json:"accountID"`      // Primary Key (e.g., UUID)
	FamilyID       string                `json:"familyID"`       // FK -> families.family_id (NON-NULL)
	Name           string                `json:"name"`           // User-defined name
	Classification AccountClassification `json:"classification"` // ASSET or LIABILITY
	Kind           AccountKind           `json:"kind"`           // DEPOSITORY, INVESTMENT, ...
	CurrencyCode   string                `json:"currencyCode"`   // FK -> currencies.code (NON-NULL)
	Status         AccountStatus         `json:"status"`         // Lifecycle state
	Description    string                `json:"description"`    // Nullable user description
	AuditFields
}

// FlowsFactor returns how daily flows combine with the prior balance for this
// account: +1 for assets (inflows grow the balance), -1 for liabilities
// (inflows pay the balance down).
func (a Account) FlowsFactor() int {
	if a.Classification == Liability {
		return -1
	}
	return 1
}

// AcceptsEntries reports whether new entries may be appended to this account.
func (a Account) AcceptsEntries() bool {
	return a.Status == AccountActive || a.Status == AccountDraft
}
