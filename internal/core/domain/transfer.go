package domain

// Transfer is a derived pairing of two entries (opposite sign, matching
// normalized amount, compatible dates, different accounts within the same
// family) representing a single movement of money between a family's own
// accounts. Transfers reference entries; they never own them. An entry belongs
// to at most one transfer.
type Transfer struct {
	TransferID     string `json:"transferID"`     // Primary Key (e.g., UUID)
	FamilyID       string `json:"familyID"`       // FK -> families.family_id
	OutflowEntryID string `json:"outflowEntryID"` // FK -> entries.entry_id; the negative-amount side
	InflowEntryID  string `json:"inflowEntryID"`  // FK -> entries.entry_id; the positive-amount side
	AuditFields
}
