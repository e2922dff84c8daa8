package types

import "fmt"

// Scope identifies the tenant boundary every ledger entity belongs to.
// AgencyID is required; SubAccountID further narrows the scope and may be
// empty for agency-level entities. Identity resolution happens outside the
// engine — the caller passes an already-resolved scope.
type Scope struct {
	AgencyID     string `json:"agency_id"`
	SubAccountID string `json:"sub_account_id,omitempty"`
}

// NewScope creates an agency-level scope.
func NewScope(agencyID string) Scope {
	return Scope{AgencyID: agencyID}
}

// WithSubAccount returns a copy of the scope narrowed to a sub-account.
func (s Scope) WithSubAccount(subAccountID string) Scope {
	s.SubAccountID = subAccountID
	return s
}

// IsZero reports whether the scope is unset.
func (s Scope) IsZero() bool {
	return s.AgencyID == ""
}

// Key returns a stable string key for map lookups and storage columns.
func (s Scope) Key() string {
	if s.SubAccountID == "" {
		return s.AgencyID
	}
	return fmt.Sprintf("%s/%s", s.AgencyID, s.SubAccountID)
}

// String implements fmt.Stringer.
func (s Scope) String() string { return s.Key() }
