package members

import "context"

// Store resolves the external membership fact linking a user to a company.
// Used for non-owner read access to analyses.
type Store interface {
	IsMember(ctx context.Context, companyID, userID string) (bool, error)
}
