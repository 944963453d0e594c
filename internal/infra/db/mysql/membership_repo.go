package mysql

import (
	"context"
	"database/sql"
)

// MembershipRepository resolves company membership for non-owner reads.
type MembershipRepository struct {
	db *sql.DB
}

func NewMembershipRepository(db *sql.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// IsMember reports whether an active link between company and user exists.
func (r *MembershipRepository) IsMember(ctx context.Context, companyID, userID string) (bool, error) {
	const q = `
SELECT EXISTS(
  SELECT 1 FROM company_members
  WHERE company_id = ? AND user_id = ? AND active = 1
);
`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, companyID, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
