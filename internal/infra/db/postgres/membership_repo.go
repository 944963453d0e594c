package postgres

import (
	"context"
	"database/sql"
)

type MembershipRepository struct {
	db *sql.DB
}

func NewMembershipRepository(db *sql.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) IsMember(ctx context.Context, companyID, userID string) (bool, error) {
	const q = `
SELECT EXISTS(
  SELECT 1 FROM company_members
  WHERE company_id = $1 AND user_id = $2 AND active
);
`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, companyID, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
