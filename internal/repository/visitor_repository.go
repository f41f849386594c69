package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/luxemuseum/booking-api/internal/model"
)

// VisitorRepo stores identity records synced from the external identity
// provider.  This service only ever upserts on sync and reads aggregate
// counts for analytics; visitors are never deleted.
type VisitorRepo struct {
	db *sql.DB
}

// NewVisitorRepo returns a new VisitorRepo bound to the given database.
func NewVisitorRepo(db *sql.DB) *VisitorRepo { return &VisitorRepo{db: db} }

const visitorColumns = "id, uid, email, name, picture, role, last_active, created_at"

func scanVisitor(row interface {
	Scan(dest ...interface{}) error
}) (model.Visitor, error) {
	var v model.Visitor
	var picture sql.NullString
	err := row.Scan(&v.ID, &v.UID, &v.Email, &v.Name, &picture, &v.Role, &v.LastActive, &v.CreatedAt)
	v.Picture = picture.String
	return v, err
}

// GetByUID fetches a visitor by the opaque external uid.
func (r *VisitorRepo) GetByUID(ctx context.Context, uid string) (*model.Visitor, error) {
	const q = "SELECT " + visitorColumns + " FROM visitors WHERE uid = ?"
	v, err := scanVisitor(r.db.QueryRowContext(ctx, q, uid))
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Upsert creates a visitor on first sync or refreshes name, picture and
// last_active on every subsequent sync.  The role is written as "visitor"
// on creation and never modified here.  Returns the stored record.
func (r *VisitorRepo) Upsert(ctx context.Context, uid, email, name, picture string) (*model.Visitor, error) {
	const upd = "UPDATE visitors SET name = ?, picture = ?, last_active = ? WHERE uid = ?"
	res, err := r.db.ExecContext(ctx, upd, name, picture, time.Now().UTC(), uid)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// First sync: either the row is absent, or the update matched an
		// identical row.  Probe before inserting.
		if v, err := r.GetByUID(ctx, uid); err == nil {
			return v, nil
		} else if err != sql.ErrNoRows {
			return nil, err
		}
		const ins = "INSERT INTO visitors (uid, email, name, picture, role) VALUES (?, ?, ?, ?, ?)"
		if _, err := r.db.ExecContext(ctx, ins, uid, email, name, picture, model.RoleVisitor); err != nil {
			return nil, err
		}
	}
	return r.GetByUID(ctx, uid)
}

// CountByRole counts identity records carrying the given role.  The
// denominator of the conversion rate uses role "visitor".
func (r *VisitorRepo) CountByRole(ctx context.Context, role string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM visitors WHERE role = ?", role).Scan(&n)
	return n, err
}

// CountActiveSince counts identity records with the given role whose
// last_active falls at or after the cutoff.  A liveness proxy, not a true
// concurrent-session count.
func (r *VisitorRepo) CountActiveSince(ctx context.Context, role string, cutoff time.Time) (int64, error) {
	const q = "SELECT COUNT(*) FROM visitors WHERE role = ? AND last_active >= ?"
	var n int64
	err := r.db.QueryRowContext(ctx, q, role, cutoff).Scan(&n)
	return n, err
}
