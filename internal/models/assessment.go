package models

type Assessment struct {
	ID        int64  `db:"id" json:"id"`
	UserID    int64  `db:"user_id" json:"user_id"`
	StartedAt *int64 `db:"started_at" json:"started_at"`
	UpdatedAt *int64 `db:"updated_at" json:"updated_at"`
}
