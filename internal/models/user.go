package models

import "time"

type User struct {
	ID           int64  `db:"id" json:"id"`
	Username     string `db:"username" json:"username"`
	PasswordHash string `db:"password_hash" json:"-"`
}

// AuditLog is one row of the riwayat table.
type AuditLog struct {
	ID          int64     `db:"id" json:"id"`
	Username    string    `db:"username" json:"username"`
	Action      string    `db:"aksi" json:"action"`
	Description string    `db:"deskripsi" json:"description"`
	CreatedAt   time.Time `db:"waktu" json:"created_at"`
}

// Flash is a one-shot notice carried in the session across a redirect.
type Flash struct {
	Category string
	Message  string
}
