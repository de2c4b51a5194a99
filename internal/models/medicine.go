package models

import "time"

type Medicine struct {
	ID         int64      `db:"id" json:"id"`
	Name       string     `db:"nama" json:"name"`
	Category   string     `db:"kategori" json:"category"`
	Stock      int        `db:"stok" json:"stock"`
	Price      float64    `db:"harga" json:"price"`
	ExpiryDate *time.Time `db:"tanggal_kadaluarsa" json:"expiry_date,omitempty"`
}

// MedicineInput is the validated payload of the create and update forms.
type MedicineInput struct {
	Name       string    `validate:"required,max=255"`
	Category   string    `validate:"required,max=100"`
	Stock      int       `validate:"gte=0"`
	Price      float64   `validate:"gte=0"`
	ExpiryDate time.Time `validate:"required"`
}

type AlertKind string

const (
	AlertExpired      AlertKind = "EXPIRED"
	AlertExpiringSoon AlertKind = "EXPIRING_SOON"
)

// Alert is derived at list time and never stored.
type Alert struct {
	Kind         AlertKind `json:"kind"`
	MedicineID   int64     `json:"medicine_id"`
	MedicineName string    `json:"medicine_name"`
	DaysLeft     int       `json:"days_left"`
	Message      string    `json:"message"`
}
