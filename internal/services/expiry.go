package services

import (
	"fmt"
	"time"

	"apotek/internal/models"
)

// ExpiringSoonDays is the window, inclusive, in which a medicine is flagged
// as about to expire.
const ExpiringSoonDays = 7

// DaysUntil counts calendar days from today to expiry. Negative once expired.
func DaysUntil(expiry, today time.Time) int {
	e := time.Date(expiry.Year(), expiry.Month(), expiry.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(t).Hours() / 24)
}

// EvaluateExpiry returns the alert for m as of today, or nil.
func EvaluateExpiry(m models.Medicine, today time.Time) *models.Alert {
	if m.ExpiryDate == nil {
		return nil
	}

	days := DaysUntil(*m.ExpiryDate, today)
	switch {
	case days < 0:
		return &models.Alert{
			Kind:         models.AlertExpired,
			MedicineID:   m.ID,
			MedicineName: m.Name,
			DaysLeft:     days,
			Message:      fmt.Sprintf("❌ Obat '%s' sudah kadaluarsa!", m.Name),
		}
	case days <= ExpiringSoonDays:
		return &models.Alert{
			Kind:         models.AlertExpiringSoon,
			MedicineID:   m.ID,
			MedicineName: m.Name,
			DaysLeft:     days,
			Message:      fmt.Sprintf("⚠ Obat '%s' akan kadaluarsa dalam %d hari!", m.Name, days),
		}
	default:
		return nil
	}
}

// EvaluateAll keeps the order of medicines.
func EvaluateAll(medicines []models.Medicine, today time.Time) []models.Alert {
	alerts := []models.Alert{}
	for _, m := range medicines {
		if a := EvaluateExpiry(m, today); a != nil {
			alerts = append(alerts, *a)
		}
	}
	return alerts
}
