package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"apotek/internal/database"
	"apotek/internal/models"
)

var ErrMedicineNotFound = errors.New("medicine not found")

const (
	medicineColumns = "id, nama, kategori, stok, harga, tanggal_kadaluarsa"
	dateLayout      = "2006-01-02"
)

// MedicineStore reads and writes the obat table.
type MedicineStore struct {
	db *database.DB
}

func NewMedicineStore(db *database.DB) *MedicineStore {
	return &MedicineStore{db: db}
}

// List returns medicines ordered by id. A non-empty search matches the name
// as a case-insensitive substring, a non-empty category must match exactly.
// When both are given a row has to satisfy both.
func (s *MedicineStore) List(ctx context.Context, search, category string) ([]models.Medicine, error) {
	query := "SELECT " + medicineColumns + " FROM obat"

	var where []string
	var args []interface{}

	if search != "" {
		where = append(where, `LOWER(nama) LIKE LOWER(?) ESCAPE '\'`)
		args = append(args, "%"+escapeLike(search)+"%")
	}
	if category != "" {
		where = append(where, "kategori = ?")
		args = append(args, category)
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id ASC"

	medicines := []models.Medicine{}
	if err := s.db.SelectContext(ctx, &medicines, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list medicines: %w", err)
	}
	return medicines, nil
}

func (s *MedicineStore) Get(ctx context.Context, id int64) (*models.Medicine, error) {
	var m models.Medicine
	err := s.db.GetContext(ctx, &m, s.db.Rebind("SELECT "+medicineColumns+" FROM obat WHERE id = ?"), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMedicineNotFound
		}
		return nil, fmt.Errorf("failed to get medicine: %w", err)
	}
	return &m, nil
}

func (s *MedicineStore) Insert(ctx context.Context, in models.MedicineInput) (int64, error) {
	var id int64
	err := s.db.QueryRowxContext(ctx, s.db.Rebind(`
		INSERT INTO obat (nama, kategori, stok, harga, tanggal_kadaluarsa)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`), in.Name, in.Category, in.Stock, in.Price, in.ExpiryDate.Format(dateLayout)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert medicine: %w", err)
	}
	return id, nil
}

func (s *MedicineStore) Update(ctx context.Context, id int64, in models.MedicineInput) error {
	result, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE obat
		SET nama = ?, kategori = ?, stok = ?, harga = ?, tanggal_kadaluarsa = ?
		WHERE id = ?
	`), in.Name, in.Category, in.Stock, in.Price, in.ExpiryDate.Format(dateLayout), id)
	if err != nil {
		return fmt.Errorf("failed to update medicine: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrMedicineNotFound
	}
	return nil
}

// Delete removes the row and reports whether one existed.
func (s *MedicineStore) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM obat WHERE id = ?"), id)
	if err != nil {
		return false, fmt.Errorf("failed to delete medicine: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// Categories lists the distinct categories in use, alphabetically.
func (s *MedicineStore) Categories(ctx context.Context) ([]string, error) {
	categories := []string{}
	if err := s.db.SelectContext(ctx, &categories, "SELECT DISTINCT kategori FROM obat ORDER BY kategori"); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
