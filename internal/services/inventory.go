package services

import (
	"context"
	"errors"
	"time"

	"apotek/internal/models"
)

var ErrUnauthenticated = errors.New("authenticated user required")

// Audit actions and the placeholder used when a deleted medicine is unknown.
const (
	ActionCreate = "Tambah Obat"
	ActionUpdate = "Edit Obat"
	ActionDelete = "Hapus Obat"

	UnknownMedicineName = "Obat Tidak Dikenal"
)

// WriteResult separates an audit trail failure from the outcome of the
// write itself, which is reported through the returned error.
type WriteResult struct {
	MedicineID   int64
	MedicineName string
	AuditErr     error
}

type ListView struct {
	Medicines  []models.Medicine
	Alerts     []models.Alert
	Categories []string
	Search     string
	Category   string
	Today      time.Time
}

type InventoryService struct {
	medicines *MedicineStore
	audit     *AuditService

	// Now is the clock used for expiry alerts.
	Now func() time.Time
}

func NewInventoryService(medicines *MedicineStore, audit *AuditService) *InventoryService {
	return &InventoryService{
		medicines: medicines,
		audit:     audit,
		Now:       time.Now,
	}
}

func (s *InventoryService) ListView(ctx context.Context, search, category string) (*ListView, error) {
	medicines, err := s.medicines.List(ctx, search, category)
	if err != nil {
		return nil, err
	}

	categories, err := s.medicines.Categories(ctx)
	if err != nil {
		return nil, err
	}

	today := s.Now()
	return &ListView{
		Medicines:  medicines,
		Alerts:     EvaluateAll(medicines, today),
		Categories: categories,
		Search:     search,
		Category:   category,
		Today:      today,
	}, nil
}

func (s *InventoryService) Get(ctx context.Context, id int64) (*models.Medicine, error) {
	return s.medicines.Get(ctx, id)
}

func (s *InventoryService) Create(ctx context.Context, actor *models.User, in models.MedicineInput) (WriteResult, error) {
	if err := requireActor(actor); err != nil {
		return WriteResult{}, err
	}
	if err := validateInput(in); err != nil {
		return WriteResult{}, err
	}

	id, err := s.medicines.Insert(ctx, in)
	if err != nil {
		return WriteResult{}, err
	}

	return WriteResult{
		MedicineID:   id,
		MedicineName: in.Name,
		AuditErr:     s.audit.Record(ctx, actor.Username, ActionCreate, "Menambahkan obat baru: "+in.Name),
	}, nil
}

func (s *InventoryService) Update(ctx context.Context, actor *models.User, id int64, in models.MedicineInput) (WriteResult, error) {
	if err := requireActor(actor); err != nil {
		return WriteResult{}, err
	}
	if err := validateInput(in); err != nil {
		return WriteResult{}, err
	}

	if err := s.medicines.Update(ctx, id, in); err != nil {
		return WriteResult{}, err
	}

	return WriteResult{
		MedicineID:   id,
		MedicineName: in.Name,
		AuditErr:     s.audit.Record(ctx, actor.Username, ActionUpdate, "Mengubah data obat: "+in.Name),
	}, nil
}

// Delete removes a medicine. An id that no longer exists is not an error;
// the audit entry then names UnknownMedicineName.
func (s *InventoryService) Delete(ctx context.Context, actor *models.User, id int64) (WriteResult, error) {
	if err := requireActor(actor); err != nil {
		return WriteResult{}, err
	}

	name := UnknownMedicineName
	m, err := s.medicines.Get(ctx, id)
	switch {
	case err == nil:
		name = m.Name
	case !errors.Is(err, ErrMedicineNotFound):
		return WriteResult{}, err
	}

	if _, err := s.medicines.Delete(ctx, id); err != nil {
		return WriteResult{}, err
	}

	return WriteResult{
		MedicineID:   id,
		MedicineName: name,
		AuditErr:     s.audit.Record(ctx, actor.Username, ActionDelete, "Menghapus obat: "+name),
	}, nil
}

func (s *InventoryService) History(ctx context.Context) ([]models.AuditLog, error) {
	return s.audit.List(ctx)
}

func requireActor(actor *models.User) error {
	if actor == nil || actor.Username == "" {
		return ErrUnauthenticated
	}
	return nil
}
