package services

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"apotek/internal/models"
)

// Form field names of the create and update forms.
const (
	FieldName       = "nama"
	FieldCategory   = "kategori"
	FieldStock      = "stok"
	FieldPrice      = "harga"
	FieldExpiryDate = "tanggal_kadaluarsa"
)

var fieldLabels = map[string]string{
	FieldName:       "Nama",
	FieldCategory:   "Kategori",
	FieldStock:      "Stok",
	FieldPrice:      "Harga",
	FieldExpiryDate: "Tanggal kadaluarsa",
}

var structFields = map[string]string{
	"Name":       FieldName,
	"Category":   FieldCategory,
	"Stock":      FieldStock,
	"Price":      FieldPrice,
	"ExpiryDate": FieldExpiryDate,
}

type FieldError struct {
	Field   string
	Message string
}

// ValidationError is a user input error. It lists every offending field.
type ValidationError struct {
	Problems []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		msgs = append(msgs, p.Message)
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) add(field, message string) {
	e.Problems = append(e.Problems, FieldError{Field: field, Message: fieldLabels[field] + " " + message})
}

func (e *ValidationError) has(field string) bool {
	for _, p := range e.Problems {
		if p.Field == field {
			return true
		}
	}
	return false
}

// ParseMedicineForm converts submitted form values into a MedicineInput.
// Missing or malformed fields are reported together as a *ValidationError.
func ParseMedicineForm(values url.Values) (models.MedicineInput, error) {
	var in models.MedicineInput
	verr := &ValidationError{}

	in.Name = strings.TrimSpace(values.Get(FieldName))
	in.Category = strings.TrimSpace(values.Get(FieldCategory))
	if in.Name == "" {
		verr.add(FieldName, "wajib diisi")
	}
	if in.Category == "" {
		verr.add(FieldCategory, "wajib diisi")
	}

	if raw := strings.TrimSpace(values.Get(FieldStock)); raw == "" {
		verr.add(FieldStock, "wajib diisi")
	} else if stock, err := strconv.Atoi(raw); err != nil {
		verr.add(FieldStock, "harus berupa bilangan bulat")
	} else {
		in.Stock = stock
	}

	if raw := strings.TrimSpace(values.Get(FieldPrice)); raw == "" {
		verr.add(FieldPrice, "wajib diisi")
	} else if price, err := strconv.ParseFloat(raw, 64); err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		verr.add(FieldPrice, "harus berupa angka")
	} else {
		in.Price = price
	}

	if raw := strings.TrimSpace(values.Get(FieldExpiryDate)); raw == "" {
		verr.add(FieldExpiryDate, "wajib diisi")
	} else if date, err := time.Parse(dateLayout, raw); err != nil {
		verr.add(FieldExpiryDate, "harus berformat YYYY-MM-DD")
	} else {
		in.ExpiryDate = date
	}

	// Range checks only make sense for fields that parsed.
	if err := validateInput(in); err != nil {
		var rangeErr *ValidationError
		if errors.As(err, &rangeErr) {
			for _, p := range rangeErr.Problems {
				if !verr.has(p.Field) {
					verr.Problems = append(verr.Problems, p)
				}
			}
		}
	}

	if len(verr.Problems) > 0 {
		return in, verr
	}
	return in, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func validateInput(in models.MedicineInput) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		field := structFields[fe.StructField()]
		switch fe.Tag() {
		case "required":
			verr.add(field, "wajib diisi")
		case "gte":
			verr.add(field, "tidak boleh negatif")
		case "max":
			verr.add(field, "terlalu panjang")
		default:
			verr.add(field, "tidak valid")
		}
	}
	return verr
}
