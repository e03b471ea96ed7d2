package service

import (
	"context"
	"errors"
	"time"

	"backend/internal/apperr"
	"backend/internal/billing"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// ItemPayload is a document line as submitted by the client. Amounts travel
// as JSON numbers or decimal strings; either way they parse exactly.
type ItemPayload struct {
	Descripcion    string          `json:"descripcion" binding:"required"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precioUnitario"`
}

func toBillingLines(items []ItemPayload) []billing.Line {
	lines := make([]billing.Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, billing.Line{Cantidad: it.Cantidad, PrecioUnitario: it.PrecioUnitario})
	}
	return lines
}

func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, apperr.Validationf("id invalido: %s", id)
	}
	return parsed, nil
}

func parseDate(value, field string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, apperr.Validationf("%s: fecha invalida (formato YYYY-MM-DD)", field)
	}
	return t, nil
}

// wrapNotFound converts gorm's record-not-found into the domain NotFound kind;
// other lookup failures pass through untouched.
func wrapNotFound(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFoundf("%s no encontrado", entity)
	}
	return err
}

// allocateDocumentNumber reserves the next number of a kind for the wall-clock
// year, first raising the sequence over any legacy numbers that predate the
// sequence table. Must run inside the transaction persisting the document.
func allocateDocumentNumber(txCtx context.Context, seqRepo repository.SequenceRepository, kind string, legacy []string) (string, error) {
	year := time.Now().Year()
	if err := seqRepo.Seed(txCtx, kind, year, billing.MaxSuffix(legacy)); err != nil {
		return "", err
	}
	n, err := seqRepo.Next(txCtx, kind, year)
	if err != nil {
		return "", err
	}
	return billing.FormatNumber(kind, year, n), nil
}
