package service

import (
	"context"
	"fmt"

	"backend/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DashboardResponse aggregates the figures the dashboard cards show.
type DashboardResponse struct {
	FacturasPendientes     int64  `json:"facturasPendientes"`
	FacturasPagadas        int64  `json:"facturasPagadas"`
	FacturasVencidas       int64  `json:"facturasVencidas"`
	TotalFacturado         string `json:"totalFacturado"`      // paid sale invoices
	TotalPendienteCobro    string `json:"totalPendienteCobro"` // unpaid sale invoices
	TotalCompras           string `json:"totalCompras"`        // all purchase invoices
	PresupuestosPendientes int64  `json:"presupuestosPendientes"`
	PresupuestosAceptados  int64  `json:"presupuestosAceptados"`
	ImportePresupuestado   string `json:"importePresupuestado"` // pending quote volume
}

type StatisticsService interface {
	GetDashboard(ctx context.Context) (DashboardResponse, error)
}

type statisticsService struct {
	db *gorm.DB
}

func NewStatisticsService(db *gorm.DB) StatisticsService {
	return &statisticsService{db: db}
}

func (s *statisticsService) GetDashboard(ctx context.Context) (DashboardResponse, error) {
	resp := DashboardResponse{}

	counts := []struct {
		estado string
		dest   *int64
	}{
		{model.InvoiceEstadoPendiente, &resp.FacturasPendientes},
		{model.InvoiceEstadoPagada, &resp.FacturasPagadas},
		{model.InvoiceEstadoVencida, &resp.FacturasVencidas},
	}
	for _, c := range counts {
		if err := s.db.WithContext(ctx).Model(&model.Invoice{}).
			Where("estado = ?", c.estado).Count(c.dest).Error; err != nil {
			return DashboardResponse{}, fmt.Errorf("failed to count invoices: %w", err)
		}
	}

	facturado, err := s.sumInvoices(ctx, "tipo = ? AND estado = ?", model.InvoiceTipoVenta, model.InvoiceEstadoPagada)
	if err != nil {
		return DashboardResponse{}, err
	}
	pendienteCobro, err := s.sumInvoices(ctx, "tipo = ? AND estado <> ?", model.InvoiceTipoVenta, model.InvoiceEstadoPagada)
	if err != nil {
		return DashboardResponse{}, err
	}
	compras, err := s.sumInvoices(ctx, "tipo = ?", model.InvoiceTipoCompra)
	if err != nil {
		return DashboardResponse{}, err
	}
	resp.TotalFacturado = facturado.StringFixed(2)
	resp.TotalPendienteCobro = pendienteCobro.StringFixed(2)
	resp.TotalCompras = compras.StringFixed(2)

	if err := s.db.WithContext(ctx).Model(&model.Quote{}).
		Where("estado = ?", model.QuoteEstadoPendiente).Count(&resp.PresupuestosPendientes).Error; err != nil {
		return DashboardResponse{}, fmt.Errorf("failed to count quotes: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&model.Quote{}).
		Where("estado = ?", model.QuoteEstadoAceptado).Count(&resp.PresupuestosAceptados).Error; err != nil {
		return DashboardResponse{}, fmt.Errorf("failed to count quotes: %w", err)
	}

	var presupuestado decimal.NullDecimal
	if err := s.db.WithContext(ctx).Model(&model.Quote{}).
		Where("estado = ?", model.QuoteEstadoPendiente).
		Select("SUM(total)").Scan(&presupuestado).Error; err != nil {
		return DashboardResponse{}, fmt.Errorf("failed to sum quotes: %w", err)
	}
	resp.ImportePresupuestado = presupuestado.Decimal.StringFixed(2)

	return resp, nil
}

func (s *statisticsService) sumInvoices(ctx context.Context, cond string, args ...interface{}) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := s.db.WithContext(ctx).Model(&model.Invoice{}).
		Where(cond, args...).
		Select("SUM(total)").Scan(&total).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum invoices: %w", err)
	}
	return total.Decimal, nil
}
