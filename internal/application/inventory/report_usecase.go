package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafe-backoffice/internal/domain/entity"
	"github.com/jhoicas/cafe-backoffice/internal/domain/inventory"
	"github.com/jhoicas/cafe-backoffice/internal/domain/repository"
)

// ReportUseCase genera el reporte PDF de movimientos de un período (máximo 30 días).
type ReportUseCase struct {
	movements repository.MovementRepository
	generator ReportGenerator
	loc       *time.Location
	now       func() time.Time
	log       zerolog.Logger
}

// NewReportUseCase construye el caso de uso inyectando el generador de PDF.
func NewReportUseCase(
	movements repository.MovementRepository,
	generator ReportGenerator,
	loc *time.Location,
	log zerolog.Logger,
) *ReportUseCase {
	return &ReportUseCase{
		movements: movements,
		generator: generator,
		loc:       loc,
		now:       time.Now,
		log:       log.With().Str("component", "reports").Logger(),
	}
}

// Build valida el período y calcula los totales del reporte.
// Balance = total de salidas - total de entradas.
func (uc *ReportUseCase) Build(ctx context.Context, start, end string) (*MovementReport, error) {
	period, err := inventory.ParsePeriod(start, end, uc.loc)
	if err != nil {
		return nil, err
	}
	list, err := uc.movements.ListByPeriod(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("reporte: listar movimientos: %w", err)
	}

	report := &MovementReport{
		Period:    period,
		Movements: list,
		TotalIn:   decimal.Zero,
		TotalOut:  decimal.Zero,
	}
	for _, m := range list {
		switch m.Type {
		case entity.MovementTypeIn:
			report.TotalIn = report.TotalIn.Add(m.Value)
		case entity.MovementTypeOut:
			report.TotalOut = report.TotalOut.Add(m.Value)
		}
	}
	report.Balance = report.TotalOut.Sub(report.TotalIn)
	loc := uc.loc
	if loc == nil {
		loc = time.UTC
	}
	report.GeneratedAt = uc.now().In(loc)
	return report, nil
}

// Generate construye el reporte y lo renderiza.
//
// Retorna:
//   - (pdfBytes, filename, nil) si todo sale bien.
//   - domain.ValidationErrors   si el período es inválido.
func (uc *ReportUseCase) Generate(ctx context.Context, start, end string) (pdfBytes []byte, filename string, err error) {
	report, err := uc.Build(ctx, start, end)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.generator.GenerateMovementReport(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("reporte: generar pdf: %w", err)
	}
	uc.log.Info().
		Str("start", start).
		Str("end", end).
		Int("movements", len(report.Movements)).
		Msg("reporte generado")
	return pdfBytes, fmt.Sprintf("relatorio_%s_%s.pdf", start, end), nil
}
