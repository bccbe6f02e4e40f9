package inventory

import (
	"time"

	"github.com/jhoicas/cafe-backoffice/internal/domain"
)

// MaxPeriodDays duración máxima (inclusiva) de un período de consulta.
const MaxPeriodDays = 30

const dateLayout = "2006-01-02"

// Period rango de fechas validado. Start es 00:00:00 del primer día y End el último instante del último,
// ambos en la zona horaria canónica de la aplicación.
type Period struct {
	Start time.Time
	End   time.Time
}

// Contains reporta si t cae dentro del período (ambos extremos incluidos).
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// Days cantidad de días completos entre el inicio y el fin (0 para un solo día).
func (p Period) Days() int {
	return civilDays(p.Start, p.End)
}

// ParsePeriod valida un par de fechas YYYY-MM-DD y devuelve el período normalizado en loc
// (UTC si loc es nil). El cálculo se hace sobre la hora de pared, antes de localizar,
// para que un cambio de horario de verano no altere el resultado.
func ParsePeriod(start, end string, loc *time.Location) (Period, error) {
	if loc == nil {
		loc = time.UTC
	}
	s, err := time.Parse(dateLayout, start)
	if err != nil {
		return Period{}, domain.NewValidation(domain.ErrInvalidDate, start, "Ingrese una fecha válida")
	}
	e, err := time.Parse(dateLayout, end)
	if err != nil {
		return Period{}, domain.NewValidation(domain.ErrInvalidDate, end, "Ingrese una fecha válida")
	}

	sWall := s
	eWall := e.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	if sWall.After(eWall) {
		return Period{}, domain.NewValidation(domain.ErrNegativePeriod, start, "El período no puede ser negativo")
	}
	if int(eWall.Sub(sWall)/(24*time.Hour)) > MaxPeriodDays {
		return Period{}, domain.NewValidation(domain.ErrPeriodTooLong, end, "El período máximo de consulta es de 30 días")
	}

	return Period{
		Start: time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, loc),
		End:   time.Date(e.Year(), e.Month(), e.Day(), 23, 59, 59, int(time.Second-1), loc),
	}, nil
}

func civilDays(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da) / (24 * time.Hour))
}
