// Package pdf renderiza el reporte de movimientos del período en A4 con Maroto v2.
//
// Layout:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + período        │  fecha de generación     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Tipo | Responsable | Detalle | Valor         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Entradas / Salidas / BALANCE                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	appinventory "github.com/jhoicas/cafe-backoffice/internal/application/inventory"
	"github.com/jhoicas/cafe-backoffice/internal/domain/entity"
)

var _ appinventory.ReportGenerator = (*MarotoReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 92, Green: 58, Blue: 33}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorIn      = &props.Color{Red: 30, Green: 110, Blue: 60}
	colorOut     = &props.Color{Red: 160, Green: 40, Blue: 40}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa inventory.ReportGenerator usando Maroto v2.
// Los importes se formatean con separadores de miles y coma decimal.
type MarotoReportGenerator struct {
	printer  *message.Printer
	business string
}

// NewMarotoReportGenerator construye el generador. business aparece como autor del documento.
func NewMarotoReportGenerator(business string) *MarotoReportGenerator {
	return &MarotoReportGenerator{
		printer:  message.NewPrinter(language.BrazilianPortuguese),
		business: business,
	}
}

// GenerateMovementReport genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateMovementReport(_ context.Context, r *appinventory.MovementReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de movimientos", true).
		WithAuthor(g.business, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	if len(r.Movements) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Sin movimientos en el período", props.Text{Size: 9, Align: align.Center, Color: colorGray, Top: 3}),
		)))
	}
	for _, mv := range r.Movements {
		m.AddRows(g.movementRow(mv))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(r))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoReportGenerator) headerRow(r *appinventory.MovementReport) core.Row {
	period := fmt.Sprintf("Período: %s a %s",
		r.Period.Start.Format("02/01/2006"), r.Period.End.Format("02/01/2006"))
	return row.New(18).Add(
		col.New(8).Add(
			text.New(nonEmpty(g.business, "Café"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("REPORTE DE MOVIMIENTOS  |  "+period, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New(fmt.Sprintf("%d movimientos", len(r.Movements)), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1,
			}),
			text.New("Generado: "+r.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Tipo", 1, align.Center),
		h("Responsable", 2, align.Left),
		h("Detalle", 5, align.Left),
		h("Valor", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func (g *MarotoReportGenerator) movementRow(mv *entity.Movement) core.Row {
	kind, color := "Salida", colorOut
	if mv.IsInflow() {
		kind, color = "Entrada", colorIn
	}
	detail := g.detail(mv)
	height := 7.0 + 3.5*float64(strings.Count(detail, "\n"))
	return row.New(height).Add(
		col.New(2).Add(text.New(mv.Date.Format("02/01/2006 15:04"), props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(1).Add(text.New(kind, props.Text{Size: 8, Align: align.Center, Top: 1, Color: color})),
		col.New(2).Add(text.New(mv.User, props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(5).Add(text.New(detail, props.Text{Size: 7.5, Top: 1, Left: 1, Color: colorGray})),
		col.New(2).Add(text.New(g.money(mv.Value), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
	)
}

// detail una línea por ítem del movimiento, más el comentario si lo hay.
func (g *MarotoReportGenerator) detail(mv *entity.Movement) string {
	var lines []string
	for _, l := range mv.Inflows {
		lines = append(lines, fmt.Sprintf("%s: %s %s", l.Name, g.quantity(l.Quantity), l.Unit))
	}
	for _, l := range mv.Outflows {
		lines = append(lines, fmt.Sprintf("%dx %s", l.Quantity, l.Name))
	}
	if mv.Commentary != "" {
		lines = append(lines, "Obs.: "+mv.Commentary)
	}
	return strings.Join(lines, "\n")
}

func (g *MarotoReportGenerator) totalsRow(r *appinventory.MovementReport) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	balanceColor := colorIn
	if r.Balance.IsNegative() {
		balanceColor = colorOut
	}
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Total entradas:"),
			text.New("Total salidas:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 5}),
			text.New("BALANCE:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 2, Top: 11, Color: colorPrimary}),
		),
		col.New(3).Add(
			value(g.money(r.TotalIn)),
			text.New(g.money(r.TotalOut), props.Text{Size: 9, Align: align.Right, Right: 1, Top: 5}),
			text.New(g.money(r.Balance), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 1, Top: 11, Color: balanceColor}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// money formatea con dos decimales y separador de miles: 1234.5 → "R$ 1.234,50".
func (g *MarotoReportGenerator) money(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return g.printer.Sprintf("R$ %.2f", f)
}

// quantity hasta tres decimales, sin ceros sobrantes: 10.500 → "10,5".
func (g *MarotoReportGenerator) quantity(d decimal.Decimal) string {
	s := d.Round(3).String()
	return strings.Replace(s, ".", ",", 1)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
