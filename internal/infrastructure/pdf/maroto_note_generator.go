// Package pdf genera la guía de entrega en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Guía de entrega + N° de orden + Fecha programada   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre + Dirección                                │
//	│  TRANSPORTE: Empresa + Responsable asignado                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ESTADO + Notas                                             │
//	│  FOOTER: QR con el ID de la entrega + firma de recibido     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	appdelivery "github.com/jhoicas/almacen-api/internal/application/delivery"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// statusLabels etiquetas legibles para la guía impresa.
var statusLabels = map[string]string{
	entity.DeliveryStatusScheduled: "PROGRAMADA",
	entity.DeliveryStatusInTransit: "EN TRÁNSITO",
	entity.DeliveryStatusDelivered: "ENTREGADA",
	entity.DeliveryStatusCancelled: "CANCELADA",
}

var _ appdelivery.NotePDFGenerator = (*MarotoNoteGenerator)(nil)

// MarotoNoteGenerator implementa delivery.NotePDFGenerator usando Maroto v2.
type MarotoNoteGenerator struct {
	businessName string
}

// NewMarotoNoteGenerator construye el generador. businessName encabeza la guía.
func NewMarotoNoteGenerator(businessName string) *MarotoNoteGenerator {
	return &MarotoNoteGenerator{businessName: businessName}
}

// GenerateNote genera la guía de entrega y devuelve sus bytes.
func (g *MarotoNoteGenerator) GenerateNote(d *entity.Delivery) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Guía de entrega "+d.OrderNumber, true).
		WithAuthor(g.businessName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(d))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(d))
	m.AddRows(transportRow(d))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(statusRow(d))
	if d.Notes != "" {
		m.AddRows(notesRow(d))
	}
	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(d))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar guía: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: nombre del negocio (izq) y N° de orden + fecha programada (der).
func (g *MarotoNoteGenerator) headerRow(d *entity.Delivery) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.businessName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Guía de entrega", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("ORDEN "+d.OrderNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("Programada: "+d.ScheduledDate.Format("02/01/2006"), props.Text{
				Size: 9, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func customerRow(d *entity.Delivery) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(d.CustomerName, props.Text{Size: 10, Top: 5}),
			text.New(d.Address, props.Text{Size: 9, Top: 10, Color: colorGray}),
		),
	)
}

func transportRow(d *entity.Delivery) core.Row {
	company := d.DeliveryCompany
	if company == "" {
		company = "Entrega propia"
	}
	assigned := d.AssignedName
	if assigned == "" {
		assigned = "Sin asignar"
	}
	return row.New(12).Add(
		col.New(6).Add(
			text.New("TRANSPORTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(company, props.Text{Size: 10, Top: 5}),
		),
		col.New(6).Add(
			text.New("RESPONSABLE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(assigned, props.Text{Size: 10, Top: 5}),
		),
	)
}

func statusRow(d *entity.Delivery) core.Row {
	label := statusLabels[d.Status]
	if label == "" {
		label = d.Status
	}
	return row.New(10).Add(
		col.New(12).Add(
			text.New("ESTADO: "+label, props.Text{
				Style: fontstyle.Bold, Size: 11, Color: colorPrimary, Top: 2,
			}),
		),
	)
}

func notesRow(d *entity.Delivery) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("NOTAS", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(d.Notes, props.Text{Size: 9, Top: 5, Color: colorGray}),
		),
	)
}

// footerRow: QR con el ID de la entrega + espacio para firma de recibido.
func footerRow(d *entity.Delivery) core.Row {
	return row.New(30).Add(
		col.New(4).Add(
			code.NewQr(d.ID, props.Rect{Percent: 80, Center: false}),
		),
		col.New(8).Add(
			text.New("Recibido por: ______________________________", props.Text{Size: 10, Top: 12}),
			text.New("Fecha y firma", props.Text{Size: 8, Top: 20, Color: colorGray}),
		),
	)
}
