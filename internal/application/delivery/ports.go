package delivery

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// NotePDFGenerator genera la guía de entrega en PDF.
// La implementación con maroto vive en infrastructure/pdf.
type NotePDFGenerator interface {
	GenerateNote(d *entity.Delivery) ([]byte, error)
}
