package dto

// PageSize cantidad fija de registros por página en todos los listados.
const PageSize = 10

// PageRequest paginación por número de página (1 = primera).
type PageRequest struct {
	Page int `query:"page"`
}

// DefaultPage aplica el valor por defecto si Page es cero o negativo.
func (p *PageRequest) DefaultPage() {
	if p.Page <= 0 {
		p.Page = 1
	}
}

// Limit y Offset traducen la página a parámetros de consulta.
func (p PageRequest) Limit() int { return PageSize }

func (p PageRequest) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * PageSize
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPageResponse calcula el total de páginas.
func NewPageResponse(page PageRequest, total int) PageResponse {
	pages := (total + PageSize - 1) / PageSize
	return PageResponse{Page: page.Page, PageSize: PageSize, Total: total, TotalPages: pages}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// ConfirmPasswordRequest reingreso de la contraseña del administrador para operaciones destructivas.
type ConfirmPasswordRequest struct {
	Password string `json:"password"`
}
