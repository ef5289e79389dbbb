package dto

// Límites de paginación de los listados.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// Normalize aplica el límite por defecto y los topes; offset negativo pasa a cero.
func (p *PageRequest) Normalize() {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas. Count es la cantidad devuelta en esta página.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

// NewPageResponse arma los metadatos de una página ya normalizada.
func NewPageResponse(p PageRequest, count int) PageResponse {
	return PageResponse{Limit: p.Limit, Offset: p.Offset, Count: count}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
