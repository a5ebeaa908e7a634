// Package dto define los cuerpos de petición y respuesta HTTP.
// Los DTOs viven en el borde: los casos de uso trabajan con entidades.
package dto

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// Validate valida un DTO contra sus tags `validate`.
func Validate(v any) error {
	return validate.Struct(v)
}

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=0,max=200"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 50
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
