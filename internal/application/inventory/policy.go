package inventory

import "github.com/jhoicas/Inventario-core/internal/domain"

// AllocationPolicy política de sobre-asignación al confirmar órdenes.
// El comportamiento de referencia permite asignar más de lo físico sin fallar;
// aquí es una decisión explícita del operador, no un comportamiento oculto.
type AllocationPolicy string

const (
	// PolicyStrict rechaza confirmaciones que dejarían disponible negativo.
	PolicyStrict AllocationPolicy = "strict"
	// PolicyAllowOvercommit permite asignar por encima del físico; el
	// faltante se refleja como disponible negativo y el despacho fallará
	// hasta que entre stock.
	PolicyAllowOvercommit AllocationPolicy = "allow-overcommit"
)

// ParseAllocationPolicy valida el valor de configuración.
func ParseAllocationPolicy(s string) (AllocationPolicy, error) {
	switch AllocationPolicy(s) {
	case PolicyStrict, PolicyAllowOvercommit:
		return AllocationPolicy(s), nil
	case "":
		return PolicyAllowOvercommit, nil
	}
	return "", domain.ErrInvalidInput
}

// Overcommit indica si la política admite asignar sobre el físico.
func (p AllocationPolicy) Overcommit() bool { return p == PolicyAllowOvercommit }
