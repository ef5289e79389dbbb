package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	// Validación: se rechazan antes de tocar estado.
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrInvalidMultiplier    = errors.New("el multiplicador de caja debe ser mayor o igual a 1")
	ErrZeroQuantity         = errors.New("la cantidad no puede ser cero")
	ErrUnmappedNewProduct   = errors.New("la línea de producto nuevo requiere un producto asociado")
	ErrConfirmationRequired = errors.New("la operación requiere confirmación explícita")

	// No encontrado.
	ErrNotFound    = errors.New("recurso no encontrado")
	ErrScanNoMatch = errors.New("el código escaneado no coincide con ninguna línea")

	// Conflictos / invariantes.
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrAssetNotAvailable = errors.New("el activo no está disponible")
	ErrInvalidTransition = errors.New("transición de estado inválida")
	ErrNothingScanned    = errors.New("la sesión no tiene unidades escaneadas")
	ErrSessionCompleted  = errors.New("la sesión de recepción ya fue completada")

	// Autorización (frontera HTTP).
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
)
