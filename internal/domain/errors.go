package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound   = errors.New("recurso no encontrado")
	ErrValidation = errors.New("datos inválidos")
	ErrConflict   = errors.New("conflicto con el estado actual")
	ErrClosed     = errors.New("el controlador ya fue cerrado")
)
