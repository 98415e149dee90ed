package catalog

import "github.com/jhoicas/catalogo-admin/internal/domain/entity"

// PageWindow página cargada del listado de productos con sus metadatos.
// El backend la devuelve completa en cada listado; el controlador la reemplaza
// en bloque (sin merge incremental) salvo las dos mutaciones locales puntuales
// (borrado y toggle de activo).
type PageWindow struct {
	Items    []entity.Product `json:"items"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Pages    int              `json:"pages"`
}

// PageCount páginas necesarias para total elementos con el tamaño dado.
func PageCount(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 1
	}
	pages := (total + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}
