package catalog

import (
	"net/url"
	"strconv"
	"strings"
)

// ActiveFilter filtro sobre el estado activo/inactivo de los productos.
type ActiveFilter string

const (
	ActiveAll      ActiveFilter = "all"
	ActiveOnly     ActiveFilter = "active"
	ActiveInactive ActiveFilter = "inactive"
)

// Filters criterios de búsqueda del listado de productos. Solo viven en el
// cliente; campos vacíos (o Active == "all") no viajan en la query.
// Stock y Price son texto tal como lo tecleó el operador: coincidencia exacta,
// no rangos. Price admite coma decimal y se normaliza antes de transmitir.
type Filters struct {
	Name       string
	BarCode    string
	Stock      string
	Price      string
	Active     ActiveFilter
	CategoryID string
}

// DefaultFilters estado inicial (y el de "limpiar filtros").
func DefaultFilters() Filters {
	return Filters{Active: ActiveAll}
}

// NormalizePrice convierte una coma decimal en punto ("19,99" -> "19.99").
func NormalizePrice(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
}

// QueryValues construye los parámetros de GET /products para la página dada.
func (f Filters) QueryValues(page, pageSize int) url.Values {
	v := url.Values{}
	if s := strings.TrimSpace(f.Name); s != "" {
		v.Set("q", s)
	}
	if s := strings.TrimSpace(f.BarCode); s != "" {
		v.Set("bar_code", s)
	}
	if f.Stock != "" {
		v.Set("stock", f.Stock)
	}
	if f.Price != "" {
		v.Set("price", NormalizePrice(f.Price))
	}
	switch f.Active {
	case ActiveOnly:
		v.Set("is_active", "true")
	case ActiveInactive:
		v.Set("is_active", "false")
	}
	if f.CategoryID != "" {
		v.Set("category_id", f.CategoryID)
	}
	v.Set("page", strconv.Itoa(page))
	v.Set("page_size", strconv.Itoa(pageSize))
	return v
}

// FiltersPatch actualización parcial de filtros: los campos nil no cambian.
type FiltersPatch struct {
	Name       *string
	BarCode    *string
	Stock      *string
	Price      *string
	Active     *ActiveFilter
	CategoryID *string
}

// Apply mezcla el patch sobre f.
func (p FiltersPatch) Apply(f *Filters) {
	if p.Name != nil {
		f.Name = *p.Name
	}
	if p.BarCode != nil {
		f.BarCode = *p.BarCode
	}
	if p.Stock != nil {
		f.Stock = *p.Stock
	}
	if p.Price != nil {
		f.Price = *p.Price
	}
	if p.Active != nil {
		f.Active = *p.Active
	}
	if p.CategoryID != nil {
		f.CategoryID = *p.CategoryID
	}
}
