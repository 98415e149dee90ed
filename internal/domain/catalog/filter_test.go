package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/catalogo-admin/internal/domain/catalog"
)

// ──────────────────────────────────────────────────────────────────────────────
// Construcción de la query del listado
// ──────────────────────────────────────────────────────────────────────────────

// Filtros por defecto: la query solo lleva page y page_size.
func TestQueryValues_FiltrosVacios_SoloPaginacion(t *testing.T) {
	f := catalog.DefaultFilters()

	v := f.QueryValues(1, 25)

	assert.Equal(t, "page=1&page_size=25", v.Encode(),
		"los campos vacíos y active=all deben omitirse de la query")
}

func TestQueryValues_ActiveInactive_EmiteFalse(t *testing.T) {
	f := catalog.DefaultFilters()
	f.Active = catalog.ActiveInactive

	v := f.QueryValues(1, 25)

	assert.Equal(t, "false", v.Get("is_active"))
}

func TestQueryValues_ActiveOnly_EmiteTrue(t *testing.T) {
	f := catalog.DefaultFilters()
	f.Active = catalog.ActiveOnly

	assert.Equal(t, "true", f.QueryValues(1, 25).Get("is_active"))
}

// El precio con coma decimal viaja normalizado a punto.
func TestQueryValues_PrecioConComa_SeNormaliza(t *testing.T) {
	f := catalog.DefaultFilters()
	f.Price = "19,99"

	assert.Equal(t, "19.99", f.QueryValues(1, 25).Get("price"))
}

func TestQueryValues_NombreConEspacios_SeRecorta(t *testing.T) {
	f := catalog.DefaultFilters()
	f.Name = "  teclado  "

	v := f.QueryValues(2, 50)

	assert.Equal(t, "teclado", v.Get("q"))
	assert.Equal(t, "2", v.Get("page"))
	assert.Equal(t, "50", v.Get("page_size"))
}

func TestQueryValues_TodosLosFiltros(t *testing.T) {
	f := catalog.Filters{
		Name:       "mouse",
		BarCode:    "750123",
		Stock:      "5",
		Price:      "10,50",
		Active:     catalog.ActiveOnly,
		CategoryID: "3",
	}

	v := f.QueryValues(1, 100)

	assert.Equal(t, "mouse", v.Get("q"))
	assert.Equal(t, "750123", v.Get("bar_code"))
	assert.Equal(t, "5", v.Get("stock"))
	assert.Equal(t, "10.50", v.Get("price"))
	assert.Equal(t, "true", v.Get("is_active"))
	assert.Equal(t, "3", v.Get("category_id"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Patch de filtros
// ──────────────────────────────────────────────────────────────────────────────

func TestFiltersPatch_SoloCambiaCamposPresentes(t *testing.T) {
	f := catalog.Filters{Name: "mouse", BarCode: "750123", Active: catalog.ActiveAll}

	name := "teclado"
	catalog.FiltersPatch{Name: &name}.Apply(&f)

	assert.Equal(t, "teclado", f.Name)
	assert.Equal(t, "750123", f.BarCode, "los campos sin patch no deben cambiar")
	assert.Equal(t, catalog.ActiveAll, f.Active)
}

func TestFiltersPatch_PermiteVaciarUnCampo(t *testing.T) {
	f := catalog.Filters{Name: "mouse"}

	empty := ""
	catalog.FiltersPatch{Name: &empty}.Apply(&f)

	assert.Empty(t, f.Name, "un puntero a cadena vacía debe limpiar el campo")
}

// ──────────────────────────────────────────────────────────────────────────────
// Cálculo de páginas
// ──────────────────────────────────────────────────────────────────────────────

func TestPageCount(t *testing.T) {
	assert.Equal(t, 1, catalog.PageCount(0, 25), "sin elementos sigue habiendo una página")
	assert.Equal(t, 1, catalog.PageCount(25, 25))
	assert.Equal(t, 2, catalog.PageCount(26, 25))
	assert.Equal(t, 4, catalog.PageCount(100, 25))
	assert.Equal(t, 1, catalog.PageCount(100, 100))
}
