package cli

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/catalogo-admin/internal/application/controller"
	"github.com/jhoicas/catalogo-admin/internal/domain/entity"
)

func TestRenderProducts_TablaYPieDePagina(t *testing.T) {
	var buf bytes.Buffer
	st := controller.State{
		Products: []entity.Product{
			{
				ID:            1,
				Name:          "Teclado",
				BarCode:       "750100",
				Price:         decimal.RequireFromString("49.9"),
				StockQuantity: 3,
				IsActive:      true,
				Categories:    []entity.CategoryRef{{ID: 1, Name: "Periféricos"}},
				Images:        []entity.ProductImage{{ID: 1, ImageURL: "/static/products/a.png", IsMain: true}},
			},
			{ID: 2, Name: "Mouse", BarCode: "750101", Price: decimal.RequireFromString("20"), IsActive: false},
		},
		Total:    27,
		Page:     2,
		Pages:    3,
		PageSize: 25,
	}

	RenderProducts(&buf, st)
	out := buf.String()

	assert.Contains(t, out, "Teclado")
	assert.Contains(t, out, "49.90", "el precio se imprime con dos decimales")
	assert.Contains(t, out, "Periféricos")
	assert.Contains(t, out, "(1 principal)")
	assert.Contains(t, out, "página 2 de 3 — 27 productos en total (tamaño 25)")
	assert.NotContains(t, out, "último listado falló")
}

func TestRenderProducts_ErrorVisibleConPaginaObsoleta(t *testing.T) {
	var buf bytes.Buffer
	st := controller.State{
		Products: []entity.Product{{ID: 1, Name: "Teclado", Price: decimal.New(10, 0)}},
		Total:    1,
		Page:     1,
		Pages:    1,
		PageSize: 25,
		Err:      "backend caído",
	}

	RenderProducts(&buf, st)
	out := buf.String()

	assert.Contains(t, out, "último listado falló: backend caído")
	assert.Contains(t, out, "Teclado", "la página anterior sigue visible bajo el aviso")
}

func TestRenderCategories(t *testing.T) {
	var buf bytes.Buffer
	desc := "gaseosas y jugos"

	RenderCategories(&buf, []entity.Category{
		{ID: 1, Name: "Bebidas", Description: &desc},
		{ID: 2, Name: "Snacks"},
	})
	out := buf.String()

	assert.Contains(t, out, "Bebidas")
	assert.Contains(t, out, "gaseosas y jugos")
	assert.Contains(t, out, "Snacks")
}

func TestRenderImages_SinImagenes(t *testing.T) {
	var buf bytes.Buffer

	RenderImages(&buf, entity.Product{ID: 1})

	assert.Contains(t, buf.String(), "el producto no tiene imágenes")
}
