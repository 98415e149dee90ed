package catalog_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-admin/internal/domain"
	"github.com/jhoicas/catalogo-admin/internal/domain/catalog"
)

func validForm() catalog.ProductForm {
	return catalog.ProductForm{
		Name:          "Teclado mecánico",
		BarCode:       "7501234567890",
		Price:         "49,90",
		StockQuantity: 10,
		IsActive:      true,
		CategoryIDs:   []int{1},
	}
}

func TestProductForm_Valido(t *testing.T) {
	assert.NoError(t, validForm().Validate())
}

// El código de barras vacío debe abortar antes de cualquier llamada de red,
// con un mensaje que lo identifique.
func TestProductForm_CodigoDeBarrasVacio(t *testing.T) {
	f := validForm()
	f.BarCode = "   "

	err := f.Validate()

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Contains(t, err.Error(), "código de barras")
}

func TestProductForm_NombreVacioTrasRecorte(t *testing.T) {
	f := validForm()
	f.Name = "  "

	err := f.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "nombre")
}

func TestProductForm_PrecioNegativo(t *testing.T) {
	f := validForm()
	f.Price = "-1"

	assert.Error(t, f.Validate())
}

func TestProductForm_PrecioNoNumerico(t *testing.T) {
	f := validForm()
	f.Price = "abc"

	assert.Error(t, f.Validate())
}

func TestProductForm_StockNegativo(t *testing.T) {
	f := validForm()
	f.StockQuantity = -5

	assert.Error(t, f.Validate())
}

func TestProductForm_SinCategorias(t *testing.T) {
	f := validForm()
	f.CategoryIDs = nil

	err := f.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "categoría")
}

// ──────────────────────────────────────────────────────────────────────────────
// Conversión a payload
// ──────────────────────────────────────────────────────────────────────────────

func TestProductForm_Payload_NormalizaPrecio(t *testing.T) {
	f := validForm()

	p, err := f.Payload()

	require.NoError(t, err)
	assert.Equal(t, "49.9", p.Price.String(), "la coma decimal debe normalizarse antes de transmitir")
	assert.Nil(t, p.Description, "descripción vacía no viaja en el cuerpo")
	assert.Equal(t, []int{1}, p.CategoryIDs)
}

func TestProductForm_Payload_ConDescuento(t *testing.T) {
	f := validForm()
	f.HasDiscount = true
	f.DiscountPct = "12,5"

	p, err := f.Payload()

	require.NoError(t, err)
	require.NotNil(t, p.DiscountPct)
	assert.Equal(t, "12.5", p.DiscountPct.String())
	assert.True(t, p.HasDiscount)
}

func TestProductForm_Payload_RecortaNombreYCodigo(t *testing.T) {
	f := validForm()
	f.Name = " Mouse "
	f.BarCode = " 123 "

	p, err := f.Payload()

	require.NoError(t, err)
	assert.Equal(t, "Mouse", p.Name)
	assert.Equal(t, "123", p.BarCode)
}

func TestCategoryForm_NombreRequerido(t *testing.T) {
	err := catalog.CategoryForm{Name: "  "}.Validate()

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestCategoryForm_Payload(t *testing.T) {
	p, err := catalog.CategoryForm{Name: " Bebidas ", Description: "frías"}.Payload()

	require.NoError(t, err)
	assert.Equal(t, "Bebidas", p.Name)
	require.NotNil(t, p.Description)
	assert.Equal(t, "frías", *p.Description)
}
