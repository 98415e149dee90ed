package rest_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-admin/internal/catalogtest"
	"github.com/jhoicas/catalogo-admin/internal/domain"
	"github.com/jhoicas/catalogo-admin/internal/domain/catalog"
	"github.com/jhoicas/catalogo-admin/internal/domain/entity"
	"github.com/jhoicas/catalogo-admin/internal/infrastructure/rest"
	"github.com/jhoicas/catalogo-admin/pkg/logger"
)

// newClient arranca el backend fake y devuelve un cliente apuntándole.
func newClient(t *testing.T) (*rest.Client, *catalogtest.Server) {
	t.Helper()
	srv := catalogtest.New()
	baseURL, err := srv.Start()
	require.NoError(t, err, "el backend fake debe arrancar en loopback")
	t.Cleanup(func() { _ = srv.Close() })

	client := rest.New(rest.Config{BaseURL: baseURL}, logger.Nop(), nil)
	return client, srv
}

func productPayload(barCode string, catIDs ...int) catalog.ProductPayload {
	return catalog.ProductPayload{
		Name:          "Teclado",
		BarCode:       barCode,
		Price:         decimal.RequireFromString("49.90"),
		StockQuantity: 3,
		IsActive:      true,
		CategoryIDs:   catIDs,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Categorías
// ──────────────────────────────────────────────────────────────────────────────

func TestListCategories_OrdenadasPorID(t *testing.T) {
	client, srv := newClient(t)
	srv.SeedCategory("Bebidas", "")
	srv.SeedCategory("Snacks", "salados")

	cats, err := client.ListCategories(context.Background())

	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Bebidas", cats[0].Name)
	assert.Equal(t, "Snacks", cats[1].Name)
	require.NotNil(t, cats[1].Description)
	assert.Equal(t, "salados", *cats[1].Description)
}

func TestCreateCategory_NombreDuplicado_RetornaAPIError(t *testing.T) {
	client, srv := newClient(t)
	srv.SeedCategory("Bebidas", "")

	_, err := client.CreateCategory(context.Background(), catalog.CategoryPayload{Name: "Bebidas"})

	var apiErr *rest.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Contains(t, apiErr.Detail, "Ya existe una categoría")
}

func TestDeleteCategory_Inexistente(t *testing.T) {
	client, _ := newClient(t)

	err := client.DeleteCategory(context.Background(), 99)

	var apiErr *rest.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateProduct_YListado(t *testing.T) {
	client, srv := newClient(t)
	cat := srv.SeedCategory("Periféricos", "")

	created, err := client.CreateProduct(context.Background(), productPayload("750100", cat.ID))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "49.9", created.Price.String())

	win, err := client.ListProducts(context.Background(), catalog.DefaultFilters(), 1, 25)
	require.NoError(t, err)
	assert.Equal(t, 1, win.Total)
	require.Len(t, win.Items, 1)
	assert.Equal(t, created.ID, win.Items[0].ID)
}

func TestCreateProduct_CodigoDeBarrasDuplicado(t *testing.T) {
	client, srv := newClient(t)
	cat := srv.SeedCategory("Periféricos", "")
	_, err := client.CreateProduct(context.Background(), productPayload("750100", cat.ID))
	require.NoError(t, err)

	_, err = client.CreateProduct(context.Background(), productPayload("750100", cat.ID))

	var apiErr *rest.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Contains(t, apiErr.Detail, "codigo de barra")
}

func TestListProducts_FiltroPorNombreYActivo(t *testing.T) {
	client, srv := newClient(t)
	srv.SeedProduct(entity.Product{Name: "Teclado mecánico", BarCode: "1", IsActive: true, Price: decimal.New(10, 0)})
	srv.SeedProduct(entity.Product{Name: "Mouse gamer", BarCode: "2", IsActive: true, Price: decimal.New(20, 0)})
	srv.SeedProduct(entity.Product{Name: "Teclado de membrana", BarCode: "3", IsActive: false, Price: decimal.New(5, 0)})

	f := catalog.DefaultFilters()
	f.Name = "teclado"
	f.Active = catalog.ActiveOnly

	win, err := client.ListProducts(context.Background(), f, 1, 25)

	require.NoError(t, err)
	assert.Equal(t, 1, win.Total)
	require.Len(t, win.Items, 1)
	assert.Equal(t, "Teclado mecánico", win.Items[0].Name)
}

func TestListProducts_Paginacion(t *testing.T) {
	client, srv := newClient(t)
	for i := 0; i < 30; i++ {
		srv.SeedProduct(entity.Product{
			Name:    "Producto",
			BarCode: string(rune('a' + i)),
			Price:   decimal.New(int64(i), 0),
		})
	}

	win, err := client.ListProducts(context.Background(), catalog.DefaultFilters(), 2, 25)

	require.NoError(t, err)
	assert.Equal(t, 30, win.Total)
	assert.Equal(t, 2, win.Pages)
	assert.Len(t, win.Items, 5)
	assert.Equal(t, 2, win.Page)
}

func TestUpdateProduct_Inexistente_EsNotFound(t *testing.T) {
	client, _ := newClient(t)

	_, err := client.UpdateProduct(context.Background(), 42, productPayload("750100"))

	assert.True(t, errors.Is(err, domain.ErrNotFound),
		"un 404 del backend debe satisfacer errors.Is(err, domain.ErrNotFound)")
}

func TestToggleActive_InvierteElEstado(t *testing.T) {
	client, srv := newClient(t)
	p := srv.SeedProduct(entity.Product{Name: "Mouse", BarCode: "2", IsActive: true, Price: decimal.New(20, 0)})

	active, err := client.ToggleActive(context.Background(), p.ID)
	require.NoError(t, err)
	assert.False(t, active)

	active, err = client.ToggleActive(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, active)
}

// ──────────────────────────────────────────────────────────────────────────────
// Imágenes
// ──────────────────────────────────────────────────────────────────────────────

func TestUploadImage_MarcaPrincipalYDemasNo(t *testing.T) {
	client, srv := newClient(t)
	p := srv.SeedProduct(entity.Product{Name: "Mouse", BarCode: "2", Price: decimal.New(20, 0)})

	img1, err := client.UploadImage(context.Background(), p.ID, catalog.ImageFile{Name: "a.png", Data: []byte("png")}, true)
	require.NoError(t, err)
	assert.True(t, img1.IsMain)

	img2, err := client.UploadImage(context.Background(), p.ID, catalog.ImageFile{Name: "b.png", Data: []byte("png")}, false)
	require.NoError(t, err)
	assert.False(t, img2.IsMain)

	stored := srv.Product(p.ID)
	require.NotNil(t, stored)
	require.Len(t, stored.Images, 2)
	require.NotNil(t, stored.MainImage())
	assert.Equal(t, img1.ID, stored.MainImage().ID, "solo la primera imagen debe quedar como principal")
}

func TestDeleteImage_ReasignaLaPrincipal(t *testing.T) {
	client, srv := newClient(t)
	p := srv.SeedProduct(entity.Product{
		Name: "Mouse", BarCode: "2", Price: decimal.New(20, 0),
		Images: []entity.ProductImage{
			{ImageURL: "/static/products/a", IsMain: true},
			{ImageURL: "/static/products/b", IsMain: false},
		},
	})
	mainID := p.Images[0].ID

	err := client.DeleteImage(context.Background(), p.ID, mainID)

	require.NoError(t, err)
	stored := srv.Product(p.ID)
	require.Len(t, stored.Images, 1)
	assert.True(t, stored.Images[0].IsMain, "al borrar la principal, la restante de menor id pasa a serlo")
}

// ──────────────────────────────────────────────────────────────────────────────
// Normalización de errores
// ──────────────────────────────────────────────────────────────────────────────

// Cuerpo de error sin {detail} parseable: cae al mensaje genérico.
func TestAPIError_SinDetailParseable_UsaMensajeGenerico(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<html>boom</html>"))
	}))
	defer srv.Close()

	client := rest.New(rest.Config{BaseURL: srv.URL}, logger.Nop(), nil)
	_, err := client.ListCategories(context.Background())

	var apiErr *rest.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "error de comunicación con el backend", apiErr.Detail)
}

// Fallo de transporte: el error no es *APIError, nunca hubo respuesta.
func TestFalloDeTransporte_NoEsAPIError(t *testing.T) {
	client := rest.New(rest.Config{BaseURL: "http://127.0.0.1:1"}, logger.Nop(), nil)

	_, err := client.ListCategories(context.Background())

	require.Error(t, err)
	var apiErr *rest.APIError
	assert.False(t, errors.As(err, &apiErr))
}
