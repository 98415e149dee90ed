package rest

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jhoicas/catalogo-admin/internal/domain/catalog"
	"github.com/jhoicas/catalogo-admin/internal/domain/entity"
)

// ListProducts GET /products con los filtros y la página indicados. Los campos
// vacíos (o Active == "all") se omiten de la query; el precio viaja ya
// normalizado a punto decimal.
func (c *Client) ListProducts(ctx context.Context, f catalog.Filters, page, pageSize int) (*catalog.PageWindow, error) {
	var out catalog.PageWindow
	query := f.QueryValues(page, pageSize)
	if err := c.do(ctx, "list_products", http.MethodGet, "/products", query, "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProduct POST /products.
func (c *Client) CreateProduct(ctx context.Context, p catalog.ProductPayload) (*entity.Product, error) {
	body, err := jsonBody(p)
	if err != nil {
		return nil, err
	}
	var out entity.Product
	if err := c.do(ctx, "create_product", http.MethodPost, "/products", nil, "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProduct PUT /products/{id}.
func (c *Client) UpdateProduct(ctx context.Context, id int, p catalog.ProductPayload) (*entity.Product, error) {
	body, err := jsonBody(p)
	if err != nil {
		return nil, err
	}
	var out entity.Product
	path := fmt.Sprintf("/products/%d", id)
	if err := c.do(ctx, "update_product", http.MethodPut, path, nil, "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProduct DELETE /products/{id}. El backend responde con un mensaje que
// el cliente ignora más allá del 2xx.
func (c *Client) DeleteProduct(ctx context.Context, id int) error {
	path := fmt.Sprintf("/products/%d", id)
	return c.do(ctx, "delete_product", http.MethodDelete, path, nil, "", nil, nil)
}

// toggleResponse respuesta de PATCH /products/{id}/toggle-active.
type toggleResponse struct {
	ID       int  `json:"id"`
	IsActive bool `json:"is_active"`
}

// ToggleActive PATCH /products/{id}/toggle-active. Devuelve el nuevo estado.
func (c *Client) ToggleActive(ctx context.Context, id int) (bool, error) {
	var out toggleResponse
	path := fmt.Sprintf("/products/%d/toggle-active", id)
	if err := c.do(ctx, "toggle_active", http.MethodPatch, path, nil, "", nil, &out); err != nil {
		return false, err
	}
	return out.IsActive, nil
}

// UploadImage POST /products/{id}/images?is_main= con el archivo en el campo
// multipart image_file. Las subidas son una a una; no hay endpoint masivo.
func (c *Client) UploadImage(ctx context.Context, productID int, file catalog.ImageFile, isMain bool) (*entity.ProductImage, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image_file", file.Name)
	if err != nil {
		return nil, fmt.Errorf("preparar imagen %q: %w", file.Name, err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, fmt.Errorf("preparar imagen %q: %w", file.Name, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("preparar imagen %q: %w", file.Name, err)
	}

	query := url.Values{}
	query.Set("is_main", strconv.FormatBool(isMain))

	var out entity.ProductImage
	path := fmt.Sprintf("/products/%d/images", productID)
	if err := c.do(ctx, "upload_image", http.MethodPost, path, query, mw.FormDataContentType(), &buf, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteImage DELETE /products/{id}/images/{imageId}. Tras borrar la imagen
// principal el backend puede reasignar is_main a otra imagen.
func (c *Client) DeleteImage(ctx context.Context, productID, imageID int) error {
	path := fmt.Sprintf("/products/%d/images/%d", productID, imageID)
	return c.do(ctx, "delete_image", http.MethodDelete, path, nil, "", nil, nil)
}
