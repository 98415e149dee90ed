package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jhoicas/catalogo-admin/internal/domain/catalog"
	"github.com/jhoicas/catalogo-admin/internal/domain/entity"
)

// ListCategories GET /categories. El backend las devuelve ordenadas por id.
func (c *Client) ListCategories(ctx context.Context) ([]entity.Category, error) {
	var out []entity.Category
	if err := c.do(ctx, "list_categories", http.MethodGet, "/categories", nil, "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCategory POST /categories.
func (c *Client) CreateCategory(ctx context.Context, p catalog.CategoryPayload) (*entity.Category, error) {
	body, err := jsonBody(p)
	if err != nil {
		return nil, err
	}
	var out entity.Category
	if err := c.do(ctx, "create_category", http.MethodPost, "/categories", nil, "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCategory PUT /categories/{id}.
func (c *Client) UpdateCategory(ctx context.Context, id int, p catalog.CategoryPayload) (*entity.Category, error) {
	body, err := jsonBody(p)
	if err != nil {
		return nil, err
	}
	var out entity.Category
	path := fmt.Sprintf("/categories/%d", id)
	if err := c.do(ctx, "update_category", http.MethodPut, path, nil, "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCategory DELETE /categories/{id}. Solo importa el 2xx.
func (c *Client) DeleteCategory(ctx context.Context, id int) error {
	path := fmt.Sprintf("/categories/%d", id)
	return c.do(ctx, "delete_category", http.MethodDelete, path, nil, "", nil, nil)
}
