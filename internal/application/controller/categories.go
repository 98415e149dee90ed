package controller

import (
	"context"
	"fmt"

	"github.com/jhoicas/catalogo-admin/internal/domain/catalog"
	"github.com/jhoicas/catalogo-admin/internal/domain/entity"
)

// Caché de categorías: una sola carga al inicializar el consumidor, válida
// durante la vida del controlador. No hay protocolo de invalidación; quien
// necesite datos frescos invoca RefreshCategories explícitamente. Las
// mutaciones de categoría recargan la caché ellas mismas.

// LoadCategories carga la lista una única vez; llamadas posteriores devuelven
// la caché sin tocar la red.
func (c *Controller) LoadCategories(ctx context.Context) ([]entity.Category, error) {
	c.mu.Lock()
	if c.catsLoaded {
		cached := append([]entity.Category(nil), c.categories...)
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()
	return c.RefreshCategories(ctx)
}

// RefreshCategories fuerza una recarga de la caché.
func (c *Controller) RefreshCategories(ctx context.Context) ([]entity.Category, error) {
	cats, err := c.api.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.categories = cats
	c.catsLoaded = true
	c.mu.Unlock()
	c.notify()
	return append([]entity.Category(nil), cats...), nil
}

// Categories devuelve la caché actual (vacía si aún no se cargó).
func (c *Controller) Categories() []entity.Category {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]entity.Category(nil), c.categories...)
}

// CreateCategory valida el formulario, crea la categoría y recarga la caché.
func (c *Controller) CreateCategory(ctx context.Context, form catalog.CategoryForm) (*entity.Category, error) {
	payload, err := form.Payload()
	if err != nil {
		return nil, err
	}
	cat, err := c.api.CreateCategory(ctx, payload)
	if err != nil {
		return nil, err
	}
	if _, err := c.RefreshCategories(ctx); err != nil {
		return cat, err
	}
	return cat, nil
}

// UpdateCategory edita nombre/descripción en sitio y recarga la caché.
func (c *Controller) UpdateCategory(ctx context.Context, id int, form catalog.CategoryForm) (*entity.Category, error) {
	payload, err := form.Payload()
	if err != nil {
		return nil, err
	}
	cat, err := c.api.UpdateCategory(ctx, id, payload)
	if err != nil {
		return nil, err
	}
	if _, err := c.RefreshCategories(ctx); err != nil {
		return cat, err
	}
	return cat, nil
}

// DeleteCategory borra previa confirmación. Devuelve false si el operador
// declinó: no se emite ninguna petición y el estado queda intacto.
func (c *Controller) DeleteCategory(ctx context.Context, id int, name string) (bool, error) {
	if !c.confirm.Confirm(fmt.Sprintf("¿Seguro que quieres borrar la categoría %q?", name)) {
		return false, nil
	}
	if err := c.api.DeleteCategory(ctx, id); err != nil {
		return false, err
	}
	if _, err := c.RefreshCategories(ctx); err != nil {
		return true, err
	}
	return true, nil
}
