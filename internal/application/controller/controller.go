// Package controller implementa el controlador de la colección de productos:
// es el único dueño de la ventana de página y de los filtros. Las vistas leen
// su estado y le remiten intenciones; nunca escriben sobre la verdad del
// servidor por su cuenta.
package controller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/catalogo-admin/internal/domain"
	"github.com/jhoicas/catalogo-admin/internal/domain/catalog"
	"github.com/jhoicas/catalogo-admin/internal/domain/entity"
	"github.com/jhoicas/catalogo-admin/pkg/logger"
)

// CatalogAPI puerto de salida hacia el backend de catálogo.
// La implementación concreta es el cliente REST; para tests se inyecta un fake.
type CatalogAPI interface {
	ListCategories(ctx context.Context) ([]entity.Category, error)
	CreateCategory(ctx context.Context, p catalog.CategoryPayload) (*entity.Category, error)
	UpdateCategory(ctx context.Context, id int, p catalog.CategoryPayload) (*entity.Category, error)
	DeleteCategory(ctx context.Context, id int) error

	ListProducts(ctx context.Context, f catalog.Filters, page, pageSize int) (*catalog.PageWindow, error)
	CreateProduct(ctx context.Context, p catalog.ProductPayload) (*entity.Product, error)
	UpdateProduct(ctx context.Context, id int, p catalog.ProductPayload) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id int) error
	ToggleActive(ctx context.Context, id int) (bool, error)
	UploadImage(ctx context.Context, productID int, file catalog.ImageFile, isMain bool) (*entity.ProductImage, error)
	DeleteImage(ctx context.Context, productID, imageID int) error
}

// Confirmer compuerta de confirmación para acciones destructivas. La vista
// responde sí/no antes de que el controlador emita petición alguna.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmerFunc adaptador de función a Confirmer.
type ConfirmerFunc func(prompt string) bool

func (f ConfirmerFunc) Confirm(prompt string) bool { return f(prompt) }

// Options parámetros de construcción del controlador.
type Options struct {
	PageSize int           // tamaño de página inicial (25 por defecto)
	Debounce time.Duration // silencio tras el último cambio de filtros (300 ms por defecto)
	OnChange func()        // notificación a las vistas tras cada cambio de estado; puede ser nil
}

// State copia inmutable del estado observable del controlador.
type State struct {
	Products []entity.Product
	Total    int
	Page     int
	PageSize int
	Pages    int
	Filters  catalog.Filters
	Loading  bool
	Err      string // último error del listado; la página anterior sigue visible
}

// Controller controlador de la colección de productos.
type Controller struct {
	api      CatalogAPI
	log      *logger.Logger
	confirm  Confirmer
	debounce time.Duration
	onChange func()

	mu       sync.Mutex
	filters  catalog.Filters
	page     int
	pageSize int
	items    []entity.Product
	total    int
	pages    int
	errMsg   string
	inflight int
	closed   bool

	// Número de secuencia monótono: una respuesta de listado solo se aplica
	// si su secuencia es la más alta vista hasta el momento.
	issuedSeq  uint64
	appliedSeq uint64

	timer *time.Timer

	categories []entity.Category
	catsLoaded bool
}

// New construye el controlador. El listado queda vacío hasta el primer Fetch.
func New(api CatalogAPI, confirm Confirmer, log *logger.Logger, opts Options) *Controller {
	if opts.PageSize <= 0 {
		opts.PageSize = 25
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 300 * time.Millisecond
	}
	return &Controller{
		api:      api,
		log:      log,
		confirm:  confirm,
		debounce: opts.Debounce,
		onChange: opts.OnChange,
		filters:  catalog.DefaultFilters(),
		page:     1,
		pageSize: opts.PageSize,
		pages:    1,
	}
}

// Close cancela el temporizador de debounce pendiente y marca el controlador
// como cerrado: ninguna respuesta tardía volverá a mutar el estado.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// State devuelve una copia del estado observable.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Products: append([]entity.Product(nil), c.items...),
		Total:    c.total,
		Page:     c.page,
		PageSize: c.pageSize,
		Pages:    c.pages,
		Filters:  c.filters,
		Loading:  c.inflight > 0,
		Err:      c.errMsg,
	}
}

func (c *Controller) notify() {
	if c.onChange != nil {
		c.onChange()
	}
}

// ── Filtros y paginación ──────────────────────────────────────────────────────

// SetFilters mezcla el patch sobre los filtros actuales y vuelve a la página 1.
// No emite red de inmediato: (re)arma el debounce, de modo que solo el último
// cambio dentro de la ventana de silencio dispara un listado.
func (c *Controller) SetFilters(patch catalog.FiltersPatch) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	patch.Apply(&c.filters)
	c.page = 1
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() {
		c.Fetch(context.Background())
	})
	c.mu.Unlock()
	c.notify()
}

// ClearFilters restablece los filtros por defecto (misma política de debounce).
func (c *Controller) ClearFilters() {
	def := catalog.DefaultFilters()
	c.SetFilters(catalog.FiltersPatch{
		Name:       &def.Name,
		BarCode:    &def.BarCode,
		Stock:      &def.Stock,
		Price:      &def.Price,
		Active:     &def.Active,
		CategoryID: &def.CategoryID,
	})
}

// SetPage cambia de página y recarga de inmediato (acción puntual, sin debounce).
// El llamador acota n a [1, pages].
func (c *Controller) SetPage(ctx context.Context, n int) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.ErrClosed
	}
	if n < 1 {
		n = 1
	}
	c.page = n
	c.mu.Unlock()
	return c.Fetch(ctx)
}

// SetPageSize cambia el tamaño de página, vuelve a la página 1 y recarga.
func (c *Controller) SetPageSize(ctx context.Context, n int) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.ErrClosed
	}
	if n > 0 {
		c.pageSize = n
		c.page = 1
	}
	c.mu.Unlock()
	return c.Fetch(ctx)
}

// ── Listado ───────────────────────────────────────────────────────────────────

// Fetch emite un listado con los criterios vigentes y, si su respuesta sigue
// siendo la más reciente, reemplaza la ventana de página en bloque. En fallo
// conserva la página anterior (visible aunque obsoleta) y guarda el mensaje.
func (c *Controller) Fetch(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.ErrClosed
	}
	c.issuedSeq++
	seq := c.issuedSeq
	filters := c.filters
	page := c.page
	pageSize := c.pageSize
	c.inflight++
	c.mu.Unlock()
	c.notify()

	win, err := c.api.ListProducts(ctx, filters, page, pageSize)

	c.mu.Lock()
	c.inflight--
	if c.closed {
		c.mu.Unlock()
		return domain.ErrClosed
	}
	if seq <= c.appliedSeq {
		// Respuesta fuera de orden: ya se aplicó una más reciente.
		c.mu.Unlock()
		c.log.Debug().Uint64("seq", seq).Msg("listado obsoleto descartado")
		c.notify()
		return nil
	}
	c.appliedSeq = seq
	if err != nil {
		c.errMsg = err.Error()
		c.mu.Unlock()
		c.log.Warn().Err(err).Msg("listado de productos")
		c.notify()
		return err
	}
	c.items = win.Items
	c.total = win.Total
	c.pages = win.Pages
	c.errMsg = ""
	c.mu.Unlock()
	c.notify()
	return nil
}

// ── Mutaciones ────────────────────────────────────────────────────────────────

// Delete borra un producto previa confirmación. Devuelve false si el operador
// declinó (no se emite petición alguna). En éxito quita el elemento de la
// página en memoria sin recargar; total y pages quedan sin ajustar hasta el
// próximo listado.
func (c *Controller) Delete(ctx context.Context, id int, name string) (bool, error) {
	if !c.confirm.Confirm(fmt.Sprintf("¿Seguro que quieres borrar %q?", name)) {
		return false, nil
	}
	if err := c.api.DeleteProduct(ctx, id); err != nil {
		return false, err
	}
	c.mu.Lock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
	c.log.Info().Int("product_id", id).Msg("producto eliminado")
	c.notify()
	return true, nil
}

// ToggleActive invierte el estado activo en el servidor y, en éxito, refleja
// el valor devuelto sobre el elemento en memoria. En fallo no muta nada.
func (c *Controller) ToggleActive(ctx context.Context, id int) error {
	active, err := c.api.ToggleActive(ctx, id)
	if err != nil {
		return err
	}
	c.mu.Lock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].IsActive = active
			break
		}
	}
	c.mu.Unlock()
	c.notify()
	return nil
}

// Save crea (existingID nil) o edita un producto y sube las imágenes nuevas en
// secuencia, en el orden de selección. Exactamente una queda marcada como
// principal: la primera, cuando el producto aún no tiene imagen principal.
// Si una subida falla se abortan las restantes y se devuelve un
// *ImageUploadError: el producto ya quedó persistido, estado parcial que se
// informa en lugar de tragarse. En cualquier desenlace se recarga el listado,
// porque las URLs y el conteo de imágenes los deriva el servidor.
func (c *Controller) Save(ctx context.Context, form catalog.ProductForm, images []catalog.ImageFile, existingID *int) error {
	payload, err := form.Payload()
	if err != nil {
		return err
	}

	var product *entity.Product
	if existingID == nil {
		product, err = c.api.CreateProduct(ctx, payload)
	} else {
		product, err = c.api.UpdateProduct(ctx, *existingID, payload)
	}
	if err != nil {
		return err
	}

	hasMain := product.MainImage() != nil
	for i, img := range images {
		isMain := !hasMain && i == 0
		if _, err := c.api.UploadImage(ctx, product.ID, img, isMain); err != nil {
			uploadErr := &ImageUploadError{
				ProductID: product.ID,
				Index:     i,
				Total:     len(images),
				Err:       err,
			}
			c.log.Warn().Err(err).Int("product_id", product.ID).Int("imagen", i+1).
				Msg("subida de imagen abortada tras persistir el producto")
			_ = c.Fetch(ctx)
			return uploadErr
		}
	}

	return c.Fetch(ctx)
}

// DeleteImage borra una imagen del producto y recarga el listado completo:
// al quitar la principal el servidor puede reasignar is_main a otra imagen.
func (c *Controller) DeleteImage(ctx context.Context, productID, imageID int) error {
	if err := c.api.DeleteImage(ctx, productID, imageID); err != nil {
		return err
	}
	return c.Fetch(ctx)
}
