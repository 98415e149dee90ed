// Package catalogtest provee un doble en memoria del backend de catálogo,
// fiel al contrato HTTP consumido por el cliente: mismos paths, mismos cuerpos
// y errores {"detail": "..."}. Se arranca sobre un listener de loopback para
// que el cliente real lo ataque por red.
package catalogtest

import (
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/catalogo-admin/internal/domain/catalog"
	"github.com/jhoicas/catalogo-admin/internal/domain/entity"
)

// failure fallo inyectado para una operación; se consume una sola vez.
type failure struct {
	status int
	detail string
}

// Server backend de catálogo en memoria.
type Server struct {
	app *fiber.App
	ln  net.Listener

	mu         sync.Mutex
	categories map[int]entity.Category
	products   map[int]*entity.Product
	nextCatID  int
	nextProdID int
	nextImgID  int

	calls        map[string]int
	failures     map[string]failure
	failUploadAt int // 1-based: la n-ésima subida de imagen falla
	uploadsSeen  int
}

// New construye el servidor con el estado vacío.
func New() *Server {
	s := &Server{
		categories: make(map[int]entity.Category),
		products:   make(map[int]*entity.Product),
		nextCatID:  1,
		nextProdID: 1,
		nextImgID:  1,
		calls:      make(map[string]int),
		failures:   make(map[string]failure),
	}
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Get("/categories", s.listCategories)
	app.Post("/categories", s.createCategory)
	app.Put("/categories/:id", s.updateCategory)
	app.Delete("/categories/:id", s.deleteCategory)

	app.Get("/products", s.listProducts)
	app.Post("/products", s.createProduct)
	app.Put("/products/:id", s.updateProduct)
	app.Delete("/products/:id", s.deleteProduct)
	app.Patch("/products/:id/toggle-active", s.toggleActive)
	app.Post("/products/:id/images", s.uploadImage)
	app.Delete("/products/:id/images/:imageId", s.deleteImage)

	s.app = app
	return s
}

// Start arranca el servidor en un puerto libre de loopback y devuelve la URL base.
func (s *Server) Start() (string, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}
	s.ln = ln
	go func() {
		_ = s.app.Listener(ln)
	}()
	return "http://" + ln.Addr().String(), nil
}

// Close detiene el servidor.
func (s *Server) Close() error {
	return s.app.Shutdown()
}

// ── Utilidades para tests ─────────────────────────────────────────────────────

// Calls número de veces que se invocó la operación (list_products, etc.).
func (s *Server) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// FailNext hace que la próxima invocación de op responda status/{detail}.
func (s *Server) FailNext(op string, status int, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = failure{status: status, detail: detail}
}

// FailUploadAt hace que la n-ésima subida de imagen (1-based) falle con 500.
func (s *Server) FailUploadAt(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failUploadAt = n
	s.uploadsSeen = 0
}

// SeedCategory inserta una categoría y la devuelve.
func (s *Server) SeedCategory(name, description string) entity.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	cat := entity.Category{ID: s.nextCatID, Name: name}
	if description != "" {
		cat.Description = &description
	}
	s.nextCatID++
	s.categories[cat.ID] = cat
	return cat
}

// SeedProduct inserta un producto asignando ids a producto e imágenes.
func (s *Server) SeedProduct(p entity.Product) entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextProdID
	s.nextProdID++
	for i := range p.Images {
		p.Images[i].ID = s.nextImgID
		s.nextImgID++
	}
	if p.Categories == nil {
		p.Categories = []entity.CategoryRef{}
	}
	if p.Images == nil {
		p.Images = []entity.ProductImage{}
	}
	stored := p
	s.products[p.ID] = &stored
	return p
}

// Product devuelve una copia del producto almacenado, o nil si no existe.
func (s *Server) Product(id int) *entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil
	}
	cp := *p
	cp.Images = append([]entity.ProductImage(nil), p.Images...)
	cp.Categories = append([]entity.CategoryRef(nil), p.Categories...)
	return &cp
}

// track registra la llamada y devuelve el fallo inyectado, si lo hay.
// Debe llamarse con el mutex tomado.
func (s *Server) track(op string) *failure {
	s.calls[op]++
	if f, ok := s.failures[op]; ok {
		delete(s.failures, op)
		return &f
	}
	return nil
}

func detailError(c *fiber.Ctx, status int, detail string) error {
	return c.Status(status).JSON(fiber.Map{"detail": detail})
}

// ── Categorías ────────────────────────────────────────────────────────────────

func (s *Server) listCategories(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f := s.track("list_categories"); f != nil {
		return detailError(c, f.status, f.detail)
	}
	out := make([]entity.Category, 0, len(s.categories))
	for _, cat := range s.categories {
		out = append(out, cat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return c.JSON(out)
}

func (s *Server) createCategory(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f := s.track("create_category"); f != nil {
		return detailError(c, f.status, f.detail)
	}
	var in catalog.CategoryPayload
	if err := c.BodyParser(&in); err != nil {
		return detailError(c, fiber.StatusBadRequest, "cuerpo inválido")
	}
	for _, cat := range s.categories {
		if cat.Name == in.Name {
			return detailError(c, fiber.StatusBadRequest, "Ya existe una categoría con ese nombre")
		}
	}
	cat := entity.Category{ID: s.nextCatID, Name: in.Name, Description: in.Description}
	s.nextCatID++
	s.categories[cat.ID] = cat
	return c.Status(fiber.StatusCreated).JSON(cat)
}

func (s *Server) updateCategory(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f := s.track("update_category"); f != nil {
		return detailError(c, f.status, f.detail)
	}
	id, _ := c.ParamsInt("id")
	cat, ok := s.categories[id]
	if !ok {
		return detailError(c, fiber.StatusNotFound, "La categoría no encontrada")
	}
	var in catalog.CategoryPayload
	if err := c.BodyParser(&in); err != nil {
		return detailError(c, fiber.StatusBadRequest, "cuerpo inválido")
	}
	for _, other := range s.categories {
		if other.ID != id && other.Name == strings.TrimSpace(in.Name) {
			return detailError(c, fiber.StatusBadRequest, "Ya existe una categoría con este nombre.")
		}
	}
	cat.Name = in.Name
	cat.Description = in.Description
	s.categories[id] = cat
	return c.JSON(cat)
}

func (s *Server) deleteCategory(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f := s.track("delete_category"); f != nil {
		return detailError(c, f.status, f.detail)
	}
	id, _ := c.ParamsInt("id")
	if _, ok := s.categories[id]; !ok {
		return detailError(c, fiber.StatusBadRequest, "La categoría que intentas borrar ya no existe.")
	}
	delete(s.categories, id)
	return c.SendStatus(fiber.StatusNoContent)
}

// ── Productos ─────────────────────────────────────────────────────────────────

func (s *Server) listProducts(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f := s.track("list_products"); f != nil {
		return detailError(c, f.status, f.detail)
	}

	matches := make([]entity.Product, 0, len(s.products))
	for _, p := range s.products {
		if !s.matchesFilters(c, p) {
			continue
		}
		matches = append(matches, *p)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })

	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 25)
	if page < 1 {
		page = 1
	}
	total := len(matches)
	pages := catalog.PageCount(total, pageSize)

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return c.JSON(catalog.PageWindow{
		Items:    matches[start:end],
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Pages:    pages,
	})
}

func (s *Server) matchesFilters(c *fiber.Ctx, p *entity.Product) bool {
	if q := c.Query("q"); q != "" {
		if !strings.Contains(strings.ToLower(p.Name), strings.ToLower(q)) {
			return false
		}
	}
	if bc := c.Query("bar_code"); bc != "" && p.BarCode != bc {
		return false
	}
	if st := c.Query("stock"); st != "" {
		n, err := strconv.Atoi(st)
		if err != nil || p.StockQuantity != n {
			return false
		}
	}
	if pr := c.Query("price"); pr != "" {
		d, err := decimal.NewFromString(pr)
		if err != nil || !p.Price.Equal(d) {
			return false
		}
	}
	if act := c.Query("is_active"); act != "" {
		want, err := strconv.ParseBool(act)
		if err != nil || p.IsActive != want {
			return false
		}
	}
	if cid := c.Query("category_id"); cid != "" {
		id, err := strconv.Atoi(cid)
		if err != nil {
			return false
		}
		found := false
		for _, ref := range p.Categories {
			if ref.ID == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (s *Server) createProduct(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f := s.track("create_product"); f != nil {
		return detailError(c, f.status, f.detail)
	}
	var in catalog.ProductPayload
	if err := c.BodyParser(&in); err != nil {
		return detailError(c, fiber.StatusBadRequest, "cuerpo inválido")
	}
	for _, p := range s.products {
		if p.BarCode == in.BarCode {
			return detailError(c, fiber.StatusBadRequest, "Ya existe un producto con ese codigo de barra")
		}
	}
	refs, ok := s.categoryRefs(in.CategoryIDs)
	if !ok {
		return detailError(c, fiber.StatusBadRequest, "Una o más categorías no existen")
	}

	p := &entity.Product{
		ID:            s.nextProdID,
		Name:          in.Name,
		Description:   in.Description,
		BarCode:       in.BarCode,
		Price:         in.Price,
		StockQuantity: in.StockQuantity,
		IsActive:      in.IsActive,
		HasDiscount:   in.HasDiscount,
		DiscountPct:   in.DiscountPct,
		Categories:    refs,
		Images:        []entity.ProductImage{},
	}
	s.nextProdID++
	s.products[p.ID] = p
	return c.Status(fiber.StatusCreated).JSON(p)
}

// productUpdate actualización parcial: los campos nil no cambian.
type productUpdate struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	BarCode       *string          `json:"bar_code"`
	Price         *decimal.Decimal `json:"price"`
	StockQuantity *int             `json:"stock_quantity"`
	IsActive      *bool            `json:"is_active"`
	HasDiscount   *bool            `json:"product_has_discount"`
	DiscountPct   *decimal.Decimal `json:"product_discount_percentage"`
	CategoryIDs   *[]int           `json:"category_ids"`
}

func (s *Server) updateProduct(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f := s.track("update_product"); f != nil {
		return detailError(c, f.status, f.detail)
	}
	id, _ := c.ParamsInt("id")
	p, ok := s.products[id]
	if !ok {
		return detailError(c, fiber.StatusNotFound, "Producto no encontrado.")
	}
	var in productUpdate
	if err := c.BodyParser(&in); err != nil {
		return detailError(c, fiber.StatusBadRequest, "cuerpo inválido")
	}
	if in.BarCode != nil && *in.BarCode != p.BarCode {
		for _, other := range s.products {
			if other.ID != id && other.BarCode == *in.BarCode {
				return detailError(c, fiber.StatusBadRequest, "Ya existe otro producto con ese código de barras.")
			}
		}
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = in.Description
	}
	if in.BarCode != nil {
		p.BarCode = *in.BarCode
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.StockQuantity != nil {
		p.StockQuantity = *in.StockQuantity
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if in.HasDiscount != nil {
		p.HasDiscount = *in.HasDiscount
	}
	if in.DiscountPct != nil {
		p.DiscountPct = in.DiscountPct
	}
	if in.CategoryIDs != nil {
		refs, ok := s.categoryRefs(*in.CategoryIDs)
		if !ok {
			return detailError(c, fiber.StatusBadRequest, "la categoría que estas intentando añadir no existe")
		}
		p.Categories = refs
	}
	return c.JSON(p)
}

func (s *Server) deleteProduct(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f := s.track("delete_product"); f != nil {
		return detailError(c, f.status, f.detail)
	}
	id, _ := c.ParamsInt("id")
	if _, ok := s.products[id]; !ok {
		return detailError(c, fiber.StatusNotFound, "El producto que estas intentando borrar no existe.")
	}
	delete(s.products, id)
	return c.JSON(fiber.Map{"message": "El producto fue eliminado correctamente"})
}

func (s *Server) toggleActive(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f := s.track("toggle_active"); f != nil {
		return detailError(c, f.status, f.detail)
	}
	id, _ := c.ParamsInt("id")
	p, ok := s.products[id]
	if !ok {
		return detailError(c, fiber.StatusNotFound, "Producto no encontrado.")
	}
	p.IsActive = !p.IsActive
	return c.JSON(fiber.Map{"id": p.ID, "is_active": p.IsActive})
}

// ── Imágenes ──────────────────────────────────────────────────────────────────

func (s *Server) uploadImage(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f := s.track("upload_image"); f != nil {
		return detailError(c, f.status, f.detail)
	}
	s.uploadsSeen++
	if s.failUploadAt > 0 && s.uploadsSeen == s.failUploadAt {
		return detailError(c, fiber.StatusInternalServerError, "fallo simulado al guardar la imagen")
	}

	id, _ := c.ParamsInt("id")
	p, ok := s.products[id]
	if !ok {
		return detailError(c, fiber.StatusNotFound, "Producto no encontrado.")
	}
	if _, err := c.FormFile("image_file"); err != nil {
		return detailError(c, fiber.StatusBadRequest, "falta el campo image_file")
	}
	isMain := c.QueryBool("is_main", false)

	// Si llega como principal, las demás dejan de serlo.
	if isMain {
		for i := range p.Images {
			p.Images[i].IsMain = false
		}
	}
	img := entity.ProductImage{
		ID:       s.nextImgID,
		ImageURL: fmt.Sprintf("/static/products/%s", uuid.NewString()),
		IsMain:   isMain,
	}
	s.nextImgID++
	p.Images = append(p.Images, img)
	return c.Status(fiber.StatusCreated).JSON(img)
}

func (s *Server) deleteImage(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f := s.track("delete_image"); f != nil {
		return detailError(c, f.status, f.detail)
	}
	id, _ := c.ParamsInt("id")
	imageID, _ := c.ParamsInt("imageId")
	p, ok := s.products[id]
	if !ok {
		return detailError(c, fiber.StatusNotFound, "Producto no encontrado.")
	}
	idx := -1
	for i, img := range p.Images {
		if img.ID == imageID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return detailError(c, fiber.StatusNotFound, "Imagen no encontrada")
	}
	wasMain := p.Images[idx].IsMain
	p.Images = append(p.Images[:idx], p.Images[idx+1:]...)

	// Al borrar la principal, la imagen restante con menor id pasa a serlo.
	if wasMain && len(p.Images) > 0 {
		lowest := 0
		for i := range p.Images {
			if p.Images[i].ID < p.Images[lowest].ID {
				lowest = i
			}
		}
		p.Images[lowest].IsMain = true
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) categoryRefs(ids []int) ([]entity.CategoryRef, bool) {
	refs := make([]entity.CategoryRef, 0, len(ids))
	for _, id := range ids {
		cat, ok := s.categories[id]
		if !ok {
			return nil, false
		}
		refs = append(refs, entity.CategoryRef{ID: cat.ID, Name: cat.Name})
	}
	return refs, true
}
