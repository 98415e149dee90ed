// Package cli es la capa de presentación: renderiza el estado del controlador
// y le remite las intenciones del operador. No guarda copia propia de la
// verdad del servidor.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jhoicas/catalogo-admin/internal/application/controller"
	"github.com/jhoicas/catalogo-admin/internal/domain/catalog"
	"github.com/jhoicas/catalogo-admin/internal/domain/entity"
)

// TerminalConfirmer compuerta sí/no sobre la terminal.
type TerminalConfirmer struct {
	In  *bufio.Reader
	Out io.Writer
}

// Confirm pregunta y acepta solo "s" o "si" (cualquier capitalización).
func (t *TerminalConfirmer) Confirm(prompt string) bool {
	fmt.Fprintf(t.Out, "%s [s/N]: ", prompt)
	line, err := t.In.ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "si", "sí":
		return true
	}
	return false
}

// App bucle interactivo de la consola de administración.
type App struct {
	Ctrl *controller.Controller
	In   *bufio.Reader
	Out  io.Writer
}

// Run procesa comandos hasta EOF, "quit" o cancelación del contexto.
func (a *App) Run(ctx context.Context) error {
	fmt.Fprintln(a.Out, "consola de administración del catálogo — escribe 'help' para ver los comandos")
	if _, err := a.Ctrl.LoadCategories(ctx); err != nil {
		fmt.Fprintf(a.Out, "⚠ no se pudieron cargar las categorías: %v\n", err)
	}
	if err := a.Ctrl.Fetch(ctx); err != nil {
		fmt.Fprintf(a.Out, "⚠ %v\n", err)
	}
	RenderProducts(a.Out, a.Ctrl.State())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		fmt.Fprint(a.Out, "> ")
		line, err := a.In.ReadString('\n')
		if err != nil {
			return nil // EOF: salida limpia
		}
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		if err := a.dispatch(ctx, fields); err != nil {
			fmt.Fprintf(a.Out, "⚠ %v\n", err)
		}
	}
}

func (a *App) dispatch(ctx context.Context, fields []string) error {
	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "help":
		a.printHelp()
	case "list", "l":
		if err := a.Ctrl.Fetch(ctx); err != nil {
			return err
		}
		RenderProducts(a.Out, a.Ctrl.State())
	case "page":
		n, err := argInt(args, 0)
		if err != nil {
			return err
		}
		if err := a.Ctrl.SetPage(ctx, n); err != nil {
			return err
		}
		RenderProducts(a.Out, a.Ctrl.State())
	case "next", "prev":
		st := a.Ctrl.State()
		n := st.Page + 1
		if cmd == "prev" {
			n = st.Page - 1
		}
		if n < 1 || n > st.Pages {
			return fmt.Errorf("no hay página %d", n)
		}
		if err := a.Ctrl.SetPage(ctx, n); err != nil {
			return err
		}
		RenderProducts(a.Out, a.Ctrl.State())
	case "size":
		n, err := argInt(args, 0)
		if err != nil {
			return err
		}
		switch n {
		case 25, 50, 100:
		default:
			return fmt.Errorf("tamaño de página inválido: %d (admitidos: 25, 50, 100)", n)
		}
		if err := a.Ctrl.SetPageSize(ctx, n); err != nil {
			return err
		}
		RenderProducts(a.Out, a.Ctrl.State())
	case "filter":
		return a.applyFilter(args)
	case "clear":
		a.Ctrl.ClearFilters()
		fmt.Fprintln(a.Out, "filtros restablecidos; el listado se recargará en breve")
	case "del":
		return a.deleteProduct(ctx, args)
	case "toggle":
		id, err := argInt(args, 0)
		if err != nil {
			return err
		}
		if err := a.Ctrl.ToggleActive(ctx, id); err != nil {
			return err
		}
		fmt.Fprintln(a.Out, "estado cambiado")
	case "new":
		return a.saveProduct(ctx, nil)
	case "edit":
		id, err := argInt(args, 0)
		if err != nil {
			return err
		}
		return a.saveProduct(ctx, &id)
	case "images":
		id, err := argInt(args, 0)
		if err != nil {
			return err
		}
		p := a.findProduct(id)
		if p == nil {
			return fmt.Errorf("el producto %d no está en la página actual", id)
		}
		RenderImages(a.Out, *p)
	case "imgdel":
		id, err := argInt(args, 0)
		if err != nil {
			return err
		}
		imageID, err := argInt(args, 1)
		if err != nil {
			return err
		}
		if err := a.Ctrl.DeleteImage(ctx, id, imageID); err != nil {
			return err
		}
		fmt.Fprintln(a.Out, "imagen eliminada")
	case "cats":
		RenderCategories(a.Out, a.Ctrl.Categories())
	case "catnew":
		return a.saveCategory(ctx, nil)
	case "catedit":
		id, err := argInt(args, 0)
		if err != nil {
			return err
		}
		return a.saveCategory(ctx, &id)
	case "catdel":
		return a.deleteCategory(ctx, args)
	default:
		return fmt.Errorf("comando desconocido: %s (usa 'help')", cmd)
	}
	return nil
}

func (a *App) printHelp() {
	fmt.Fprint(a.Out, `comandos:
  list               recargar y mostrar el listado
  page N | next | prev
  size N             tamaño de página (25, 50, 100)
  filter campo=valor name, barcode, stock, price, active(all|active|inactive), category
  clear              restablecer filtros
  new | edit ID      alta / edición de producto (formulario)
  del ID             borrar producto (pide confirmación)
  toggle ID          activar/desactivar producto
  images ID          listar imágenes del producto
  imgdel ID IMGID    borrar imagen
  cats | catnew | catedit ID | catdel ID
  quit
`)
}

// applyFilter traduce "campo=valor" a un patch de filtros. El listado se
// recarga solo tras la ventana de debounce, igual que al teclear en un buscador.
func (a *App) applyFilter(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("uso: filter campo=valor")
	}
	patch := catalog.FiltersPatch{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("filtro inválido: %s", arg)
		}
		v := value
		switch key {
		case "name":
			patch.Name = &v
		case "barcode":
			patch.BarCode = &v
		case "stock":
			patch.Stock = &v
		case "price":
			patch.Price = &v
		case "category":
			patch.CategoryID = &v
		case "active":
			af := catalog.ActiveFilter(v)
			if af != catalog.ActiveAll && af != catalog.ActiveOnly && af != catalog.ActiveInactive {
				return fmt.Errorf("active debe ser all, active o inactive")
			}
			patch.Active = &af
		default:
			return fmt.Errorf("campo de filtro desconocido: %s", key)
		}
	}
	a.Ctrl.SetFilters(patch)
	fmt.Fprintln(a.Out, "filtros aplicados; el listado se recargará en breve")
	return nil
}

func (a *App) deleteProduct(ctx context.Context, args []string) error {
	id, err := argInt(args, 0)
	if err != nil {
		return err
	}
	name := strconv.Itoa(id)
	if p := a.findProduct(id); p != nil {
		name = p.Name
	}
	deleted, err := a.Ctrl.Delete(ctx, id, name)
	if err != nil {
		return err
	}
	if !deleted {
		fmt.Fprintln(a.Out, "borrado cancelado")
		return nil
	}
	fmt.Fprintln(a.Out, "producto eliminado")
	return nil
}

func (a *App) deleteCategory(ctx context.Context, args []string) error {
	id, err := argInt(args, 0)
	if err != nil {
		return err
	}
	name := strconv.Itoa(id)
	for _, cat := range a.Ctrl.Categories() {
		if cat.ID == id {
			name = cat.Name
			break
		}
	}
	deleted, err := a.Ctrl.DeleteCategory(ctx, id, name)
	if err != nil {
		return err
	}
	if !deleted {
		fmt.Fprintln(a.Out, "borrado cancelado")
		return nil
	}
	fmt.Fprintln(a.Out, "categoría eliminada")
	return nil
}

// saveProduct recoge el formulario por prompts y delega en el controlador.
// Con existingID los valores actuales del producto actúan como defaults.
func (a *App) saveProduct(ctx context.Context, existingID *int) error {
	var def catalog.ProductForm
	def.IsActive = true
	if existingID != nil {
		p := a.findProduct(*existingID)
		if p == nil {
			return fmt.Errorf("el producto %d no está en la página actual", *existingID)
		}
		def = catalog.ProductForm{
			Name:          p.Name,
			BarCode:       p.BarCode,
			Price:         p.Price.String(),
			StockQuantity: p.StockQuantity,
			IsActive:      p.IsActive,
			HasDiscount:   p.HasDiscount,
		}
		if p.Description != nil {
			def.Description = *p.Description
		}
		if p.DiscountPct != nil {
			def.DiscountPct = p.DiscountPct.String()
		}
		for _, ref := range p.Categories {
			def.CategoryIDs = append(def.CategoryIDs, ref.ID)
		}
	}

	form := catalog.ProductForm{
		Name:        a.prompt("nombre", def.Name),
		Description: a.prompt("descripción", def.Description),
		BarCode:     a.prompt("código de barras", def.BarCode),
		Price:       a.prompt("precio", def.Price),
	}
	form.StockQuantity = a.promptInt("stock", def.StockQuantity)
	form.IsActive = a.promptBool("activo", def.IsActive)
	form.CategoryIDs = a.promptIDs("ids de categorías (separados por coma)", def.CategoryIDs)
	form.HasDiscount = a.promptBool("tiene descuento", def.HasDiscount)
	if form.HasDiscount {
		form.DiscountPct = a.prompt("porcentaje de descuento", def.DiscountPct)
	}

	images, err := a.promptImages()
	if err != nil {
		return err
	}
	if err := a.Ctrl.Save(ctx, form, images, existingID); err != nil {
		return err
	}
	fmt.Fprintln(a.Out, "producto guardado")
	RenderProducts(a.Out, a.Ctrl.State())
	return nil
}

func (a *App) saveCategory(ctx context.Context, existingID *int) error {
	var def catalog.CategoryForm
	if existingID != nil {
		for _, cat := range a.Ctrl.Categories() {
			if cat.ID == *existingID {
				def.Name = cat.Name
				if cat.Description != nil {
					def.Description = *cat.Description
				}
			}
		}
	}
	form := catalog.CategoryForm{
		Name:        a.prompt("nombre", def.Name),
		Description: a.prompt("descripción", def.Description),
	}
	var err error
	if existingID == nil {
		_, err = a.Ctrl.CreateCategory(ctx, form)
	} else {
		_, err = a.Ctrl.UpdateCategory(ctx, *existingID, form)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(a.Out, "categoría guardada")
	return nil
}

// promptImages pide rutas de archivo y las lee a memoria en orden de selección.
func (a *App) promptImages() ([]catalog.ImageFile, error) {
	raw := a.prompt("imágenes (rutas separadas por coma, vacío = ninguna)", "")
	if raw == "" {
		return nil, nil
	}
	var files []catalog.ImageFile
	for _, path := range strings.Split(raw, ",") {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("leer imagen %s: %w", path, err)
		}
		files = append(files, catalog.ImageFile{Name: filepath.Base(path), Data: data})
	}
	return files, nil
}

// ── Prompts ───────────────────────────────────────────────────────────────────

func (a *App) prompt(label, def string) string {
	if def != "" {
		fmt.Fprintf(a.Out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(a.Out, "%s: ", label)
	}
	line, err := a.In.ReadString('\n')
	if err != nil {
		return def
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	return line
}

func (a *App) promptInt(label string, def int) int {
	raw := a.prompt(label, strconv.Itoa(def))
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func (a *App) promptBool(label string, def bool) bool {
	defStr := "no"
	if def {
		defStr = "sí"
	}
	raw := strings.ToLower(a.prompt(label+" (sí/no)", defStr))
	switch raw {
	case "s", "si", "sí":
		return true
	case "n", "no":
		return false
	}
	return def
}

func (a *App) promptIDs(label string, def []int) []int {
	defStr := ""
	if len(def) > 0 {
		parts := make([]string, len(def))
		for i, id := range def {
			parts[i] = strconv.Itoa(id)
		}
		defStr = strings.Join(parts, ",")
	}
	raw := a.prompt(label, defStr)
	var ids []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if n, err := strconv.Atoi(part); err == nil {
			ids = append(ids, n)
		}
	}
	return ids
}

func (a *App) findProduct(id int) *entity.Product {
	st := a.Ctrl.State()
	for i := range st.Products {
		if st.Products[i].ID == id {
			return &st.Products[i]
		}
	}
	return nil
}

func argInt(args []string, idx int) (int, error) {
	if idx >= len(args) {
		return 0, fmt.Errorf("falta un argumento numérico")
	}
	n, err := strconv.Atoi(args[idx])
	if err != nil {
		return 0, fmt.Errorf("argumento inválido: %s", args[idx])
	}
	return n, nil
}
