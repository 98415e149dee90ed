package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/jhoicas/catalogo-admin/internal/application/controller"
	"github.com/jhoicas/catalogo-admin/internal/domain/entity"
)

// RenderProducts imprime la ventana de página actual como tabla.
func RenderProducts(w io.Writer, st controller.State) {
	if st.Err != "" {
		// La página anterior sigue visible aunque el último listado fallara.
		fmt.Fprintf(w, "⚠ último listado falló: %s\n", st.Err)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNOMBRE\tCÓDIGO\tPRECIO\tSTOCK\tACTIVO\tCATEGORÍAS\tIMÁGENES")
	for _, p := range st.Products {
		active := "no"
		if p.IsActive {
			active = "sí"
		}
		main := ""
		if p.MainImage() != nil {
			main = " (1 principal)"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\t%s\t%d%s\n",
			p.ID, p.Name, p.BarCode, p.Price.StringFixed(2), p.StockQuantity,
			active, categoryNames(p), len(p.Images), main)
	}
	tw.Flush()
	fmt.Fprintf(w, "página %d de %d — %d productos en total (tamaño %d)\n",
		st.Page, st.Pages, st.Total, st.PageSize)
}

// RenderCategories imprime la lista de categorías.
func RenderCategories(w io.Writer, cats []entity.Category) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNOMBRE\tDESCRIPCIÓN")
	for _, cat := range cats {
		desc := ""
		if cat.Description != nil {
			desc = *cat.Description
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", cat.ID, cat.Name, desc)
	}
	tw.Flush()
}

// RenderImages imprime las imágenes de un producto.
func RenderImages(w io.Writer, p entity.Product) {
	if len(p.Images) == 0 {
		fmt.Fprintln(w, "el producto no tiene imágenes")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tURL\tPRINCIPAL")
	for _, img := range p.Images {
		main := ""
		if img.IsMain {
			main = "sí"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", img.ID, img.ImageURL, main)
	}
	tw.Flush()
}

func categoryNames(p entity.Product) string {
	names := make([]string, 0, len(p.Categories))
	for _, ref := range p.Categories {
		names = append(names, ref.Name)
	}
	return strings.Join(names, ", ")
}
