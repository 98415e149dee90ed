package entity

import (
	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo tal como lo devuelve el backend.
// BarCode es identificador de negocio; la unicidad la valida el servidor.
type Product struct {
	ID            int              `json:"id"`
	Name          string           `json:"name"`
	Description   *string          `json:"description"`
	BarCode       string           `json:"bar_code"`
	Price         decimal.Decimal  `json:"price"`
	StockQuantity int              `json:"stock_quantity"`
	IsActive      bool             `json:"is_active"`
	HasDiscount   bool             `json:"product_has_discount"`
	DiscountPct   *decimal.Decimal `json:"product_discount_percentage"`
	Categories    []CategoryRef    `json:"categories"`
	Images        []ProductImage   `json:"images"`
}

// ProductImage imagen asociada a un producto. A lo sumo una por producto
// debería tener IsMain en true; el backend reasigna la principal al borrar.
type ProductImage struct {
	ID       int    `json:"id"`
	ImageURL string `json:"image_url"` // ruta relativa al servidor (/static/...)
	IsMain   bool   `json:"is_main"`
}

// MainImage devuelve la imagen principal del producto, o nil si no tiene.
func (p *Product) MainImage() *ProductImage {
	for i := range p.Images {
		if p.Images[i].IsMain {
			return &p.Images[i]
		}
	}
	return nil
}
