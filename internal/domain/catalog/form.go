package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/catalogo-admin/internal/domain"
)

// ProductForm datos del formulario de alta/edición de producto, tal como los
// teclea el operador. La validación local corre antes de cualquier llamada de
// red; si falla, no se emite ninguna petición.
type ProductForm struct {
	Name          string
	Description   string
	BarCode       string
	Price         string // admite coma decimal
	StockQuantity int
	IsActive      bool
	HasDiscount   bool
	DiscountPct   string // vacío = sin descuento
	CategoryIDs   []int
}

// Validate aplica las reglas locales del formulario.
func (f ProductForm) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("%w: el nombre es requerido", domain.ErrValidation)
	}
	if strings.TrimSpace(f.BarCode) == "" {
		return fmt.Errorf("%w: el código de barras es requerido", domain.ErrValidation)
	}
	price, err := f.PriceDecimal()
	if err != nil {
		return fmt.Errorf("%w: el precio no es un número válido", domain.ErrValidation)
	}
	if price.IsNegative() {
		return fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrValidation)
	}
	if f.StockQuantity < 0 {
		return fmt.Errorf("%w: el stock no puede ser negativo", domain.ErrValidation)
	}
	if len(f.CategoryIDs) == 0 {
		return fmt.Errorf("%w: selecciona al menos una categoría", domain.ErrValidation)
	}
	if f.HasDiscount && f.DiscountPct != "" {
		if _, err := decimal.NewFromString(NormalizePrice(f.DiscountPct)); err != nil {
			return fmt.Errorf("%w: el porcentaje de descuento no es válido", domain.ErrValidation)
		}
	}
	return nil
}

// PriceDecimal devuelve el precio normalizado (coma -> punto) como decimal.
func (f ProductForm) PriceDecimal() (decimal.Decimal, error) {
	return decimal.NewFromString(NormalizePrice(f.Price))
}

// Payload convierte un formulario ya validado en el cuerpo de creación/edición.
func (f ProductForm) Payload() (ProductPayload, error) {
	if err := f.Validate(); err != nil {
		return ProductPayload{}, err
	}
	price, _ := f.PriceDecimal()

	p := ProductPayload{
		Name:          strings.TrimSpace(f.Name),
		BarCode:       strings.TrimSpace(f.BarCode),
		Price:         price,
		StockQuantity: f.StockQuantity,
		IsActive:      f.IsActive,
		HasDiscount:   f.HasDiscount,
		CategoryIDs:   f.CategoryIDs,
	}
	if d := strings.TrimSpace(f.Description); d != "" {
		p.Description = &d
	}
	if f.HasDiscount && f.DiscountPct != "" {
		pct, _ := decimal.NewFromString(NormalizePrice(f.DiscountPct))
		p.DiscountPct = &pct
	}
	return p, nil
}

// CategoryForm datos del formulario de categoría.
type CategoryForm struct {
	Name        string
	Description string
}

// Validate el nombre es obligatorio tras recortar espacios.
func (f CategoryForm) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("%w: el nombre de la categoría es requerido", domain.ErrValidation)
	}
	return nil
}

// Payload cuerpo de creación/edición de categoría.
func (f CategoryForm) Payload() (CategoryPayload, error) {
	if err := f.Validate(); err != nil {
		return CategoryPayload{}, err
	}
	p := CategoryPayload{Name: strings.TrimSpace(f.Name)}
	if d := strings.TrimSpace(f.Description); d != "" {
		p.Description = &d
	}
	return p, nil
}
