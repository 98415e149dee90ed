package catalog

import "github.com/shopspring/decimal"

// ProductPayload cuerpo JSON de POST /products y PUT /products/{id}.
// En la edición el backend trata los campos ausentes como "sin cambio"; el
// cliente envía siempre el formulario completo, que es lo más simple y correcto.
type ProductPayload struct {
	Name          string           `json:"name"`
	Description   *string          `json:"description,omitempty"`
	BarCode       string           `json:"bar_code"`
	Price         decimal.Decimal  `json:"price"`
	StockQuantity int              `json:"stock_quantity"`
	IsActive      bool             `json:"is_active"`
	HasDiscount   bool             `json:"product_has_discount"`
	DiscountPct   *decimal.Decimal `json:"product_discount_percentage,omitempty"`
	CategoryIDs   []int            `json:"category_ids"`
}

// CategoryPayload cuerpo JSON de POST /categories y PUT /categories/{id}.
type CategoryPayload struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// ImageFile archivo de imagen seleccionado para subir. Los bytes ya están en
// memoria: la subida es secuencial y el orden de selección determina cuál
// queda como principal.
type ImageFile struct {
	Name string
	Data []byte
}
