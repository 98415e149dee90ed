package entity

// Category representa una categoría del catálogo (muchos-a-muchos con Product).
// El ID lo asigna el backend; la identidad es inmutable una vez creada.
type Category struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// CategoryRef referencia mínima a una categoría dentro de un producto.
type CategoryRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
