package controller

import "fmt"

// ImageUploadError fallo parcial durante el alta/edición con imágenes: el
// producto ya quedó persistido pero la subida Index (0-based) falló y las
// restantes se abortaron. El operador debe reintentar solo las imágenes.
type ImageUploadError struct {
	ProductID int
	Index     int
	Total     int
	Err       error
}

func (e *ImageUploadError) Error() string {
	return fmt.Sprintf("el producto %d se guardó, pero falló la subida de la imagen %d de %d: %v",
		e.ProductID, e.Index+1, e.Total, e.Err)
}

func (e *ImageUploadError) Unwrap() error { return e.Err }
