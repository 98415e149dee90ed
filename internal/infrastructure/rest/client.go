// Package rest implementa el adaptador HTTP hacia el backend de catálogo.
// Traduce respuestas no-2xx en errores tipados (*APIError) y registra cada
// llamada saliente en el logger y en las métricas.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/catalogo-admin/internal/domain"
	"github.com/jhoicas/catalogo-admin/pkg/logger"
	"github.com/jhoicas/catalogo-admin/pkg/metrics"
)

// Config configuración del cliente. BaseURL se inyecta una sola vez aquí;
// ningún sitio de llamada repite la URL base.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client cliente HTTP del backend de catálogo.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger
	metrics *metrics.Recorder
}

// New construye el cliente. metrics puede ser nil (no registra nada).
func New(cfg Config, log *logger.Logger, rec *metrics.Recorder) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
		metrics: rec,
	}
}

// APIError fallo a nivel de aplicación: el backend respondió con un estado
// no-2xx. Detail proviene del cuerpo {"detail": "..."} cuando es parseable.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("el backend respondió %d: %s", e.Status, e.Detail)
}

// Is permite errors.Is(err, domain.ErrNotFound) sobre respuestas 404.
func (e *APIError) Is(target error) bool {
	return target == domain.ErrNotFound && e.Status == http.StatusNotFound
}

// Mensaje genérico cuando el cuerpo de error no trae un detail parseable.
const genericErrorDetail = "error de comunicación con el backend"

// errorDetail cuerpo de error estándar del backend.
type errorDetail struct {
	Detail string `json:"detail"`
}

// do ejecuta una petición y decodifica la respuesta JSON en out (si no es nil).
// contentType vacío implica application/json cuando hay cuerpo.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, contentType string, body io.Reader, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("construir petición %s: %w", op, err)
	}
	if body != nil {
		if contentType == "" {
			contentType = "application/json"
		}
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		// Fallo de transporte: nunca hubo respuesta HTTP.
		c.metrics.Observe(op, 0, elapsed)
		c.log.Error().Err(err).Str("operation", op).Str("url", u).Msg("fallo de transporte")
		return fmt.Errorf("no se pudo contactar el backend: %w", err)
	}
	defer resp.Body.Close()

	c.metrics.Observe(op, resp.StatusCode, elapsed)
	c.log.Debug().
		Str("operation", op).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", elapsed).
		Msg("petición al backend")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.apiError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decodificar respuesta de %s: %w", op, err)
	}
	return nil
}

// apiError normaliza un estado no-2xx en *APIError leyendo {"detail": "..."}.
func (c *Client) apiError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Detail: genericErrorDetail}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil && len(raw) > 0 {
		var body errorDetail
		if json.Unmarshal(raw, &body) == nil && body.Detail != "" {
			apiErr.Detail = body.Detail
		}
	}
	return apiErr
}

// jsonBody serializa v para usarlo como cuerpo de petición.
func jsonBody(v any) (io.Reader, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(raw), nil
}
