package web

import (
	"encoding/json"
	"fmt"
)

// Response is what a handler operation returns. Render produces the body
// bytes; pretty is a formatting hint that renderers may ignore.
type Response interface {
	Header() *Header
	Render(pretty bool) ([]byte, error)
}

// JSONResponse serializes Value as the response body.
type JSONResponse struct {
	header *Header
	Value  any
}

func JSON(v any) *JSONResponse {
	h := NewHeader()
	h.Set("Content-Type", "application/json")
	return &JSONResponse{header: h, Value: v}
}

func (r *JSONResponse) Header() *Header { return r.header }

func (r *JSONResponse) Render(pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(r.Value, "", "  ")
	}
	return json.Marshal(r.Value)
}

// Error renders err as {"error": "..."}.
func Error(err error) *JSONResponse {
	return ErrorMessage(err.Error())
}

func ErrorMessage(msg string) *JSONResponse {
	return JSON(map[string]string{"error": msg})
}

// TextResponse is a plain text body.
type TextResponse struct {
	header *Header
	Text   string
}

func Text(format string, args ...any) *TextResponse {
	h := NewHeader()
	h.Set("Content-Type", "text/plain; charset=utf-8")
	return &TextResponse{header: h, Text: fmt.Sprintf(format, args...)}
}

func (r *TextResponse) Header() *Header { return r.header }

func (r *TextResponse) Render(bool) ([]byte, error) {
	return []byte(r.Text), nil
}
