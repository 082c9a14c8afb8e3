package web

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	statusLine = "HTTP/1.1 200 OK"
	crlf       = "\r\n"
)

var knownMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "PATCH": true,
	"DELETE": true, "HEAD": true, "OPTIONS": true,
}

var bodyMethods = map[string]bool{"POST": true, "PUT": true, "PATCH": true}

// DefaultMaxBodyBytes bounds request bodies when no limit is given.
const DefaultMaxBodyBytes int64 = 1 << 20

// ReadRequest parses one request from r. It returns io.EOF, and no request,
// when the peer closed the stream before sending anything. Bodies longer than
// maxBody are rejected; maxBody <= 0 selects DefaultMaxBodyBytes.
func ReadRequest(r *bufio.Reader, maxBody int64) (*Request, error) {
	line, err := readLine(r)
	if err != nil {
		if errors.Is(err, io.EOF) && line == "" {
			return nil, io.EOF
		}
		if !errors.Is(err, io.EOF) {
			return nil, err
		}
	}

	parts := strings.Fields(line)
	if len(parts) < 2 {
		return nil, malformed(fmt.Sprintf("request line %q", line), nil)
	}
	method := parts[0]
	if !knownMethods[method] {
		return nil, malformed("unsupported method "+method, nil)
	}

	req := NewRequest(method, parts[1])
	_, rawQuery := splitTarget(parts[1])
	if err := mergeForm(req, rawQuery); err != nil {
		return nil, malformed("query string", err)
	}

	if err := readHeaders(r, req.Header); err != nil {
		return nil, err
	}

	if !bodyMethods[method] {
		return req, nil
	}
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	if err := readBody(r, req, maxBody); err != nil {
		return nil, err
	}
	return req, nil
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	return strings.TrimRight(line, "\r\n"), err
}

func readHeaders(r *bufio.Reader, h *Header) error {
	for {
		line, err := readLine(r)
		if err != nil && (line != "" || !errors.Is(err, io.EOF)) {
			return malformed("header section", err)
		}
		if line == "" {
			return nil
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		h.Add(strings.TrimSpace(name), strings.TrimSpace(value))
	}
}

func readBody(r *bufio.Reader, req *Request, maxBody int64) error {
	raw, ok := req.Header.Lookup("Content-Length")
	if !ok {
		return nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n < 0 {
		return malformed("content length "+raw, err)
	}
	if n > maxBody {
		return malformed(fmt.Sprintf("content length %d exceeds limit of %d bytes", n, maxBody), nil)
	}

	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return malformed("body shorter than content length", err)
	}
	req.Body = body

	if strings.Contains(strings.ToLower(req.Header.Get("Content-Type")), "application/json") {
		params, err := FlattenJSON(body)
		if err != nil {
			return malformed("json body", err)
		}
		for k, v := range params {
			req.SetParam(k, v)
		}
		return nil
	}

	if err := mergeForm(req, string(body)); err != nil {
		return malformed("form body", err)
	}
	return nil
}

func splitTarget(target string) (path, rawQuery string) {
	path, rawQuery, _ = strings.Cut(target, "?")
	return path, rawQuery
}

func mergeForm(req *Request, encoded string) error {
	if encoded == "" {
		return nil
	}
	values, err := url.ParseQuery(encoded)
	if err != nil {
		return err
	}
	for k, v := range values {
		if len(v) > 0 {
			req.SetParam(k, v[0])
		}
	}
	return nil
}

// FlattenJSON turns the top-level scalar members of a JSON object into
// strings. Whole numbers are written without a fractional part; nested
// objects, arrays and nulls are skipped.
func FlattenJSON(body []byte) (map[string]string, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.New("body is not a JSON object")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after JSON object")
	}

	out := make(map[string]string, len(doc))
	for k, v := range doc {
		switch val := v.(type) {
		case string:
			out[k] = val
		case bool:
			out[k] = strconv.FormatBool(val)
		case json.Number:
			out[k] = numberText(val)
		}
	}
	return out, nil
}

func numberText(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	f, err := n.Float64()
	if err != nil {
		return n.String()
	}
	if f == math.Trunc(f) && math.Abs(f) < 1<<63 {
		return strconv.FormatInt(int64(f), 10)
	}
	return n.String()
}

// WriteResponse writes res as a complete HTTP/1.1 response. The status line
// is always 200 OK; Content-Length is computed from the rendered body.
func WriteResponse(w io.Writer, res Response, pretty bool) error {
	body, err := res.Render(pretty)
	if err != nil {
		return err
	}

	h := res.Header().Clone()
	h.Set("Content-Length", strconv.Itoa(len(body)))
	if _, ok := h.Lookup("Connection"); !ok {
		h.Set("Connection", "close")
	}

	bw := bufio.NewWriter(w)
	bw.WriteString(statusLine + crlf)
	h.Each(func(name, value string) {
		bw.WriteString(name + ": " + value + crlf)
	})
	bw.WriteString(crlf)
	bw.Write(body)
	return bw.Flush()
}
