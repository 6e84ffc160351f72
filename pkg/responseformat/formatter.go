// Package responseformat encodes HTTP responses as JSON or MessagePack.
//
// JSON is the default. Clients ask for MessagePack with ?format=msgpack;
// struct json tags drive both encodings so the two formats always carry
// the same field names.
package responseformat

import (
	"encoding/json"
	"net/http"

	"github.com/vmihailenco/msgpack/v5"
)

// Formatter handles encoding and writing responses in JSON or MessagePack format
type Formatter struct {
	enableCORS bool
}

// NewFormatter creates a new response formatter. When enableCORS is set,
// every response carries Access-Control-Allow-Origin: *.
func NewFormatter(enableCORS bool) *Formatter {
	return &Formatter{enableCORS: enableCORS}
}

// WriteResponse writes data in the format the request asked for with a
// 200 status. Any provided headers are set before the body is written.
func (f *Formatter) WriteResponse(w http.ResponseWriter, req *http.Request, data any, headers map[string]string) error {
	for k, v := range headers {
		w.Header().Set(k, v)
	}
	f.setCommonHeaders(w)

	if wantsMsgPack(req) {
		return f.writeMsgPack(w, http.StatusOK, data)
	}
	return f.writeJSON(w, http.StatusOK, data)
}

// WriteError writes payload in the requested format with the given HTTP
// status. Handlers use it for structured error bodies such as solver
// conflict reports.
func (f *Formatter) WriteError(w http.ResponseWriter, req *http.Request, status int, payload any) error {
	f.setCommonHeaders(w)

	if wantsMsgPack(req) {
		return f.writeMsgPack(w, status, payload)
	}
	return f.writeJSON(w, status, payload)
}

func (f *Formatter) setCommonHeaders(w http.ResponseWriter) {
	if f.enableCORS {
		w.Header().Set("Access-Control-Allow-Origin", "*")
	}
}

func wantsMsgPack(req *http.Request) bool {
	return req.URL.Query().Get("format") == "msgpack"
}

func (f *Formatter) writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

func (f *Formatter) writeMsgPack(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/x-msgpack")
	w.WriteHeader(status)
	encoder := msgpack.NewEncoder(w)
	encoder.SetCustomStructTag("json") // json tags drive both encodings
	return encoder.Encode(data)
}

// ErrorResponse is the generic error body for endpoints without a more
// specific payload.
type ErrorResponse struct {
	Error string `json:"error"`
}
