package respond

import (
	"encoding/json"
	"net/http"
)

// Envelope statuses carried in every JSON body.
const (
	StatusSuccess           = "success"
	StatusError             = "error"
	StatusValidationFailure = "validationFailure"
)

// Envelope is the structured JSON body returned by every auth and
// session operation. Payload fields are flattened into the top-level
// object alongside "status".
type Envelope struct {
	Status       string
	ErrorCode    string
	ErrorMessage string
	Payload      map[string]any
}

func (e Envelope) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(e.Payload)+3)
	for k, v := range e.Payload {
		m[k] = v
	}
	m["status"] = e.Status
	if e.ErrorCode != "" {
		m["errorCode"] = e.ErrorCode
	}
	if e.ErrorMessage != "" {
		m["errorMessage"] = e.ErrorMessage
	}
	return json.Marshal(m)
}

func (e *Envelope) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if s, ok := m["status"].(string); ok {
		e.Status = s
	}
	if s, ok := m["errorCode"].(string); ok {
		e.ErrorCode = s
	}
	if s, ok := m["errorMessage"].(string); ok {
		e.ErrorMessage = s
	}
	delete(m, "status")
	delete(m, "errorCode")
	delete(m, "errorMessage")
	e.Payload = m
	return nil
}

// Response is the outcome of an auth or session operation: either a
// redirect or a JSON envelope, optionally carrying cookies to set.
// Route handlers relay it with Write and never shape bodies themselves.
type Response struct {
	Code     int
	Location string // non-empty means redirect
	Body     *Envelope
	cookies  []*http.Cookie
}

// Success builds a 2xx envelope response with the given payload.
func Success(code int, payload map[string]any) *Response {
	return &Response{
		Code: code,
		Body: &Envelope{Status: StatusSuccess, Payload: payload},
	}
}

// Error builds a non-2xx error envelope response.
func Error(code int, errorCode, message string) *Response {
	return &Response{
		Code: code,
		Body: &Envelope{
			Status:       StatusError,
			ErrorCode:    errorCode,
			ErrorMessage: message,
		},
	}
}

// ValidationFailure builds a 400 envelope for malformed input,
// detected before any provider or session call.
func ValidationFailure(errorCode, message string) *Response {
	return &Response{
		Code: http.StatusBadRequest,
		Body: &Envelope{
			Status:       StatusValidationFailure,
			ErrorCode:    errorCode,
			ErrorMessage: message,
		},
	}
}

// Redirect builds a 302 response to the given location.
func Redirect(location string) *Response {
	return &Response{
		Code:     http.StatusFound,
		Location: location,
	}
}

// AddCookie attaches a Set-Cookie header to the response.
func (r *Response) AddCookie(c *http.Cookie) *Response {
	r.cookies = append(r.cookies, c)
	return r
}

// Cookies returns the cookies attached so far.
func (r *Response) Cookies() []*http.Cookie {
	return r.cookies
}

// IsSuccess reports whether the response carries a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.Code >= 200 && r.Code < 300
}

// Write relays the response to the client. Redirects and 204 responses
// are written without a body.
func (r *Response) Write(w http.ResponseWriter) {
	for _, c := range r.cookies {
		http.SetCookie(w, c)
	}
	if r.Location != "" {
		w.Header().Set("Location", r.Location)
		w.WriteHeader(r.Code)
		return
	}
	if r.Code == http.StatusNoContent || r.Body == nil {
		w.WriteHeader(r.Code)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(r.Code)
	_ = json.NewEncoder(w).Encode(r.Body)
}
