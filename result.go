package docbase

// Error codes used in the Result envelope (spec.md §6/§7).
const (
	CodeInvalid  = 400
	CodeNotFound = 404
	CodeConflict = 409
	CodeInternal = 500
)

// Error is the envelope's error payload.
type Error struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func (e *Error) Error() string { return e.Message }

// Result is the stable shape every public Engine operation returns; a
// transport adapter, if one exists, serializes this directly
// (spec.md §6: "the stable shape a transport adapter serializes").
type Result struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Error   *Error      `json:"error"`
}

func ok(data interface{}) *Result {
	return &Result{Success: true, Data: data}
}

func fail(code int, err error) *Result {
	return &Result{Success: false, Data: nil, Error: &Error{Message: err.Error(), Code: code}}
}
