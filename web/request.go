package web

// Request is a parsed HTTP request. Params is a single flat map holding query,
// body and path parameters; later sources overwrite earlier ones.
type Request struct {
	ID         string
	RemoteAddr string

	Method string
	Path   string
	Target string // path including the query string, as received

	Header *Header
	Params map[string]string
	Body   []byte
}

func NewRequest(method, target string) *Request {
	path, _ := splitTarget(target)
	return &Request{
		Method: method,
		Path:   path,
		Target: target,
		Header: NewHeader(),
		Params: map[string]string{},
	}
}

// Param returns the named parameter or "".
func (r *Request) Param(name string) string {
	return r.Params[name]
}

func (r *Request) Lookup(name string) (string, bool) {
	v, ok := r.Params[name]
	return v, ok
}

func (r *Request) SetParam(name, value string) {
	if r.Params == nil {
		r.Params = map[string]string{}
	}
	r.Params[name] = value
}

// Invoker runs one handler operation against a controller instance.
type Invoker func(controller any, req *Request) (Response, error)
