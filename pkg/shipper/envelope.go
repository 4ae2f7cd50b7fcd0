package shipper

// Endpoint describes where and how a serialized request is transmitted.
type Endpoint struct {
	Method      string
	URL         string
	ContentType string
	Accept      string
	SOAPAction  string
	Headers     map[string]string

	// Basic auth credentials, applied by the transport when Username is set.
	Username string
	Password string

	// ErrorBodies marks carriers that report business errors with non-2xx
	// statuses. The transport then returns the body instead of failing so the
	// parser can turn it into messages, but only when the response is an XML
	// or JSON document of the same syntax as Accept (or ContentType). Other
	// bodies, such as a proxy's HTML error page, still fail the call.
	ErrorBodies bool
}

// Outbound is a request ready to be handed to a Transport.
type Outbound interface {
	Serialize() ([]byte, error)
	Target() Endpoint
}

// Serializable wraps a wire request value built now and serialized later.
// The serialize function must be a pure function of the value.
type Serializable[T any] struct {
	value     T
	serialize func(T) ([]byte, error)
	endpoint  Endpoint
}

// NewSerializable binds value to its serialization function and endpoint.
func NewSerializable[T any](value T, serialize func(T) ([]byte, error), endpoint Endpoint) *Serializable[T] {
	return &Serializable[T]{
		value:     value,
		serialize: serialize,
		endpoint:  endpoint,
	}
}

// Value returns the wrapped request value.
func (s *Serializable[T]) Value() T {
	return s.value
}

// Serialize renders the wrapped value to wire bytes.
func (s *Serializable[T]) Serialize() ([]byte, error) {
	return s.serialize(s.value)
}

// Target returns the endpoint the request is sent to.
func (s *Serializable[T]) Target() Endpoint {
	return s.endpoint
}

// Response is the raw output of executing a Request: Body for single calls,
// Steps for pipelines.
type Response struct {
	Body  []byte
	Steps *PipelineResponse
}

// Deserializable wraps a raw response received now and parsed later.
type Deserializable[T any] struct {
	raw   Response
	parse func(Response) (T, error)
}

// NewDeserializable binds a raw response to its parse function.
func NewDeserializable[T any](raw Response, parse func(Response) (T, error)) *Deserializable[T] {
	return &Deserializable[T]{raw: raw, parse: parse}
}

// Raw returns the unparsed response.
func (d *Deserializable[T]) Raw() Response {
	return d.raw
}

// Deserialize runs the bound parse function.
func (d *Deserializable[T]) Deserialize() (T, error) {
	return d.parse(d.raw)
}

// Parsed is the structured result of a Mapper's Parse method.
type Parsed[D any] struct {
	Details  D
	Messages []Message
}

// Bind wraps raw in a Deserializable parsed by one of a Mapper's Parse methods.
func Bind[D any](raw Response, parse func(Response) (D, []Message, error)) *Deserializable[Parsed[D]] {
	return NewDeserializable(raw, func(r Response) (Parsed[D], error) {
		details, msgs, err := parse(r)
		return Parsed[D]{Details: details, Messages: msgs}, err
	})
}

// Request is what a Mapper's Create methods return: a single Outbound call or
// a *Pipeline of dependent calls.
type Request interface {
	request()
}

func (s *Serializable[T]) request() {}

func (p *Pipeline) request() {}
