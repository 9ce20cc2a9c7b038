package serverfn

// Encoding selects how a server function's argument and result travel
// over the wire.
type Encoding int

const (
	// EncodingURL posts the argument as a form-encoded body and
	// returns JSON.
	EncodingURL Encoding = iota
	// EncodingJSON posts the argument as a JSON body and returns JSON.
	EncodingJSON
	// EncodingCbor posts the argument as a CBOR body and returns CBOR.
	EncodingCbor
	// EncodingGetJSON passes the argument in the query string and
	// returns JSON. GET requests are cacheable.
	EncodingGetJSON
	// EncodingGetCbor passes the argument in the query string and
	// returns CBOR.
	EncodingGetCbor
)

func (e Encoding) String() string {
	switch e {
	case EncodingURL:
		return "url"
	case EncodingJSON:
		return "json"
	case EncodingCbor:
		return "cbor"
	case EncodingGetJSON:
		return "get-json"
	case EncodingGetCbor:
		return "get-cbor"
	default:
		return "unknown"
	}
}

// Method returns the HTTP method requests with this encoding use.
func (e Encoding) Method() string {
	switch e {
	case EncodingGetJSON, EncodingGetCbor:
		return "GET"
	default:
		return "POST"
	}
}

// contentType returns the response Content-Type for this encoding.
func (e Encoding) contentType() string {
	switch e {
	case EncodingCbor, EncodingGetCbor:
		return "application/cbor"
	default:
		return "application/json"
	}
}
