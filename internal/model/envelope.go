package model

// Envelope is the fixed wrapper used for every /health and /bfhl response.
// Data is set only on success and Error only on failure; OfficialEmail is
// always present.
type Envelope struct {
	IsSuccess     bool   `json:"is_success"`
	OfficialEmail string `json:"official_email"`
	Data          any    `json:"data,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Health is the body of GET /health.
func Health(email string) Envelope {
	return Envelope{IsSuccess: true, OfficialEmail: email}
}

// Success wraps a kernel result.
func Success(email string, data any) Envelope {
	return Envelope{IsSuccess: true, OfficialEmail: email, Data: data}
}

// Failure wraps an error code.
func Failure(email string, code ErrorCode) Envelope {
	return Envelope{IsSuccess: false, OfficialEmail: email, Error: string(code)}
}

// NotFound is returned for unmatched routes. It deliberately does not use
// Envelope; clients depend on the {"detail": "Not Found"} shape.
type NotFound struct {
	Detail string `json:"detail"`
}

// NotFoundBody is the single NotFound value the service emits.
var NotFoundBody = NotFound{Detail: "Not Found"}
