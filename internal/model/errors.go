package model

// ErrorCode is the machine readable value of Envelope.Error.
type ErrorCode string

const (
	CodeInvalidJSON       ErrorCode = "invalid_json"
	CodeExactlyOneKey     ErrorCode = "request_must_contain_exactly_one_key"
	CodeInvalidKey        ErrorCode = "invalid_key"
	CodeFibonacciInteger  ErrorCode = "fibonacci_must_be_integer"
	CodeFibonacciBounds   ErrorCode = "fibonacci_out_of_bounds"
	CodePrimeIntegerArray ErrorCode = "prime_must_be_integer_array"
	CodeLCMIntegerArray   ErrorCode = "lcm_must_be_nonempty_integer_array"
	CodeHCFIntegerArray   ErrorCode = "hcf_must_be_nonempty_integer_array"
	CodePayloadTooLarge   ErrorCode = "payload_too_large"
	CodeInternal          ErrorCode = "internal_server_error"
)
