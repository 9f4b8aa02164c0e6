package model

import "math/big"

// Operation names the single key of a /bfhl request.
type Operation string

const (
	OpFibonacci Operation = "fibonacci"
	OpPrime     Operation = "prime"
	OpLCM       Operation = "lcm"
	OpHCF       Operation = "hcf"
)

// Operations lists every accepted request key.
var Operations = []Operation{OpFibonacci, OpPrime, OpLCM, OpHCF}

// ParseOperation maps a request key to its Operation.
func ParseOperation(key string) (Operation, bool) {
	for _, op := range Operations {
		if string(op) == key {
			return op, true
		}
	}
	return "", false
}

// Request is a validated /bfhl request. The set of implementations is closed:
// FibonacciRequest, PrimeRequest, LCMRequest and HCFRequest.
//
// The validate tags are checked by the parser after the value has been
// decoded into its concrete shape.
type Request interface {
	Operation() Operation
	// InputSize is the number of integers carried by the request.
	InputSize() int
	isRequest()
}

// FibonacciRequest asks for the first N Fibonacci terms.
type FibonacciRequest struct {
	N int64 `validate:"gte=0,lte=1000"`
}

// PrimeRequest asks for the primes among Values. Values may be empty.
// Array values are arbitrary precision integers.
type PrimeRequest struct {
	Values []*big.Int
}

// LCMRequest asks for the least common multiple of Values.
type LCMRequest struct {
	Values []*big.Int `validate:"min=1"`
}

// HCFRequest asks for the highest common factor of Values.
type HCFRequest struct {
	Values []*big.Int `validate:"min=1"`
}

func (FibonacciRequest) Operation() Operation { return OpFibonacci }
func (PrimeRequest) Operation() Operation     { return OpPrime }
func (LCMRequest) Operation() Operation       { return OpLCM }
func (HCFRequest) Operation() Operation       { return OpHCF }

func (FibonacciRequest) InputSize() int { return 1 }
func (r PrimeRequest) InputSize() int   { return len(r.Values) }
func (r LCMRequest) InputSize() int     { return len(r.Values) }
func (r HCFRequest) InputSize() int     { return len(r.Values) }

func (FibonacciRequest) isRequest() {}
func (PrimeRequest) isRequest()     {}
func (LCMRequest) isRequest()       {}
func (HCFRequest) isRequest()       {}
