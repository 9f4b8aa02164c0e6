package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/bfhl-service/internal/model"
)

// ValidationError describes why a /bfhl body was rejected. Code is what the
// client sees; Reason is for logs only. Operation is empty when the body was
// rejected before its key was recognised.
type ValidationError struct {
	Code      model.ErrorCode
	Reason    string
	Operation model.Operation
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Reason)
}

func reject(code model.ErrorCode, format string, args ...any) *ValidationError {
	return &ValidationError{Code: code, Reason: fmt.Sprintf(format, args...)}
}

// Parser turns raw request bodies into model.Request values.
type Parser struct {
	validate *validator.Validate
}

// NewParser returns a Parser backed by a fresh validator instance.
func NewParser() *Parser {
	return &Parser{validate: validator.New()}
}

// Parse checks body against the request rules and returns the first failure
// only. The checks run in a fixed order: object shape, key count, key name,
// then the per-key value constraints.
func (p *Parser) Parse(body []byte) (model.Request, *ValidationError) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, reject(model.CodeInvalidJSON, "body is not a JSON object")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, reject(model.CodeInvalidJSON, "decode body: %v", err)
	}
	if len(fields) != 1 {
		return nil, reject(model.CodeExactlyOneKey, "got %d keys", len(fields))
	}

	var key string
	var raw json.RawMessage
	for k, v := range fields {
		key, raw = k, v
	}
	op, ok := model.ParseOperation(key)
	if !ok {
		return nil, reject(model.CodeInvalidKey, "unknown key %q", key)
	}

	req, verr := p.parseValue(op, raw)
	if verr != nil {
		verr.Operation = op
		return nil, verr
	}
	return req, nil
}

func (p *Parser) parseValue(op model.Operation, raw json.RawMessage) (model.Request, *ValidationError) {
	switch op {
	case model.OpFibonacci:
		return p.parseFibonacci(raw)
	case model.OpPrime:
		values, ok := integerArray(raw)
		if !ok {
			return nil, reject(model.CodePrimeIntegerArray, "prime value is not an integer array")
		}
		return model.PrimeRequest{Values: values}, nil
	case model.OpLCM:
		values, ok := integerArray(raw)
		if !ok {
			return nil, reject(model.CodeLCMIntegerArray, "lcm value is not an integer array")
		}
		req := model.LCMRequest{Values: values}
		if err := p.validate.Struct(req); err != nil {
			return nil, reject(model.CodeLCMIntegerArray, "%v", err)
		}
		return req, nil
	case model.OpHCF:
		values, ok := integerArray(raw)
		if !ok {
			return nil, reject(model.CodeHCFIntegerArray, "hcf value is not an integer array")
		}
		req := model.HCFRequest{Values: values}
		if err := p.validate.Struct(req); err != nil {
			return nil, reject(model.CodeHCFIntegerArray, "%v", err)
		}
		return req, nil
	}
	return nil, reject(model.CodeInvalidKey, "unhandled operation %q", op)
}

func (p *Parser) parseFibonacci(raw json.RawMessage) (model.Request, *ValidationError) {
	n, class := integerValue(raw)
	switch class {
	case notInteger:
		return nil, reject(model.CodeFibonacciInteger, "fibonacci value %s is not an integer", raw)
	case integerTooLarge:
		return nil, reject(model.CodeFibonacciBounds, "fibonacci value %.32s... is too large", raw)
	}
	if !n.IsInt64() {
		return nil, reject(model.CodeFibonacciBounds, "fibonacci value %s exceeds int64", raw)
	}
	req := model.FibonacciRequest{N: n.Int64()}
	if err := p.validate.Struct(req); err != nil {
		return nil, reject(model.CodeFibonacciBounds, "%v", err)
	}
	return req, nil
}

// maxIntegerBits bounds integers written as plain digit strings. It matches
// the float64 range, the largest magnitude a number with a fraction or
// exponent can reach.
const maxIntegerBits = 1024

type intClass int

const (
	notInteger intClass = iota
	isInteger
	integerTooLarge
)

// integerValue classifies a raw JSON value. Only JSON numbers qualify, so
// "5" and true are rejected. Plain digit strings are read exactly; numbers
// with a fraction or exponent are read as float64 and accepted when their
// value is integral, so 5.0 and 1e20 are integers while 2.5 and 1e400 are not.
func integerValue(raw json.RawMessage) (*big.Int, intClass) {
	if len(raw) == 0 || (raw[0] != '-' && (raw[0] < '0' || raw[0] > '9')) {
		return nil, notInteger
	}
	text := string(raw)
	if !strings.ContainsAny(text, ".eE") {
		n, ok := new(big.Int).SetString(text, 10)
		if !ok {
			return nil, notInteger
		}
		if n.BitLen() > maxIntegerBits {
			return nil, integerTooLarge
		}
		return n, isInteger
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsInf(f, 0) || math.Trunc(f) != f {
		return nil, notInteger
	}
	n, _ := big.NewFloat(f).Int(nil)
	return n, isInteger
}

// integerArray decodes raw as an array of integers. The returned slice is
// never nil on success.
func integerArray(raw json.RawMessage) ([]*big.Int, bool) {
	if len(raw) == 0 || raw[0] != '[' {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	values := make([]*big.Int, 0, len(items))
	for _, item := range items {
		v, class := integerValue(item)
		if class != isInteger {
			return nil, false
		}
		values = append(values, v)
	}
	return values, true
}
