package service

import (
	"fmt"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/bfhl-service/internal/model"
)

func bigs(vs ...int64) []*big.Int {
	out := make([]*big.Int, len(vs))
	for i, v := range vs {
		out[i] = big.NewInt(v)
	}
	return out
}

func bigFromString(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok, s)
	return v
}

// describe renders a request with its big.Int values as decimal strings, so
// requests compare by value rather than by internal representation.
func describe(r model.Request) string {
	return fmt.Sprintf("%T%v", r, r)
}

func TestParseValidRequests(t *testing.T) {
	p := NewParser()

	tests := []struct {
		name string
		body string
		want model.Request
	}{
		{"fibonacci", `{"fibonacci": 5}`, model.FibonacciRequest{N: 5}},
		{"fibonacci zero", `{"fibonacci": 0}`, model.FibonacciRequest{N: 0}},
		{"fibonacci upper bound", `{"fibonacci": 1000}`, model.FibonacciRequest{N: 1000}},
		{"fibonacci integral float", `{"fibonacci": 7.0}`, model.FibonacciRequest{N: 7}},
		{"fibonacci exponent", `{"fibonacci": 1e2}`, model.FibonacciRequest{N: 100}},
		{"prime", `{"prime": [2, 3, 4, 5, 9]}`, model.PrimeRequest{Values: bigs(2, 3, 4, 5, 9)}},
		{"prime empty", `{"prime": []}`, model.PrimeRequest{Values: []*big.Int{}}},
		{"prime negatives", `{"prime": [-3, 0, 1]}`, model.PrimeRequest{Values: bigs(-3, 0, 1)}},
		{"lcm", `{"lcm": [4, 6]}`, model.LCMRequest{Values: bigs(4, 6)}},
		{"hcf", `{"hcf": [12, 18]}`, model.HCFRequest{Values: bigs(12, 18)}},
		{"surrounding whitespace", " \n{\"hcf\":[9]}\n", model.HCFRequest{Values: bigs(9)}},
		{"int64 limits", `{"lcm": [9223372036854775807, -9223372036854775808]}`,
			model.LCMRequest{Values: bigs(9223372036854775807, -9223372036854775808)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, verr := p.Parse([]byte(tt.body))
			require.Nil(t, verr)
			assert.Equal(t, describe(tt.want), describe(got))
		})
	}
}

func TestParseIntegersBeyondInt64(t *testing.T) {
	p := NewParser()

	req, verr := p.Parse([]byte(`{"prime": [1e20, 2]}`))
	require.Nil(t, verr)
	prime, ok := req.(model.PrimeRequest)
	require.True(t, ok)
	require.Len(t, prime.Values, 2)
	assert.Equal(t, "100000000000000000000", prime.Values[0].String())
	assert.Equal(t, "2", prime.Values[1].String())

	req, verr = p.Parse([]byte(`{"prime": [18446744073709551617]}`))
	require.Nil(t, verr)
	assert.Equal(t, describe(model.PrimeRequest{Values: []*big.Int{bigFromString(t, "18446744073709551617")}}), describe(req))

	req, verr = p.Parse([]byte(`{"lcm": [10000000000000000000, -18446744073709551617]}`))
	require.Nil(t, verr)
	assert.Equal(t, "model.LCMRequest{[10000000000000000000 -18446744073709551617]}", describe(req))

	req, verr = p.Parse([]byte(`{"hcf": [1e20]}`))
	require.Nil(t, verr)
	hcf, ok := req.(model.HCFRequest)
	require.True(t, ok)
	assert.Equal(t, "100000000000000000000", hcf.Values[0].String())
}

func TestParseRejections(t *testing.T) {
	p := NewParser()

	tests := []struct {
		name string
		body string
		want model.ErrorCode
	}{
		{"empty body", ``, model.CodeInvalidJSON},
		{"null", `null`, model.CodeInvalidJSON},
		{"array", `[{"fibonacci": 1}]`, model.CodeInvalidJSON},
		{"scalar", `42`, model.CodeInvalidJSON},
		{"string", `"fibonacci"`, model.CodeInvalidJSON},
		{"malformed", `{"fibonacci": }`, model.CodeInvalidJSON},
		{"trailing garbage", `{"fibonacci": 1} x`, model.CodeInvalidJSON},

		{"no keys", `{}`, model.CodeExactlyOneKey},
		{"two keys", `{"a": 1, "b": 2}`, model.CodeExactlyOneKey},
		{"two valid keys", `{"lcm": [1], "hcf": [1]}`, model.CodeExactlyOneKey},

		{"unknown key", `{"factorial": 5}`, model.CodeInvalidKey},
		{"key is case sensitive", `{"Fibonacci": 5}`, model.CodeInvalidKey},

		{"fibonacci string", `{"fibonacci": "5"}`, model.CodeFibonacciInteger},
		{"fibonacci fraction", `{"fibonacci": 2.5}`, model.CodeFibonacciInteger},
		{"fibonacci bool", `{"fibonacci": true}`, model.CodeFibonacciInteger},
		{"fibonacci null", `{"fibonacci": null}`, model.CodeFibonacciInteger},
		{"fibonacci array", `{"fibonacci": [5]}`, model.CodeFibonacciInteger},
		{"fibonacci negative", `{"fibonacci": -1}`, model.CodeFibonacciBounds},
		{"fibonacci too large", `{"fibonacci": 1001}`, model.CodeFibonacciBounds},
		{"fibonacci beyond int64", `{"fibonacci": 99999999999999999999}`, model.CodeFibonacciBounds},
		{"fibonacci infinite exponent", `{"fibonacci": 1e400}`, model.CodeFibonacciInteger},
		{"fibonacci exponent beyond int64", `{"fibonacci": 1e20}`, model.CodeFibonacciBounds},
		{"fibonacci beyond integer range", `{"fibonacci": 1` + strings.Repeat("0", 400) + `}`, model.CodeFibonacciBounds},

		{"prime not array", `{"prime": 7}`, model.CodePrimeIntegerArray},
		{"prime null", `{"prime": null}`, model.CodePrimeIntegerArray},
		{"prime string element", `{"prime": [2, "3"]}`, model.CodePrimeIntegerArray},
		{"prime fraction element", `{"prime": [2, 3.5]}`, model.CodePrimeIntegerArray},
		{"prime nested array", `{"prime": [[2]]}`, model.CodePrimeIntegerArray},
		{"prime element infinite", `{"prime": [1e400]}`, model.CodePrimeIntegerArray},
		{"prime element beyond integer range", `{"prime": [` + strings.Repeat("9", 400) + `]}`, model.CodePrimeIntegerArray},

		{"lcm empty", `{"lcm": []}`, model.CodeLCMIntegerArray},
		{"lcm object", `{"lcm": {"a": 1}}`, model.CodeLCMIntegerArray},
		{"lcm bad element", `{"lcm": [4, false]}`, model.CodeLCMIntegerArray},

		{"hcf empty", `{"hcf": []}`, model.CodeHCFIntegerArray},
		{"hcf string", `{"hcf": "12,18"}`, model.CodeHCFIntegerArray},
		{"hcf null element", `{"hcf": [12, null]}`, model.CodeHCFIntegerArray},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, verr := p.Parse([]byte(tt.body))
			assert.Nil(t, got)
			require.NotNil(t, verr)
			assert.Equal(t, tt.want, verr.Code)
			assert.NotEmpty(t, verr.Reason)
		})
	}
}

func TestParseKeyCountCheckedBeforeKeyName(t *testing.T) {
	_, verr := NewParser().Parse([]byte(`{"x": 1, "y": 2, "z": 3}`))
	require.NotNil(t, verr)
	assert.Equal(t, model.CodeExactlyOneKey, verr.Code)
}

func TestIntegerValue(t *testing.T) {
	tests := []struct {
		raw   string
		want  string
		class intClass
	}{
		{`0`, "0", isInteger},
		{`-0`, "0", isInteger},
		{`42`, "42", isInteger},
		{`-42`, "-42", isInteger},
		{`4.000`, "4", isInteger},
		{`-2E3`, "-2000", isInteger},
		{`1e20`, "100000000000000000000", isInteger},
		{`1e-400`, "0", isInteger},
		{`9223372036854775808`, "9223372036854775808", isInteger},
		{`-18446744073709551617`, "-18446744073709551617", isInteger},
		{`0.5`, "", notInteger},
		{`1e400`, "", notInteger},
		{`"1"`, "", notInteger},
		{`false`, "", notInteger},
		{`null`, "", notInteger},
		{strings.Repeat("9", 400), "", integerTooLarge},
	}
	for _, tt := range tests {
		got, class := integerValue([]byte(tt.raw))
		assert.Equal(t, tt.class, class, tt.raw)
		if tt.class == isInteger {
			require.NotNil(t, got, tt.raw)
			assert.Equal(t, tt.want, got.String(), tt.raw)
		}
	}
}

func TestValidationErrorCarriesOperation(t *testing.T) {
	p := NewParser()

	_, verr := p.Parse([]byte(`{"fibonacci": -1}`))
	require.NotNil(t, verr)
	assert.Equal(t, model.OpFibonacci, verr.Operation)
	assert.Contains(t, verr.Error(), "fibonacci_out_of_bounds")

	_, verr = p.Parse([]byte(`{"hcf": []}`))
	require.NotNil(t, verr)
	assert.Equal(t, model.OpHCF, verr.Operation)

	_, verr = p.Parse([]byte(`{"nope": 1}`))
	require.NotNil(t, verr)
	assert.Empty(t, verr.Operation)
}
