// Package numeric holds the pure integer kernels behind the /bfhl endpoint:
// prime filtering, gcd/lcm folds and Fibonacci generation. Array kernels work
// on arbitrary precision integers, so none of them can overflow.
package numeric

import (
	"math/big"
)

// millerRabinRounds is passed to big.Int.ProbablyPrime for values outside
// int64. ProbablyPrime is exact for inputs below 2^64.
const millerRabinRounds = 20

// IsPrime reports whether n is prime. Negative numbers, 0 and 1 are not.
func IsPrime(n int64) bool {
	if n <= 1 {
		return false
	}
	if n <= 3 {
		return true
	}
	if n%2 == 0 {
		return false
	}
	// i <= n/i instead of i*i <= n so large n cannot overflow the bound
	for i := int64(3); i <= n/i; i += 2 {
		if n%i == 0 {
			return false
		}
	}
	return true
}

// IsPrimeBig is IsPrime for any integer. Values that fit in int64 take the
// trial division path; larger ones use Baillie-PSW plus Miller-Rabin.
func IsPrimeBig(n *big.Int) bool {
	if n.IsInt64() {
		return IsPrime(n.Int64())
	}
	if n.Sign() <= 0 {
		return false
	}
	return n.ProbablyPrime(millerRabinRounds)
}

// FilterPrimes returns the primes of values in their original order.
func FilterPrimes(values []*big.Int) []*big.Int {
	out := make([]*big.Int, 0, len(values))
	for _, v := range values {
		if IsPrimeBig(v) {
			out = append(out, v)
		}
	}
	return out
}

// GCD is the non-negative greatest common divisor of a and b. GCD(0, 0) is 0.
func GCD(a, b *big.Int) *big.Int {
	return new(big.Int).GCD(nil, nil, a, b)
}

// LCM is the non-negative least common multiple of a and b, or 0 when either
// operand is 0.
func LCM(a, b *big.Int) *big.Int {
	if a.Sign() == 0 || b.Sign() == 0 {
		return new(big.Int)
	}
	r := new(big.Int).Quo(a, GCD(a, b))
	r.Mul(r, b)
	return r.Abs(r)
}

// LCMOf folds LCM over values starting from 1, so an empty slice yields 1.
func LCMOf(values []*big.Int) *big.Int {
	acc := big.NewInt(1)
	for _, v := range values {
		acc = LCM(acc, v)
	}
	return acc
}

// HCFOf folds GCD over values using the first element as the seed. A single
// element is returned as is, sign included. An empty slice yields 0.
func HCFOf(values []*big.Int) *big.Int {
	if len(values) == 0 {
		return new(big.Int)
	}
	acc := new(big.Int).Set(values[0])
	for _, v := range values[1:] {
		acc = GCD(acc, v)
	}
	return acc
}

// Fibonacci returns the first n terms of 0, 1, 1, 2, 3, 5, ...
func Fibonacci(n int) []*big.Int {
	if n <= 0 {
		return []*big.Int{}
	}
	seq := make([]*big.Int, 0, n)
	seq = append(seq, big.NewInt(0))
	if n == 1 {
		return seq
	}
	seq = append(seq, big.NewInt(1))
	for len(seq) < n {
		k := len(seq)
		seq = append(seq, new(big.Int).Add(seq[k-1], seq[k-2]))
	}
	return seq
}
