package id

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
)

// MaxAttempts bounds how many numbers Unique draws before giving up.
const MaxAttempts = 10

var ErrExhausted = errors.New("id: no free number after max attempts")

// AccountNumber returns 10 random digits.
func AccountNumber() string { return Digits(10) }

// LoanNumber returns "LN" followed by 8 random digits.
func LoanNumber() string { return "LN" + Digits(8) }

// TransactionNumber returns "TXN" followed by 10 random digits.
func TransactionNumber() string { return "TXN" + Digits(10) }

// Digits returns n ASCII digits drawn from crypto/rand.
func Digits(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	for i := range b {
		// 250 is the largest multiple of 10 below 256; re-draw above it to stay uniform
		for b[i] >= 250 {
			var one [1]byte
			_, _ = rand.Read(one[:])
			b[i] = one[0]
		}
		b[i] = '0' + b[i]%10
	}
	return string(b)
}

// Unique draws from next until taken reports a free value.
func Unique(ctx context.Context, next func() string, taken func(ctx context.Context, v string) (bool, error)) (string, error) {
	for i := 0; i < MaxAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		v := next()
		used, err := taken(ctx, v)
		if err != nil {
			return "", fmt.Errorf("id: uniqueness check: %w", err)
		}
		if !used {
			return v, nil
		}
	}
	return "", ErrExhausted
}
