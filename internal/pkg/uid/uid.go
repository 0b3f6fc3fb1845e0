// Package uid provides unique identifier generators behind small interfaces.
package uid

// NumberID generates numeric identifiers.
type NumberID interface {
	Generate() int64
}

// StringID generates string identifiers.
type StringID interface {
	Generate() string
}
