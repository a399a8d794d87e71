// Package options provides generic functional-option plumbing shared by the
// container constructors.
package options

// Option configures a target of type T and may reject invalid settings.
type Option[T any] func(T) error

// New wraps a fallible configuration function as an Option.
func New[T any](fn func(T) error) Option[T] {
	return fn
}

// NoError wraps a configuration function that cannot fail.
func NoError[T any](fn func(T)) Option[T] {
	return func(target T) error {
		fn(target)
		return nil
	}
}

// Apply runs opts against target in order, stopping at the first error.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if err := opt(target); err != nil {
			return err
		}
	}

	return nil
}
