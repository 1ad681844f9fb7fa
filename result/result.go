// Package result implements the two-variant Result[T, E] sum type used
// throughout attestor in place of exception-driven construction.
package result

// Result is Ok(T) | Err(E). The zero value is neither — always construct
// via Ok or Err.
type Result[T any, E error] struct {
	value T
	err   E
	ok    bool
}

// Ok wraps a successful value.
func Ok[T any, E error](v T) Result[T, E] {
	return Result[T, E]{value: v, ok: true}
}

// Err wraps a failure.
func Err[T any, E error](e E) Result[T, E] {
	return Result[T, E]{err: e, ok: false}
}

// IsOk reports whether the result holds a value.
func (r Result[T, E]) IsOk() bool { return r.ok }

// IsErr reports whether the result holds an error.
func (r Result[T, E]) IsErr() bool { return !r.ok }

// Unwrap returns the wrapped value and panics if the result is an Err.
// Reserved for call sites that have already established the invariant
// holds (tests, or code downstream of an IsOk check) — never used to
// paper over a recoverable error path.
func (r Result[T, E]) Unwrap() T {
	if !r.ok {
		panic(any(r.err))
	}
	return r.value
}

// UnwrapErr returns the wrapped error and panics if the result is Ok.
func (r Result[T, E]) UnwrapErr() E {
	if r.ok {
		panic("result: UnwrapErr called on Ok value")
	}
	return r.err
}

// Get returns (value, error) — the idiomatic Go shape, for callers that
// don't want to carry the Result type past a boundary.
func (r Result[T, E]) Get() (T, E) {
	return r.value, r.err
}

// Map transforms the Ok value, passing through Err unchanged.
func Map[T, U any, E error](r Result[T, E], f func(T) U) Result[U, E] {
	if r.IsErr() {
		return Err[U](r.err)
	}
	return Ok[U, E](f(r.value))
}

// AndThen chains a fallible continuation onto an Ok value.
func AndThen[T, U any, E error](r Result[T, E], f func(T) Result[U, E]) Result[U, E] {
	if r.IsErr() {
		return Err[U](r.err)
	}
	return f(r.value)
}
