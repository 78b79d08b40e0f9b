// Package try turns a (value, error) pair into something that can be
// unwrapped in a single expression.
//
//	conf := try.To(configs.Load(path)).OrFatal(logger)
package try

// Fataler is anything with a Fatal method, like *testing.T or *log.Logger.
type Fataler interface {
	Fatal(...any)
}

// Either holds a value or an error, not both.
type Either[T any] interface {
	// Get returns (value, nil) or (zero value, error).
	Get() (T, error)

	// OrFatal returns the value, or calls ftl.Fatal with the error.
	//
	// When ftl has a Helper method (like *testing.T), it is called first.
	OrFatal(ftl Fataler) T

	// OrDefault returns the value, or d when it holds an error.
	OrDefault(d T) T
}

func To[T any](value T, err error) Either[T] {
	if err == nil {
		return ok[T]{value: value}
	}
	return ng[T]{err: err}
}

// Map converts the value held by e. Errors are passed through.
func Map[T any, R any](e Either[T], mapper func(T) R) Either[R] {
	v, err := e.Get()
	if err != nil {
		return ng[R]{err: err}
	}
	return ok[R]{value: mapper(v)}
}

type ok[T any] struct {
	value T
}

func (o ok[T]) Get() (T, error)   { return o.value, nil }
func (o ok[T]) OrDefault(T) T     { return o.value }
func (o ok[T]) OrFatal(Fataler) T { return o.value }

type ng[T any] struct {
	err error
}

func (n ng[T]) Get() (T, error) { return *new(T), n.err }
func (n ng[T]) OrDefault(d T) T { return d }

func (n ng[T]) OrFatal(ftl Fataler) T {
	if h, isHelper := ftl.(interface{ Helper() }); isHelper {
		h.Helper()
	}
	ftl.Fatal(n.err)
	return *new(T)
}

// Either2 is Either for functions returning two values with an error.
type Either2[A any, B any] interface {
	Get() (A, B, error)
	OrFatal(ftl Fataler) (A, B)
}

func To2[A any, B any](a A, b B, err error) Either2[A, B] {
	return either2[A, B]{a: a, b: b, err: err}
}

type either2[A any, B any] struct {
	a   A
	b   B
	err error
}

func (e either2[A, B]) Get() (A, B, error) {
	if e.err != nil {
		return *new(A), *new(B), e.err
	}
	return e.a, e.b, nil
}

func (e either2[A, B]) OrFatal(ftl Fataler) (A, B) {
	if e.err == nil {
		return e.a, e.b
	}
	if h, isHelper := ftl.(interface{ Helper() }); isHelper {
		h.Helper()
	}
	ftl.Fatal(e.err)
	return *new(A), *new(B)
}
