// Package args adapts parser functions to flag.Value.
package args

// Adapter is a flag.Value which holds a parsed T.
type Adapter[T interface{ String() string }] struct {
	value  T
	parser func(string) (T, error)
	isSet  bool
}

func (i *Adapter[T]) String() string {
	if i.isSet {
		return i.value.String()
	}
	return ""
}

func (i *Adapter[T]) Set(s string) error {
	v, err := i.parser(s)
	if err != nil {
		return err
	}
	i.isSet = true
	i.value = v
	return nil
}

// Value returns the parsed value, or zero value when it is not set.
func (i Adapter[T]) Value() T {
	return i.value
}

// ValueOr returns the parsed value, or d when it is not set.
func (i Adapter[T]) ValueOr(d T) T {
	if !i.isSet {
		return d
	}
	return i.value
}

func (i Adapter[T]) IsSet() bool {
	return i.isSet
}

func Parser[T interface{ String() string }](parser func(string) (T, error)) *Adapter[T] {
	return &Adapter[T]{parser: parser}
}
