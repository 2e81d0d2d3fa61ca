// Package args adapts parser functions into command line flag values.
package args

// Adapter is a flag value (for both of "flag" and cobra/pflag) parsed by a function.
type Adapter[T interface{ String() string }] struct {
	value    T
	parser   func(string) (T, error)
	typename string
	isSet    bool
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

// Type is the name of the value shown in usage.
func (i *Adapter[T]) Type() string {
	return i.typename
}

func (i *Adapter[T]) Value() T {
	return i.value
}

func (i *Adapter[T]) IsSet() bool {
	return i.isSet
}

// Parser creates an Adapter named typename, parsing values with parser.
func Parser[T interface{ String() string }](typename string, parser func(string) (T, error)) *Adapter[T] {
	return &Adapter[T]{parser: parser, typename: typename}
}
