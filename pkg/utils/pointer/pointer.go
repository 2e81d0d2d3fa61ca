package pointer

func Ref[T any](t T) *T {
	return &t
}

// SafeDeref returns the zero value for nil.
func SafeDeref[T any](val *T) T {
	if val == nil {
		return *new(T)
	}
	return *val
}

// Map applies f to the pointee. nil stays nil.
func Map[T, R any](val *T, f func(T) R) *R {
	if val == nil {
		return nil
	}
	return Ref(f(*val))
}

// NonZero is nil for the zero value, or a pointer to val otherwise.
func NonZero[T comparable](val T) *T {
	if val == *new(T) {
		return nil
	}
	return &val
}
