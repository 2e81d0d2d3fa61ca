package mocks

// CallLog records arguments of calls to a mocked method.
type CallLog[T any] []T

func (l CallLog[T]) Times() uint {
	return uint(len(l))
}

// the last call, or zero value if not called.
func (l CallLog[T]) Last() T {
	if len(l) == 0 {
		return *new(T)
	}
	return l[len(l)-1]
}
