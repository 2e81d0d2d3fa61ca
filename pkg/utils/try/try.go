// Package try turns (T, error) pairs into values, failing fast on errors.
//
//	pool := try.To(kpg.New(ctx, conf)).OrFatal(logger)
package try

// Fataler is *testing.T, or a logger which exits on Fatal.
type Fataler interface {
	Fatal(...any)
}

// Either is a pair of (T, error). It is "ok" when the error is nil.
type Either[T any] interface {
	// Get returns (value, nil) if ok, or (zero value, error) otherwise.
	Get() (T, error)

	// OrFatal returns the value if ok. Otherwise, it calls ftl.Fatal(err).
	//
	// When ftl has Helper() (like *testing.T), that is called first.
	OrFatal(ftl Fataler) T
}

func To[T any](ok T, ng error) Either[T] {
	if ng == nil {
		return tryOk[T]{ok}
	}
	return tryNg[T]{ng}
}

type tryOk[T any] struct {
	value T
}

func (ok tryOk[T]) Get() (T, error) {
	return ok.value, nil
}

func (ok tryOk[T]) OrFatal(Fataler) T {
	return ok.value
}

type tryNg[T any] struct {
	err error
}

func (ng tryNg[T]) Get() (T, error) {
	return *new(T), ng.err
}

func (ng tryNg[T]) OrFatal(ftl Fataler) T {
	if hlp, ok := ftl.(interface{ Helper() }); ok {
		hlp.Helper()
	}
	ftl.Fatal(ng.err)
	return *new(T)
}
