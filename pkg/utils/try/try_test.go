package try_test

import (
	"errors"
	"testing"

	"github.com/smartbiz-gst/smartbiz/pkg/utils/try"
)

type fataler struct {
	fatal  [][]any
	helper uint
}

func (f *fataler) Fatal(args ...any) {
	f.fatal = append(f.fatal, args)
}

func (f *fataler) Helper() {
	f.helper++
}

func TestTo(t *testing.T) {
	fakeErr := errors.New("fake")

	type when struct {
		value int
		err   error
	}
	type then struct {
		value  int
		err    error
		fatals int
	}

	for name, testcase := range map[string]struct {
		when
		then
	}{
		"ok": {
			when{value: 42},
			then{value: 42},
		},
		"ng": {
			when{value: 42, err: fakeErr},
			then{value: 0, err: fakeErr, fatals: 1},
		},
	} {
		t.Run(name, func(t *testing.T) {
			testee := try.To(testcase.when.value, testcase.when.err)

			value, err := testee.Get()
			if value != testcase.then.value || !errors.Is(err, testcase.then.err) {
				t.Errorf("Get: (%d, %v), expected (%d, %v)", value, err, testcase.then.value, testcase.then.err)
			}

			f := &fataler{}
			if got := testee.OrFatal(f); got != testcase.then.value {
				t.Errorf("OrFatal: %d, expected %d", got, testcase.then.value)
			}
			if len(f.fatal) != testcase.then.fatals || int(f.helper) != testcase.then.fatals {
				t.Errorf("Fatal called %d times, Helper %d times", len(f.fatal), f.helper)
			}
			if 0 < len(f.fatal) && !errors.Is(f.fatal[0][0].(error), fakeErr) {
				t.Errorf("Fatal with %v", f.fatal[0])
			}
		})
	}
}
