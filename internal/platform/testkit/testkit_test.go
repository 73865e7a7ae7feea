package testkit

import "testing"

func TestMustPanicAndNotPanic(t *testing.T) {
	MustPanic(t, func() { panic("boom") })
	MustNotPanic(t, func() {})
}

func TestMustContain(t *testing.T) {
	MustContain(t, "predicted inflow 13.0", "13.0")
}

func TestCloseTo(t *testing.T) {
	CloseTo(t, 13.0000001, 13.0, 1e-6)
	CloseTo(t, 32, 32, 0)
}
