package testkit

import "testing"

var nowWeek = func() int { return 7 }

func TestSwap_RestoresAfterSubtest(t *testing.T) {
	t.Run("swapped", func(t *testing.T) {
		Swap(t, &nowWeek, func() int { return 99 })
		if got := nowWeek(); got != 99 {
			t.Fatalf("swap did not take effect, got %d", got)
		}
	})
	if got := nowWeek(); got != 7 {
		t.Fatalf("swap did not restore original, got %d", got)
	}
}

func TestSwap_ValueType(t *testing.T) {
	x := 10
	t.Run("swapped", func(t *testing.T) {
		Swap(t, &x, 20)
		if x != 20 {
			t.Fatalf("swap did not take effect, got %d", x)
		}
	})
	if x != 10 {
		t.Fatalf("swap did not restore original, got %d", x)
	}
}

func TestSerial(t *testing.T) {
	Serial(t)
}
