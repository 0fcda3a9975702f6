package envutil

import (
	"testing"
	"time"
)

func TestStringDefaultAndTrim(t *testing.T) {
	t.Setenv("BS_TEST_STRING", "")
	if got := String("BS_TEST_STRING", "fallback", nil); got != "fallback" {
		t.Fatalf("String default: want=fallback got=%q", got)
	}
	t.Setenv("BS_TEST_STRING", "  value ")
	if got := String("BS_TEST_STRING", "fallback", nil); got != "value" {
		t.Fatalf("String: want=value got=%q", got)
	}
}

func TestIntInvalidFallsBack(t *testing.T) {
	t.Setenv("BS_TEST_INT", "abc")
	if got := Int("BS_TEST_INT", 7, nil); got != 7 {
		t.Fatalf("Int invalid: want=7 got=%d", got)
	}
	t.Setenv("BS_TEST_INT", "42")
	if got := Int("BS_TEST_INT", 7, nil); got != 42 {
		t.Fatalf("Int: want=42 got=%d", got)
	}
}

func TestBool(t *testing.T) {
	cases := map[string]bool{"true": true, "ON": true, "0": false, "no": false, "maybe": true}
	for raw, want := range cases {
		t.Setenv("BS_TEST_BOOL", raw)
		if got := Bool("BS_TEST_BOOL", true, nil); got != want {
			t.Fatalf("Bool(%q): want=%v got=%v", raw, want, got)
		}
	}
}

func TestDuration(t *testing.T) {
	t.Setenv("BS_TEST_DUR", "250ms")
	if got := Duration("BS_TEST_DUR", time.Second, nil); got != 250*time.Millisecond {
		t.Fatalf("Duration: want=250ms got=%v", got)
	}
	t.Setenv("BS_TEST_DUR", "3")
	if got := Duration("BS_TEST_DUR", time.Second, nil); got != 3*time.Second {
		t.Fatalf("Duration seconds: want=3s got=%v", got)
	}
	t.Setenv("BS_TEST_DUR", "soon")
	if got := Duration("BS_TEST_DUR", time.Second, nil); got != time.Second {
		t.Fatalf("Duration invalid: want=1s got=%v", got)
	}
}

func TestList(t *testing.T) {
	t.Setenv("BS_TEST_LIST", " a, ,b ,c")
	got := List("BS_TEST_LIST", nil, nil)
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("List: want=[a b c] got=%v", got)
	}
	t.Setenv("BS_TEST_LIST", " , ")
	if got := List("BS_TEST_LIST", []string{"x"}, nil); len(got) != 1 || got[0] != "x" {
		t.Fatalf("List blank: want=[x] got=%v", got)
	}
}
