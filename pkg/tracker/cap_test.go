package tracker

import "testing"

func TestCapPercent(t *testing.T) {
	cases := []struct {
		cap   Cap
		spent int64
		out   string
	}{
		{CappedAt(50000), 10000, "20.00%"},
		{CappedAt(30000), 10000, "33.33%"},
		{CappedAt(10000), 10000, "100.00%"},
		{CappedAt(10000), 15000, "150.00%"},
		{Unlimited(), 10000, "0.00%"},
	}
	for _, tc := range cases {
		if got := FormatPercent(tc.cap.Percent(tc.spent)); got != tc.out {
			t.Fatalf("cap %v spent %d expected %s, got %s", tc.cap, tc.spent, tc.out, got)
		}
	}
}

func TestCapExceeded(t *testing.T) {
	if Unlimited().Exceeded(1 << 40) {
		t.Fatal("unbounded cap must not be exceeded")
	}
	if CappedAt(10000).Exceeded(10000) {
		t.Fatal("spending exactly the cap is not over budget")
	}
	if !CappedAt(10000).Exceeded(10001) {
		t.Fatal("spending over the cap must be reported")
	}
}

func TestCapString(t *testing.T) {
	if got := Unlimited().String(); got != "∞" {
		t.Fatalf("expected ∞, got %q", got)
	}
	if got := CappedAt(50000).String(); got != "500.0" {
		t.Fatalf("expected 500.0, got %q", got)
	}
}

func TestCapColumnRoundTrip(t *testing.T) {
	if Unlimited().column() != nil {
		t.Fatal("unbounded cap maps to NULL")
	}
	v := CappedAt(12345).column()
	if v == nil || *v != 12345 {
		t.Fatalf("expected 12345, got %v", v)
	}
	if c := capFromColumn(nil); !c.Unbounded {
		t.Fatal("NULL column maps to unbounded cap")
	}
	if c := capFromColumn(v); c.Unbounded || c.Cents != 12345 {
		t.Fatalf("expected bounded 12345, got %+v", c)
	}
}
