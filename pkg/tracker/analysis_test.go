package tracker

import (
	"testing"
	"time"

	"github.com/gfarida/financetracker/pkg/db"
)

func TestNewAnalysis(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)

	a := newAnalysis(from, to, []db.Expense{
		{Category: "Dining", Amount: 3000},
		{Category: "Groceries", Amount: 5000},
		{Category: "Dining", Amount: 1000},
		{Category: "Transportation", Amount: 1000},
	})

	if a.Total != 10000 {
		t.Fatalf("expected total 10000, got %d", a.Total)
	}

	want := []CategoryTotal{
		{"Groceries", 5000},
		{"Dining", 4000},
		{"Transportation", 1000},
	}
	if len(a.Categories) != len(want) {
		t.Fatalf("expected %d categories, got %d", len(want), len(a.Categories))
	}
	for i, w := range want {
		if a.Categories[i] != w {
			t.Fatalf("position %d expected %+v, got %+v", i, w, a.Categories[i])
		}
	}

	if got := FormatPercent(a.Share(5000)); got != "50.00%" {
		t.Fatalf("expected 50.00%%, got %s", got)
	}
	if got := FormatPercent(a.Share(1000)); got != "10.00%" {
		t.Fatalf("expected 10.00%%, got %s", got)
	}
}

func TestNewAnalysisEmpty(t *testing.T) {
	now := time.Now()

	a := newAnalysis(now, now, nil)
	if !a.Empty() {
		t.Fatal("expected empty analysis")
	}
	if a.Share(0) != 0 {
		t.Fatal("share of empty analysis must be zero")
	}

	if _, err := RenderPieChart(a); err == nil {
		t.Fatal("expected error rendering empty analysis")
	}
}

func TestRenderPieChart(t *testing.T) {
	now := time.Now()

	a := newAnalysis(now.Add(-time.Hour), now, []db.Expense{
		{Category: "Groceries", Amount: 5000},
		{Category: "Dining", Amount: 3000},
	})

	png, err := RenderPieChart(a)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if len(png) == 0 {
		t.Fatal("expected non-empty png")
	}
	// PNG signature
	if string(png[1:4]) != "PNG" {
		t.Fatal("expected png output")
	}
}
