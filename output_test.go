package main

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

func TestFormatMoney(t *testing.T) {
	testCases := []struct {
		amount float64
		want   string
	}{
		{0, "$0"},
		{950, "$950"},
		{1_550, "$2k"},
		{350_000, "$350k"},
		{1_550_000, "$1.55M"},
		{-42_000, "-$42k"},
		{-2_500_000, "-$2.50M"},
	}
	for _, tc := range testCases {
		if got := FormatMoney(tc.amount); got != tc.want {
			t.Errorf("FormatMoney(%.0f) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}

func TestFormatMoneyFull(t *testing.T) {
	testCases := []struct {
		amount float64
		want   string
	}{
		{0, "$0"},
		{950, "$950"},
		{1_550_000, "$1,550,000"},
		{1_550_000.49, "$1,550,000"},
		{-83_638, "-$83,638"},
	}
	for _, tc := range testCases {
		if got := FormatMoneyFull(tc.amount); got != tc.want {
			t.Errorf("FormatMoneyFull(%.2f) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(0.062); got != "6.20%" {
		t.Errorf("FormatPercent(0.062) = %q, want %q", got, "6.20%")
	}
}

func TestKeyYear(t *testing.T) {
	// 31 snapshots (years 0-30), crossover at 17.
	total, crossover := 31, 17
	wantShown := map[int]bool{0: true, 5: true, 10: true, 15: true, 17: true, 20: true, 25: true, 30: true}
	for i := 0; i < total; i++ {
		got := keyYear(i, total, i, crossover)
		if got != wantShown[i] {
			t.Errorf("keyYear(%d) = %v, want %v", i, got, wantShown[i])
		}
	}
}

func TestWriteCSV(t *testing.T) {
	params := DefaultScenarioParams()
	params.TimeHorizonYears = 5
	snapshots, err := Simulate(params)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}

	path := filepath.Join(t.TempDir(), "projection.csv")
	if err := WriteCSV(snapshots, path); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening export: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parsing export: %v", err)
	}

	// Header plus one row per snapshot, all the same width.
	if len(rows) != len(snapshots)+1 {
		t.Fatalf("got %d rows, want %d", len(rows), len(snapshots)+1)
	}
	width := len(rows[0])
	for i, row := range rows {
		if len(row) != width {
			t.Errorf("row %d has %d columns, want %d", i, len(row), width)
		}
	}
	if rows[0][0] != "year" || rows[1][0] != "0" {
		t.Errorf("unexpected leading cells %q / %q", rows[0][0], rows[1][0])
	}
}
