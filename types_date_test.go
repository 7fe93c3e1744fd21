package folio

import "testing"

func TestParseDate(t *testing.T) {
	testCases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2025-01-10", want: NewDate(2025, 1, 10)},
		{in: "2025-1-2", want: NewDate(2025, 1, 2)}, // permissive, no leading zeros
		{in: "10/01/2025", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range testCases {
		got, err := ParseDate(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseDate(%q) accepted, want error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDate(%q) error = %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseDate(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestDate_Arithmetic(t *testing.T) {
	d := NewDate(2025, 1, 31)

	if got := d.Add(1); got != NewDate(2025, 2, 1) {
		t.Errorf("Add(1) = %s, want 2025-02-01", got)
	}
	// time.Date normalization: Jan 31 + 1 month lands in March.
	if got := d.AddMonth(1); got != NewDate(2025, 3, 3) {
		t.Errorf("AddMonth(1) = %s, want 2025-03-03", got)
	}
	if got := DaysBetween(NewDate(2023, 1, 1), NewDate(2024, 1, 1)); got != 365 {
		t.Errorf("DaysBetween() = %d, want 365", got)
	}
	if got := DaysBetween(NewDate(2024, 1, 1), NewDate(2025, 1, 1)); got != 366 {
		t.Errorf("DaysBetween() across a leap year = %d, want 366", got)
	}
}

func TestRange_Sample(t *testing.T) {
	rng := Range{From: NewDate(2025, 1, 1), To: NewDate(2025, 1, 20)}

	var got []Date
	for d := range rng.Sample(Weekly) {
		got = append(got, d)
	}
	want := []Date{
		NewDate(2025, 1, 1),
		NewDate(2025, 1, 8),
		NewDate(2025, 1, 15),
		NewDate(2025, 1, 20), // always closes on To
	}
	if len(got) != len(want) {
		t.Fatalf("Sample() yielded %d dates, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Sample()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestRange_SampleEndsOnGrid(t *testing.T) {
	rng := Range{From: NewDate(2025, 1, 1), To: NewDate(2025, 1, 15)}
	var got []Date
	for d := range rng.Sample(Weekly) {
		got = append(got, d)
	}
	// The grid lands on To exactly: no duplicate final point.
	if len(got) != 3 || got[2] != NewDate(2025, 1, 15) {
		t.Errorf("Sample() = %v, want 3 dates ending 2025-01-15", got)
	}
}
