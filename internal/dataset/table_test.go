package dataset

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		present bool
	}{
		{"Approve", "Approve", true},
		{"  Approve  ", "Approve", true},
		{"", "", false},
		{"   ", "", false},
		{"nan", "", false},
		{"NaN", "", false},
		{"none", "", false},
		{"None", "", false},
		{"NULL", "", false},
		{"null ", "", false},
		{"0", "0", true},
		{"nothing", "nothing", true},
	}
	for _, tc := range cases {
		got, present := Normalize(tc.in)
		if got != tc.want || present != tc.present {
			t.Errorf("Normalize(%q) = (%q, %v), want (%q, %v)", tc.in, got, present, tc.want, tc.present)
		}
	}
}

func TestTableValue(t *testing.T) {
	table := NewTable(
		[]string{"UID", "Q1"},
		[][]string{
			{"u1", "yes"},
			{"u2"}, // short row
		},
	)

	if v, ok := table.Value(0, "q1"); !ok || v != "yes" {
		t.Errorf("case-insensitive column lookup failed: (%q, %v)", v, ok)
	}
	if _, ok := table.Value(1, "Q1"); ok {
		t.Error("short row cell should read as absent")
	}
	if _, ok := table.Value(0, "MISSING"); ok {
		t.Error("unknown column should read as absent")
	}
	if _, ok := table.Value(5, "UID"); ok {
		t.Error("out-of-range row should read as absent")
	}
	if !table.HasColumn(" uid ") {
		t.Error("HasColumn should trim and ignore case")
	}
}

func TestTableColumn(t *testing.T) {
	table := NewTable(
		[]string{"Q1"},
		[][]string{{"a"}, {"nan"}, {"b"}},
	)
	got := table.Column("Q1")
	want := []string{"a", "", "b"}
	if len(got) != len(want) {
		t.Fatalf("Column = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Column[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
