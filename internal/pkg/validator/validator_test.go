package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2026-01-05", "1999-12-31", "2024-02-29"}
	invalid := []string{"2026-13-05", "2026-1-5", "05-01-2026", "2023-02-29", "", "yesterday"}
	for _, date := range valid {
		if _, ok := IsValidDate(date); !ok {
			t.Errorf("IsValidDate(%q) = false, want true", date)
		}
	}
	for _, date := range invalid {
		if _, ok := IsValidDate(date); ok {
			t.Errorf("IsValidDate(%q) = true, want false", date)
		}
	}
}

func TestIsValidLatitude(t *testing.T) {
	valid := []float64{0, 6.5244, -90, 90, 89.999}
	invalid := []float64{90.001, -90.001, 180, -180}
	for _, lat := range valid {
		if !IsValidLatitude(lat) {
			t.Errorf("IsValidLatitude(%v) = false, want true", lat)
		}
	}
	for _, lat := range invalid {
		if IsValidLatitude(lat) {
			t.Errorf("IsValidLatitude(%v) = true, want false", lat)
		}
	}
}

func TestIsValidLongitude(t *testing.T) {
	valid := []float64{0, 3.3792, -180, 180}
	invalid := []float64{180.001, -180.001, 360}
	for _, lon := range valid {
		if !IsValidLongitude(lon) {
			t.Errorf("IsValidLongitude(%v) = false, want true", lon)
		}
	}
	for _, lon := range invalid {
		if IsValidLongitude(lon) {
			t.Errorf("IsValidLongitude(%v) = true, want false", lon)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	statuses := []string{"absent", "checked_in", "checked_out"}
	if !IsInSlice("absent", statuses) {
		t.Error("IsInSlice(absent) = false, want true")
	}
	if IsInSlice("sleeping", statuses) {
		t.Error("IsInSlice(sleeping) = true, want false")
	}
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "latitude", Message: "latitude must be between -90 and 90"},
		{Field: "employee_id", Message: "employee_id is required"},
	}

	if got := errs.Error(); got == "" {
		t.Error("Error() returned empty string")
	}

	m := errs.ToMap()
	if len(m) != 2 {
		t.Errorf("ToMap() has %d entries, want 2", len(m))
	}
	if m["latitude"] != "latitude must be between -90 and 90" {
		t.Errorf("ToMap()[latitude] = %q", m["latitude"])
	}
}
