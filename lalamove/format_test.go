package lalamove

import (
	"errors"
	"testing"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"local format leading zero", "0123456789", "+60123456789", false},
		{"already country coded", "60123456789", "+60123456789", false},
		{"nine digits no prefix", "123456789", "+123456789", false},
		{"too short", "12", "", true},
		{"empty", "", "", true},
		{"separators stripped", "012-345 6789", "+60123456789", false},
		{"plus and spaces stripped", "+60 12 345 6789", "+60123456789", false},
		{"letters only", "no phone", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnusablePhone) {
					t.Fatalf("expected ErrUnusablePhone, got %v (%q)", err, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("NormalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPhoneOrFallback(t *testing.T) {
	if got := PhoneOrFallback("0123456789", "+60111111111"); got != "+60123456789" {
		t.Fatalf("valid phone replaced by placeholder: %q", got)
	}

	if got := PhoneOrFallback("12", "+60111111111"); got != "+60111111111" {
		t.Fatalf("unusable phone did not fall back: %q", got)
	}
}

func TestFormatCoordinate(t *testing.T) {
	tests := []struct {
		name     string
		v        float64
		min, max float64
		want     string
	}{
		{"latitude above range clamps", 200, -90, 90, "90"},
		{"longitude below range clamps", -200, -180, 180, "-180"},
		{"trailing zeros stripped", 3.0136000, -90, 90, "3.0136"},
		{"six decimal rounding", 101.67156839, -180, 180, "101.671568"},
		{"integer stays integer", 3, -90, 90, "3"},
		{"negative value kept", -2.754873, -90, 90, "-2.754873"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatCoordinate(tt.v, tt.min, tt.max); got != tt.want {
				t.Fatalf("FormatCoordinate(%v) = %q, want %q", tt.v, got, tt.want)
			}
		})
	}
}

func TestFormatStop(t *testing.T) {
	stop := FormatStop(3.048593, 101.671568, "Bukit Jalil, Kuala Lumpur")

	if stop.Coordinates.Lat != "3.048593" || stop.Coordinates.Lng != "101.671568" {
		t.Fatalf("unexpected coordinates: %+v", stop.Coordinates)
	}
	if stop.Address != "Bukit Jalil, Kuala Lumpur" {
		t.Fatalf("unexpected address: %q", stop.Address)
	}
	if stop.StopID != "" {
		t.Fatal("stop id must only be assigned by the carrier")
	}
}
