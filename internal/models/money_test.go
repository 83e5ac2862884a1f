package models

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"1500", "1500.00", false},
		{"0.01", "0.01", false},
		{"9999999999999.99", "9999999999999.99", false},
		{"10000000000000", "", true},
		{"-10000000000000", "", true},
		{"100000000000000000.00", "", true},
		{"1.005", "", true},
		{"abc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error for %q, got %s", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) failed: %v", tt.in, err)
			}
			if FormatAmount(got) != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, FormatAmount(got))
			}
		})
	}
}

func TestToMinor(t *testing.T) {
	v, err := ToMinor(decimal.RequireFromString("-12.34"))
	if err != nil || v != -1234 {
		t.Errorf("Expected -1234, got %d (err %v)", v, err)
	}

	largest := MaxAmount.Sub(decimal.RequireFromString("0.01"))
	v, err = ToMinor(largest)
	if err != nil {
		t.Fatalf("ToMinor(%s) failed: %v", largest, err)
	}
	if !FromMinor(v).Equal(largest) {
		t.Errorf("Expected %s back, got %s", largest, FromMinor(v))
	}

	_, err = ToMinor(decimal.RequireFromString("100000000000000000.00"))
	if !errors.Is(err, ErrAmountOutOfRange) {
		t.Errorf("Expected ErrAmountOutOfRange, got %v", err)
	}
}
