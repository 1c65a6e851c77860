package parser

import (
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{"25.99", "25.99", false},
		{"1,234.56", "1234.56", false},
		{"1,23,45,678", "12345678", false},
		{"₹60,000,000", "60000000", false},
		{"Rs.1,000", "1000", false},
		{"-25.99", "-25.99", false},
		{"(5,000,000)", "-5000000", false},
		{"-", "0", false},
		{"", "0", false},
		{" 25.99 ", "25.99", false},
		{"12abc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseAmount(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tt.expected {
				t.Errorf("got %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestIsAmountToken(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"60,000,000", true},
		{"(1,234.50)", true},
		{"₹500", true},
		{"-", true},
		{"19", true},
		{"(net)", false},
		{"expense", false},
		{"2024-25", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := isAmountToken(tt.input); got != tt.expected {
				t.Errorf("isAmountToken(%q): got %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeLine(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  Revenue from operations\t\t60,000  ", "Revenue from operations 60,000"},
		{"(a) Long-term borrowings 10", "Long-term borrowings 10"},
		{"iv. Finance costs 5", "Finance costs 5"},
		{"3. Depreciation 1", "Depreciation 1"},
		{"Revenue from operations", "Revenue from operations"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := normalizeLine(tt.input); got != tt.expected {
				t.Errorf("normalizeLine(%q): got %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
