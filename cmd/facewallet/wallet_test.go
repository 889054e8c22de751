package main

import "testing"

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "12.50", want: 1250},
		{in: "12.5", want: 1250},
		{in: "12", want: 1200},
		{in: "0.01", want: 1},
		{in: " 3.00 ", want: 300},
		{in: "12.345", wantErr: true},
		{in: "-5", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "1.x", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseAmount(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseAmount(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("parseAmount(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{in: 1250, want: "$12.50"},
		{in: 5, want: "$0.05"},
		{in: 0, want: "$0.00"},
		{in: -1250, want: "-$12.50"},
		{in: 100000, want: "$1000.00"},
	}

	for _, tt := range tests {
		if got := formatAmount(tt.in); got != tt.want {
			t.Errorf("formatAmount(%d) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
