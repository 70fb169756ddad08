package greenops

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		name string
		n    int64
		want string
	}{
		{name: "small number no separators", n: 123, want: "123"},
		{name: "thousands", n: 2000, want: "2,000"},
		{name: "millions", n: 1234567, want: "1,234,567"},
		{name: "zero", n: 0, want: "0"},
		{name: "negative number", n: -1000, want: "-1,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatNumber(tt.n))
		})
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		name      string
		f         float64
		precision int
		want      string
	}{
		{name: "round to integer", f: 1999.6, precision: 0, want: "2,000"},
		{name: "one decimal place", f: 10, precision: 1, want: "10.0"},
		{name: "one decimal rounds half up", f: 2.25, precision: 1, want: "2.3"},
		{name: "two decimal places", f: 1234.5678, precision: 2, want: "1,234.57"},
		{name: "negative with precision", f: -1234.56, precision: 2, want: "-1,234.56"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFloat(tt.f, tt.precision))
		})
	}
}

func TestFormatSignedKg(t *testing.T) {
	tests := []struct {
		name string
		kg   float64
		want string
	}{
		{name: "increase has plus sign", kg: 400, want: "+400 kg"},
		{name: "reduction keeps minus sign", kg: -1000, want: "-1,000 kg"},
		{name: "zero", kg: 0, want: "0 kg"},
		{name: "tiny negative is not minus zero", kg: -0.2, want: "0 kg"},
		{name: "rounds to whole kilograms", kg: 12.6, want: "+13 kg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSignedKg(tt.kg))
		})
	}
}

func TestFormatLarge(t *testing.T) {
	tests := []struct {
		name string
		n    float64
		want string
	}{
		{name: "below threshold uses comma format", n: 999999, want: "999,999"},
		{name: "exactly one million", n: 1000000, want: "~1.0 million"},
		{name: "millions with decimal", n: 5200000, want: "~5.2 million"},
		{name: "billions with decimal", n: 1500000000, want: "~1.5 billion"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatLarge(tt.n))
		})
	}
}

func TestRoundToIsSymmetric(t *testing.T) {
	for _, v := range []float64{0.125, 1.005, 2.5, 1000.456, 0.0049} {
		assert.Equal(t, -roundTo(v, 2), roundTo(-v, 2), "value %v", v)
	}
}

func BenchmarkFormatSignedKg(b *testing.B) {
	for b.Loop() {
		FormatSignedKg(-1000)
	}
}
