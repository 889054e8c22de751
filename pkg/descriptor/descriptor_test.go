package descriptor

import (
	"math"
	"testing"
)

func TestEuclideanDistance(t *testing.T) {
	tests := []struct {
		name string
		a    Descriptor
		b    Descriptor
		want float64
	}{
		{
			name: "identical",
			a:    Descriptor{1, 2, 3},
			b:    Descriptor{1, 2, 3},
			want: 0,
		},
		{
			name: "unit apart",
			a:    Descriptor{0, 0, 0},
			b:    Descriptor{1, 0, 0},
			want: 1,
		},
		{
			name: "pythagorean",
			a:    Descriptor{0, 0},
			b:    Descriptor{3, 4},
			want: 5,
		},
		{
			name: "length mismatch is hard mismatch",
			a:    Descriptor{1, 2, 3},
			b:    Descriptor{1, 2},
			want: math.MaxFloat64,
		},
		{
			name: "both empty",
			a:    nil,
			b:    nil,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EuclideanDistance(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("EuclideanDistance = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDescriptor_Clone(t *testing.T) {
	orig := Descriptor{1, 2, 3}
	clone := orig.Clone()

	clone[0] = 99
	if orig[0] != 1 {
		t.Error("Clone shares backing storage with the original")
	}

	if Descriptor(nil).Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}

func TestDescriptor_Equal(t *testing.T) {
	d := Descriptor{1, 2, 3}

	if !d.Equal(Descriptor{1, 2, 3}) {
		t.Error("identical descriptors reported unequal")
	}
	if d.Equal(Descriptor{1, 2, 4}) {
		t.Error("different descriptors reported equal")
	}
	if d.Equal(Descriptor{1, 2}) {
		t.Error("descriptors of different lengths reported equal")
	}
}
