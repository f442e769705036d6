package shared

import (
	"math"
	"testing"
)

func TestPosition_NewPosition(t *testing.T) {
	tests := []struct {
		name    string
		x       float64
		y       float64
		wantErr bool
	}{
		{
			name:    "valid origin",
			x:       0,
			y:       0,
			wantErr: false,
		},
		{
			name:    "valid negative coordinates",
			x:       -400,
			y:       -150,
			wantErr: false,
		},
		{
			name:    "NaN x",
			x:       math.NaN(),
			y:       0,
			wantErr: true,
		},
		{
			name:    "infinite y",
			x:       0,
			y:       math.Inf(1),
			wantErr: true,
		},
		{
			name:    "negative infinity x",
			x:       math.Inf(-1),
			y:       0,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPosition(tt.x, tt.y)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewPosition() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && (p.X() != tt.x || p.Y() != tt.y) {
				t.Errorf("NewPosition() = (%v, %v), want (%v, %v)", p.X(), p.Y(), tt.x, tt.y)
			}
		})
	}
}

func TestPosition_Translate(t *testing.T) {
	p := MustPosition(100, 200)
	moved := p.Translate(400, 0)

	if moved.X() != 500 || moved.Y() != 200 {
		t.Errorf("Translate() = (%v, %v), want (500, 200)", moved.X(), moved.Y())
	}
	// Original is unchanged
	if p.X() != 100 || p.Y() != 200 {
		t.Errorf("Translate() mutated receiver: (%v, %v)", p.X(), p.Y())
	}
}

func TestPosition_DistanceTo(t *testing.T) {
	a := MustPosition(0, 0)
	b := MustPosition(3, 4)

	if got := a.DistanceTo(b); got != 5 {
		t.Errorf("DistanceTo() = %v, want 5", got)
	}
	if got := a.DistanceTo(a); got != 0 {
		t.Errorf("DistanceTo(self) = %v, want 0", got)
	}
}

func TestPosition_Equals(t *testing.T) {
	a := MustPosition(100, 100)
	b := MustPosition(100+1e-12, 100-1e-12)
	c := MustPosition(100.5, 100)

	if !a.Equals(b) {
		t.Error("Equals() = false for positions within epsilon")
	}
	if a.Equals(c) {
		t.Error("Equals() = true for positions half a pixel apart")
	}
}

func TestPosition_Midpoint(t *testing.T) {
	a := MustPosition(0, 0)
	b := MustPosition(400, 300)
	mid := a.Midpoint(b)

	if mid.X() != 200 || mid.Y() != 150 {
		t.Errorf("Midpoint() = (%v, %v), want (200, 150)", mid.X(), mid.Y())
	}
}
