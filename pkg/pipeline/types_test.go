package pipeline

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

func TestTimeRange_Frames(t *testing.T) {
	tests := []struct {
		name      string
		r         TimeRange
		fps       float64
		wantStart int
		wantEnd   int
	}{
		{"whole seconds", TimeRange{2.0, 3.0}, 30, 60, 150},
		{"half second start", TimeRange{9.5, 5.0}, 30, 285, 435},
		{"past end", TimeRange{15.0, 2.0}, 30, 450, 510},
		{"ntsc rate floors", TimeRange{1.0, 1.0}, 30000.0 / 1001.0, 29, 59},
		{"zero start", TimeRange{0, 0.5}, 25, 0, 12},
		{"huge duration saturates", TimeRange{2.0, 1e18}, 30, 60, math.MaxInt},
		{"huge start saturates", TimeRange{1e19, 1.0}, 30, math.MaxInt, math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.r.Frames(tt.fps)
			if got.Start != tt.wantStart || got.End != tt.wantEnd {
				t.Errorf("Frames(%v) = [%d,%d), want [%d,%d)", tt.fps, got.Start, got.End, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestTimeRange_Validate(t *testing.T) {
	valid := []TimeRange{{0, 1}, {2.5, 0.04}}
	for _, r := range valid {
		if err := r.Validate(); err != nil {
			t.Errorf("Validate(%v) unexpected error: %v", r, err)
		}
	}

	invalid := []TimeRange{
		{-1, 1},
		{0, 0},
		{0, -2},
		{math.NaN(), 1},
		{0, math.Inf(1)},
	}
	for _, r := range invalid {
		if err := r.Validate(); err == nil {
			t.Errorf("Validate(%v) expected error", r)
		}
	}
}

func TestFrameRange(t *testing.T) {
	f := FrameRange{Start: 60, End: 150}
	if f.Len() != 90 {
		t.Errorf("Len() = %d, want 90", f.Len())
	}
	if !f.Contains(60) || f.Contains(150) || f.Contains(59) {
		t.Error("Contains should be half-open [Start, End)")
	}
	if (FrameRange{Start: 10, End: 5}).Len() != 0 {
		t.Error("inverted range should have zero length")
	}
}

func TestRectangle_Within(t *testing.T) {
	r := Rectangle{X: 478, Y: 1069, Width: 405, Height: 850}
	if !r.Within(1080, 1920) {
		t.Errorf("%v should fit in 1080x1920", r)
	}
	if r.Within(1080, 1080) {
		t.Errorf("%v should not fit in 1080x1080", r)
	}
	if (Rectangle{X: -1, Width: 10, Height: 10}).Within(100, 100) {
		t.Error("negative origin should not fit")
	}
	if (Rectangle{X: 1, Width: math.MaxInt, Height: 10}).Within(100, 100) {
		t.Error("width overflowing X+Width should not fit")
	}
	if (Rectangle{Y: 5, Width: 10, Height: math.MaxInt - 2}).Within(100, 100) {
		t.Error("height overflowing Y+Height should not fit")
	}
	if (Rectangle{X: 101, Width: 0, Height: 10}).Within(100, 100) {
		t.Error("origin beyond the frame should not fit")
	}
	if !(Rectangle{Width: 0, Height: 10}).Empty() {
		t.Error("zero width should be empty")
	}
}

func TestError_Is(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("trim: %w", NewError(KindRangeOutOfBounds, "in.mp4", cause))

	if !errors.Is(err, ErrRangeOutOfBounds) {
		t.Error("expected errors.Is to match ErrRangeOutOfBounds")
	}
	if errors.Is(err, ErrSourceNotFound) {
		t.Error("errors.Is should not match a different kind")
	}
	if !errors.Is(err, cause) {
		t.Error("expected the cause to stay reachable")
	}
	if KindOf(err) != KindRangeOutOfBounds {
		t.Errorf("KindOf = %v, want RangeOutOfBounds", KindOf(err))
	}
	if KindOf(cause) != 0 {
		t.Error("KindOf of a plain error should be 0")
	}
}

func TestError_Message(t *testing.T) {
	err := NewError(KindSourceNotFound, "missing.mp4", errors.New("no such file"))
	want := "SourceNotFound: missing.mp4: no such file"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
