/*
DESCRIPTION
  anim_test.go provides testing for countdown and capture animation maths.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package booth

import (
	"math"
	"testing"
	"time"
)

const epsilon = 1e-9

func TestPhaseAt(t *testing.T) {
	tests := []struct {
		elapsed time.Duration
		name    string
		alpha   float64
		scale   float64
		done    bool
	}{
		{elapsed: 0, name: "ready", alpha: 1, scale: 1},
		{elapsed: time.Second, name: "ready", alpha: 1, scale: 1},
		{elapsed: 1500 * time.Millisecond, name: "ready", alpha: 0.5, scale: 1.25},
		{elapsed: 2 * time.Second, name: "3", alpha: 1, scale: 1},
		{elapsed: 2750 * time.Millisecond, name: "3", alpha: 0.25, scale: 1.375},
		{elapsed: 3 * time.Second, name: "2", alpha: 1, scale: 1},
		{elapsed: 4 * time.Second, name: "1", alpha: 1, scale: 1},
		{elapsed: 5 * time.Second, name: "smile", alpha: 1, scale: 1},
		{elapsed: 6500 * time.Millisecond, name: "smile", alpha: 0.5, scale: 1.25},
		{elapsed: 7 * time.Second, name: "flash-cue", alpha: 1, scale: 1},
		{elapsed: 8*time.Second - time.Nanosecond, name: "flash-cue", alpha: 1e-9, scale: 1.5},
		{elapsed: 8 * time.Second, name: "flash-cue", alpha: 0, scale: 1.5, done: true},
		{elapsed: time.Minute, name: "flash-cue", alpha: 0, scale: 1.5, done: true},
	}

	for _, test := range tests {
		i, alpha, scale, done := phaseAt(test.elapsed)
		if phases[i].name != test.name || done != test.done {
			t.Errorf("%v: got phase %q done %t, want %q done %t", test.elapsed, phases[i].name, done, test.name, test.done)
		}
		if math.Abs(alpha-test.alpha) > 1e-6 || math.Abs(scale-test.scale) > 1e-6 {
			t.Errorf("%v: got alpha %v scale %v, want alpha %v scale %v", test.elapsed, alpha, scale, test.alpha, test.scale)
		}
	}

	if countdownLength != 8*time.Second {
		t.Errorf("unexpected countdown length: %v", countdownLength)
	}
}

func TestFlashAlpha(t *testing.T) {
	tests := []struct {
		elapsed time.Duration
		want    float64
	}{
		{0, 1},
		{125 * time.Millisecond, 0.75},
		{250 * time.Millisecond, 0.5},
		{500 * time.Millisecond, 0},
		{2 * time.Second, 0},
	}
	for _, test := range tests {
		if got := flashAlpha(test.elapsed); math.Abs(got-test.want) > epsilon {
			t.Errorf("flashAlpha(%v) = %v, want %v", test.elapsed, got, test.want)
		}
	}
}

func TestRestPosition(t *testing.T) {
	const screenW, screenH = 1280.0, 800.0
	w, h, _ := polaroidSize(4.0/3, screenW)

	for _, total := range []int{1, 3, 4, 8} {
		var prev float64
		for i := 1; i <= total; i++ {
			x, y, scale := restPosition(i, total, w, h, screenW, screenH)
			if scale > restScale+epsilon {
				t.Errorf("%d of %d: scale %v above rest scale", i, total, scale)
			}
			left, right := x-w*scale/2, x+w*scale/2
			if left < restMargin-epsilon || right > screenW-restMargin+epsilon {
				t.Errorf("%d of %d: polaroid spans %v to %v, outside margins", i, total, left, right)
			}
			if bottom := y + h*scale/2; math.Abs(bottom-(screenH-restMargin)) > epsilon {
				t.Errorf("%d of %d: bottom at %v", i, total, bottom)
			}
			if i > 1 && math.Abs(x-prev-(w*scale+restGap)) > epsilon {
				t.Errorf("%d of %d: uneven spacing", i, total)
			}
			prev = x
		}
	}

	// A single polaroid sits in the middle at the rest scale.
	x, _, scale := restPosition(1, 1, w, h, screenW, screenH)
	if math.Abs(x-screenW/2) > epsilon || scale != restScale {
		t.Errorf("single polaroid at %v with scale %v", x, scale)
	}
}

func TestFallAt(t *testing.T) {
	from := pose{x: 640, y: 400, scale: 1, angle: startTilt}
	to := pose{x: 100, y: 700, scale: 0.4, angle: -4}
	const toss = 200

	if got := fallAt(0, from, to, toss); got != from {
		t.Errorf("start pose: got %+v, want %+v", got, from)
	}
	got := fallAt(1, from, to, toss)
	if math.Abs(got.x-to.x) > epsilon || math.Abs(got.y-to.y) > 1e-6 || math.Abs(got.scale-to.scale) > epsilon || math.Abs(got.angle-to.angle) > epsilon {
		t.Errorf("end pose: got %+v, want %+v", got, to)
	}
	if got := fallAt(2, from, to, toss); math.Abs(got.scale-to.scale) > epsilon {
		t.Errorf("progress not clamped: %+v", got)
	}

	mid := fallAt(0.5, from, to, toss)
	if math.Abs(mid.x-370) > epsilon || math.Abs(mid.scale-0.7) > epsilon {
		t.Errorf("unexpected linear terms at midpoint: %+v", mid)
	}
	// Quarter of the drop, lifted by the full toss.
	if want := 400 + 300*0.25 - toss; math.Abs(mid.y-want) > 1e-6 {
		t.Errorf("midpoint y: got %v, want %v", mid.y, want)
	}
}
