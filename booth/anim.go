/*
DESCRIPTION
  anim.go provides the timing and geometry of the countdown and capture
  animations.

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
	"time"
)

// phase is a named step of the countdown.
type phase struct {
	name string
	text string
	d    time.Duration
}

// The countdown sequence. Each phase fades out over its final fadeTime.
var phases = []phase{
	{name: "ready", text: "Get ready!", d: 2 * time.Second},
	{name: "3", text: "3", d: time.Second},
	{name: "2", text: "2", d: time.Second},
	{name: "1", text: "1", d: time.Second},
	{name: "smile", text: "Smile!", d: 2 * time.Second},
	{name: "flash-cue", d: time.Second},
}

const (
	fadeTime = time.Second
	maxScale = 1.5 // Text scale at the end of a phase's fade.
)

// countdownLength is the total duration of phases.
var countdownLength = func() time.Duration {
	var d time.Duration
	for _, p := range phases {
		d += p.d
	}
	return d
}()

// phaseAt returns the index of the phase at elapsed, with the alpha and
// scale of its text. done is true once the whole sequence has elapsed.
func phaseAt(elapsed time.Duration) (i int, alpha, scale float64, done bool) {
	if elapsed < 0 {
		elapsed = 0
	}
	for i, p := range phases {
		if elapsed < p.d {
			alpha, scale = 1, 1
			if fadeStart := p.d - fadeTime; elapsed > fadeStart {
				f := float64(elapsed-fadeStart) / float64(fadeTime)
				alpha = 1 - f
				scale = 1 + (maxScale-1)*f
			}
			return i, alpha, scale, false
		}
		elapsed -= p.d
	}
	return len(phases) - 1, 0, maxScale, true
}

// Capture animation timing.
const (
	flashTime = 500 * time.Millisecond // Flash overlay fade.
	holdUntil = 2500 * time.Millisecond
	fallTime  = time.Second
)

// flashAlpha returns the white flash overlay alpha at elapsed.
func flashAlpha(elapsed time.Duration) float64 {
	if elapsed >= flashTime {
		return 0
	}
	if elapsed < 0 {
		return 1
	}
	return 1 - float64(elapsed)/float64(flashTime)
}

// Polaroid row geometry at the reference screen width.
const (
	refWidth    = 1280.0
	polaroidW   = 500.0 // Polaroid width when first shown.
	restScale   = 0.4
	restMargin  = 40.0
	restGap     = 20.0
	tossHeight  = 200.0
	startTilt   = 3.0 // Degrees.
	maxTilt     = 5.0
	borderRatio = 0.05 // Side border as a fraction of polaroid width.
)

// polaroidSize returns the unscaled size of a polaroid for a photo of the
// given aspect (width over height) on a screen screenW wide, and the width
// of its side border. The bottom border is four times the side border.
func polaroidSize(aspect, screenW float64) (w, h, border float64) {
	w = polaroidW * screenW / refWidth
	border = w * borderRatio
	h = (w-2*border)/aspect + 5*border
	return w, h, border
}

// restPosition returns the centre and scale of polaroid index (1 based) of
// total when at rest in a row along the bottom of the screen. The scale is
// reduced from restScale if the row would not fit between the margins.
func restPosition(index, total int, w, h, screenW, screenH float64) (x, y, scale float64) {
	n := float64(total)
	scale = restScale
	if row := n*w*scale + (n-1)*restGap; row > screenW-2*restMargin {
		scale = (screenW - 2*restMargin - (n-1)*restGap) / (n * w)
	}
	fw, fh := w*scale, h*scale
	row := n*fw + (n-1)*restGap
	x = (screenW-row)/2 + float64(index-1)*(fw+restGap) + fw/2
	y = screenH - restMargin - fh/2
	return x, y, scale
}

// pose is a polaroid's placement on screen.
type pose struct {
	x, y, scale, angle float64
}

// fallAt returns the pose at progress t in [0, 1] of a polaroid falling from
// from to to. X moves linearly, Y follows a parabola lifted by a toss of the
// given height, and scale and angle interpolate linearly.
func fallAt(t float64, from, to pose, toss float64) pose {
	t = math.Max(0, math.Min(1, t))
	return pose{
		x:     from.x + (to.x-from.x)*t,
		y:     from.y + (to.y-from.y)*t*t - toss*math.Sin(t*math.Pi),
		scale: from.scale + (to.scale-from.scale)*t,
		angle: from.angle + (to.angle-from.angle)*t,
	}
}

// sinPulse returns a value in [-1, 1] cycling once every two seconds.
func sinPulse(t time.Duration) float64 {
	return math.Sin(t.Seconds() * math.Pi)
}
