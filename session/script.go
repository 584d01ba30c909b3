package session

import (
	"math"

	"github.com/pthm-cable/smoke/sim"
)

// Script supplies the pointer for each tick when no user is driving.
type Script interface {
	Pointer(tick int32) sim.Pointer
}

// ScriptFunc adapts a function to Script.
type ScriptFunc func(tick int32) sim.Pointer

// Pointer calls f(tick).
func (f ScriptFunc) Pointer(tick int32) sim.Pointer { return f(tick) }

// Idle never moves the pointer.
var Idle Script = ScriptFunc(func(int32) sim.Pointer { return sim.Pointer{} })

// Orbit drags a smoking pointer around a circle. After every Stroke ticks it
// lifts the pointer for Rest ticks, during which the pointer holds still.
type Orbit struct {
	CenterX, CenterY float32 // pixels
	Radius           float32 // pixels
	Period           int32   // ticks per revolution
	Stroke, Rest     int32   // ticks
}

// DefaultOrbit returns an orbit centered in a worldW x worldH box: a quarter of
// the shorter side in radius, two seconds per revolution, three seconds of
// stroke then two of rest.
func DefaultOrbit(worldW, worldH, dt float32) Orbit {
	ticks := func(sec float32) int32 { return max(1, int32(math.Round(float64(sec/dt)))) }
	return Orbit{
		CenterX: worldW / 2,
		CenterY: worldH / 2,
		Radius:  min(worldW, worldH) / 4,
		Period:  ticks(2),
		Stroke:  ticks(3),
		Rest:    ticks(2),
	}
}

func (o Orbit) at(tick int32) sim.Vec2 {
	period := max(o.Period, 1)
	a := 2 * math.Pi * float64(tick%period) / float64(period)
	return sim.Vec2{
		X: o.CenterX + o.Radius*float32(math.Cos(a)),
		Y: o.CenterY + o.Radius*float32(math.Sin(a)),
	}
}

// Pointer returns the segment swept between tick-1 and tick.
func (o Orbit) Pointer(tick int32) sim.Pointer {
	cur := o.at(tick)
	if cycle := o.Stroke + o.Rest; o.Rest > 0 && cycle > 0 && tick%cycle >= o.Stroke {
		return sim.Pointer{Prev: cur, Cur: cur}
	}
	return sim.Pointer{Prev: o.at(tick - 1), Cur: cur, AddSmoke: true}
}
