package session

import (
	"math"
	"testing"

	"github.com/pthm-cable/smoke/sim"
)

func TestOrbitStrokeAndRest(t *testing.T) {
	o := Orbit{CenterX: 100, CenterY: 50, Radius: 20, Period: 40, Stroke: 10, Rest: 5}

	for tick := int32(0); tick < 45; tick++ {
		p := o.Pointer(tick)
		resting := tick%15 >= 10

		if resting {
			if p.Moved() || p.AddSmoke {
				t.Errorf("tick %d: expected a held pointer, got %+v", tick, p)
			}
		} else if !p.Moved() || !p.AddSmoke {
			t.Errorf("tick %d: expected a smoking stroke, got %+v", tick, p)
		}

		r := p.Cur.Sub(sim.Vec2{X: 100, Y: 50}).Len()
		if math.Abs(float64(r-20)) > 1e-3 {
			t.Errorf("tick %d: pointer %v is %v from the center, want 20", tick, p.Cur, r)
		}
	}
}

func TestOrbitSegmentsConnect(t *testing.T) {
	o := Orbit{CenterX: 0, CenterY: 0, Radius: 10, Period: 16, Stroke: 100}
	for tick := int32(1); tick < 32; tick++ {
		if o.Pointer(tick).Prev != o.Pointer(tick-1).Cur {
			t.Fatalf("tick %d does not start where tick %d ended", tick, tick-1)
		}
	}
}

func TestDefaultOrbit(t *testing.T) {
	o := DefaultOrbit(1280, 720, 1.0/144)
	if o.CenterX != 640 || o.CenterY != 360 || o.Radius != 180 {
		t.Errorf("unexpected geometry: %+v", o)
	}
	if o.Period != 288 || o.Stroke != 432 || o.Rest != 288 {
		t.Errorf("unexpected timing: %+v", o)
	}
}

func TestScriptFunc(t *testing.T) {
	want := sim.Pointer{Cur: sim.Vec2{X: 3, Y: 4}, AddSmoke: true}
	var s Script = ScriptFunc(func(int32) sim.Pointer { return want })
	if got := s.Pointer(9); got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if Idle.Pointer(5).Moved() {
		t.Error("idle script should not move")
	}
}
