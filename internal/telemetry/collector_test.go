package telemetry

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

func frame(tick uint64, t float64) dynamo.Frame {
	return dynamo.Frame{
		Tick: tick,
		Time: t,
		Bodies: []dynamo.BodyView{
			{Name: "sun", X: 300, Y: 300, Mass: 1e13},
			{Name: "earth", X: 300, Y: 400, VX: 2, Mass: 1e9},
		},
	}
}

func TestCollectorOnTick(t *testing.T) {
	c := NewCollector()
	c.OnTick(frame(1, 0.5))
	c.OnTick(frame(2, 1.0))

	if got := testutil.ToFloat64(c.ticks); got != 2 {
		t.Errorf("ticks = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.simTime); got != 1.0 {
		t.Errorf("sim time = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.separation.WithLabelValues("earth")); got != 100 {
		t.Errorf("separation = %v, want 100", got)
	}
	if got := testutil.ToFloat64(c.position.WithLabelValues("earth", "y")); got != 400 {
		t.Errorf("earth y = %v, want 400", got)
	}
	if got := testutil.ToFloat64(c.mass.WithLabelValues("sun")); got != 1e13 {
		t.Errorf("sun mass = %v, want 1e13", got)
	}
}

func TestCollectorNoSeparationForAnchor(t *testing.T) {
	c := NewCollector()
	c.OnTick(frame(1, 0.5))

	if n := testutil.CollectAndCount(c.separation); n != 1 {
		t.Errorf("separation series = %d, want 1", n)
	}
}

func TestCollectorHandler(t *testing.T) {
	c := NewCollector()
	c.OnTick(frame(1, 0.5))

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"orbitsim_ticks_total 1", `orbitsim_separation{body="earth"} 100`} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
