package admin_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/pixeltwin-dev/pixeltwin/pkg/admin"
	"github.com/pixeltwin-dev/pixeltwin/pkg/testutil"
	"github.com/pixeltwin-dev/pixeltwin/pkg/twincore"
)

// fakeState is a minimal StateStore for exercising the admin surface.
type fakeState struct {
	device string
	resets int
}

func (f *fakeState) Snapshot() any {
	return map[string]string{"device": f.device}
}

func (f *fakeState) LoadState(data []byte) error {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	f.device = m["device"]
	return nil
}

func (f *fakeState) Reset() {
	f.device = "Pixel 8 Pro"
	f.resets++
}

func setup(t *testing.T) (*testutil.AdminClient, *fakeState, *twincore.Twin) {
	t.Helper()
	state := &fakeState{device: "Pixel 5"}
	twin := twincore.New(&twincore.Config{Name: "pixeltwin-test"})
	admin.NewHandler(state, twin.Middleware()).Routes(twin.Router)

	srv := httptest.NewServer(twin)
	t.Cleanup(srv.Close)
	return testutil.NewAdminClient(testutil.NewTwinClient(t, srv)), state, twin
}

func TestHealth(t *testing.T) {
	ac, _, _ := setup(t)
	ac.Health().AssertStatus(200).AssertBodyContains(`"status":"ok"`)
}

func TestReset(t *testing.T) {
	ac, state, _ := setup(t)
	ac.Reset().AssertStatus(200).AssertBodyContains("reset")
	if state.resets != 1 || state.device != "Pixel 8 Pro" {
		t.Errorf("expected state reset, got %+v", state)
	}
}

func TestGetState(t *testing.T) {
	ac, _, _ := setup(t)
	m := ac.GetState().AssertStatus(200).JSONMap()
	if m["device"] != "Pixel 5" {
		t.Errorf("expected snapshot device Pixel 5, got %v", m["device"])
	}
}

func TestLoadState(t *testing.T) {
	ac, state, _ := setup(t)
	ac.LoadState(map[string]string{"device": "Pixel XL"}).AssertStatus(200)
	if state.device != "Pixel XL" {
		t.Errorf("expected loaded device, got %q", state.device)
	}
}

func TestLoadStateInvalidJSON(t *testing.T) {
	ac, _, _ := setup(t)
	ac.Post("/admin/state", "not an object").AssertStatus(400)
}

func TestFaultLifecycle(t *testing.T) {
	ac, _, twin := setup(t)

	ac.InjectFault("getprop", map[string]any{"status_code": 503}).
		AssertStatus(200).
		AssertBodyContains("/getprop")

	if f := twin.Middleware().Faults.Check("/getprop"); f == nil || f.StatusCode != 503 {
		t.Fatalf("expected registered fault, got %+v", f)
	}

	faults := ac.Get("/admin/faults").AssertStatus(200).JSONMap()
	if _, ok := faults["/getprop"]; !ok {
		t.Errorf("expected /getprop in fault list, got %v", faults)
	}

	ac.RemoveFault("getprop").AssertStatus(200)
	if twin.Middleware().Faults.Check("/getprop") != nil {
		t.Error("expected fault removed")
	}

	ac.RemoveFault("getprop").AssertStatus(404)
}

func TestResetClearsFaultsAndRequests(t *testing.T) {
	ac, _, twin := setup(t)

	ac.InjectFault("features", map[string]any{"status_code": 500})
	ac.Health()
	ac.Reset().AssertStatus(200)

	if twin.Middleware().Faults.Check("/features") != nil {
		t.Error("expected faults cleared by reset")
	}
}

func TestGetRequests(t *testing.T) {
	ac, _, _ := setup(t)
	ac.Health()

	var entries []map[string]any
	ac.GetRequests().AssertStatus(200).JSON(&entries)
	if len(entries) == 0 {
		t.Fatal("expected request log entries")
	}
	found := false
	for _, e := range entries {
		if e["path"] == "/admin/health" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected /admin/health in request log, got %v", entries)
	}
}
