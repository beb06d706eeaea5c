package device

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lvyanru/coractl/internal/cli/config"
)

func newProbe(t *testing.T, cfg config.DeviceConfig) *Probe {
	t.Helper()
	p, err := NewProbe(cfg)
	if err != nil {
		t.Fatalf("NewProbe: %v", err)
	}
	return p
}

func writeSupply(t *testing.T, root, name, kind, capacity string) {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(dir, "type"), []byte(kind+"\n"), 0o644)
	if capacity != "" {
		os.WriteFile(filepath.Join(dir, "capacity"), []byte(capacity+"\n"), 0o644)
	}
}

func TestBattery(t *testing.T) {
	root := t.TempDir()
	writeSupply(t, root, "AC", "Mains", "")
	writeSupply(t, root, "BAT0", "Battery", "76")

	p := newProbe(t, config.DeviceConfig{BatteryDir: root})
	pct, ok := p.Battery()
	if !ok || pct != 76 {
		t.Errorf("Battery() = %d, %v; want 76, true", pct, ok)
	}

	p = newProbe(t, config.DeviceConfig{BatteryDir: filepath.Join(root, "missing")})
	if _, ok := p.Battery(); ok {
		t.Error("expected no battery for a missing directory")
	}

	mains := t.TempDir()
	writeSupply(t, mains, "AC", "Mains", "")
	p = newProbe(t, config.DeviceConfig{BatteryDir: mains})
	if _, ok := p.Battery(); ok {
		t.Error("expected no battery on mains-only machine")
	}
}

func TestTimezone(t *testing.T) {
	p := newProbe(t, config.DeviceConfig{Timezone: "Asia/Tokyo"})
	p.zoneEnv = func() string { return "Europe/Paris" }
	if got := p.Timezone(); got != "Asia/Tokyo" {
		t.Errorf("override: got %q", got)
	}

	p = newProbe(t, config.DeviceConfig{})
	p.zoneEnv = func() string { return ":Europe/Paris" }
	if got := p.Timezone(); got != "Europe/Paris" {
		t.Errorf("TZ: got %q", got)
	}
}

func TestNow_UsesTimezone(t *testing.T) {
	p := newProbe(t, config.DeviceConfig{Timezone: "UTC"})
	fixed := time.Date(2026, 10, 18, 12, 0, 0, 0, time.FixedZone("X", 7200))
	p.now = func() time.Time { return fixed }

	got := p.Now()
	if !got.Equal(fixed) || got.Location().String() != "UTC" {
		t.Errorf("Now() = %v", got)
	}
}

func TestLocation(t *testing.T) {
	lat, lon := 48.85, 2.35

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ip":
			io.WriteString(w, `{"status":"success","lat":35.68,"lon":139.69}`)
		case "/alt":
			io.WriteString(w, `{"latitude":-33.86,"longitude":151.2}`)
		case "/slow":
			select {
			case <-time.After(500 * time.Millisecond):
			case <-r.Context().Done():
			}
			io.WriteString(w, `{"lat":1,"lon":2}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	tests := []struct {
		name    string
		cfg     config.DeviceConfig
		wantOK  bool
		wantLat float64
		wantLon float64
	}{
		{"denied", config.DeviceConfig{ShareLocation: false, Latitude: &lat, Longitude: &lon}, false, 0, 0},
		{"static", config.DeviceConfig{ShareLocation: true, Latitude: &lat, Longitude: &lon}, true, lat, lon},
		{"no source", config.DeviceConfig{ShareLocation: true}, false, 0, 0},
		{"lookup", config.DeviceConfig{ShareLocation: true, GeolocationURL: srv.URL + "/ip"}, true, 35.68, 139.69},
		{"lookup alt fields", config.DeviceConfig{ShareLocation: true, GeolocationURL: srv.URL + "/alt"}, true, -33.86, 151.2},
		{"lookup error", config.DeviceConfig{ShareLocation: true, GeolocationURL: srv.URL + "/nope"}, false, 0, 0},
		{"lookup timeout", config.DeviceConfig{ShareLocation: true, GeolocationURL: srv.URL + "/slow", GeolocationTimeout: 50 * time.Millisecond}, false, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProbe(t, tt.cfg)
			start := time.Now()
			gotLat, gotLon, ok := p.Location(context.Background())
			if ok != tt.wantOK || gotLat != tt.wantLat || gotLon != tt.wantLon {
				t.Errorf("Location() = %v, %v, %v; want %v, %v, %v", gotLat, gotLon, ok, tt.wantLat, tt.wantLon, tt.wantOK)
			}
			if elapsed := time.Since(start); elapsed > 400*time.Millisecond {
				t.Errorf("Location took %v", elapsed)
			}
		})
	}
}
