// Package device reports the local context the assistant uses to answer
// time, battery and weather questions.
package device

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/lvyanru/coractl/internal/cli/config"
)

const defaultGeolocationTimeout = 10 * time.Second

// Probe reads device state on demand. The zero value is not usable; call
// NewProbe.
type Probe struct {
	cfg     config.DeviceConfig
	http    *client.Client
	now     func() time.Time
	zoneEnv func() string
}

// NewProbe creates a Probe from the device section of the CLI config
func NewProbe(cfg config.DeviceConfig) (*Probe, error) {
	if cfg.GeolocationTimeout <= 0 {
		cfg.GeolocationTimeout = defaultGeolocationTimeout
	}

	hc, err := client.NewClient(client.WithDialTimeout(cfg.GeolocationTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return &Probe{
		cfg:     cfg,
		http:    hc,
		now:     time.Now,
		zoneEnv: func() string { return os.Getenv("TZ") },
	}, nil
}

// Now returns the local wall clock
func (p *Probe) Now() time.Time {
	t := p.now()
	if loc, err := time.LoadLocation(p.Timezone()); err == nil {
		return t.In(loc)
	}
	return t
}

// Timezone resolves the IANA zone name: config override, then TZ, then the
// /etc/localtime link, then the Go runtime's notion of local.
func (p *Probe) Timezone() string {
	if p.cfg.Timezone != "" {
		return p.cfg.Timezone
	}
	if tz := strings.TrimPrefix(p.zoneEnv(), ":"); tz != "" {
		return tz
	}
	if target, err := os.Readlink("/etc/localtime"); err == nil {
		if _, name, ok := strings.Cut(target, "zoneinfo/"); ok {
			return name
		}
	}
	if name := time.Local.String(); name != "Local" {
		return name
	}
	return "UTC"
}

// Battery returns the charge of the first battery found under the sysfs
// power_supply directory
func (p *Probe) Battery() (int, bool) {
	if p.cfg.BatteryDir == "" {
		return 0, false
	}
	supplies, err := os.ReadDir(p.cfg.BatteryDir)
	if err != nil {
		return 0, false
	}

	for _, s := range supplies {
		dir := filepath.Join(p.cfg.BatteryDir, s.Name())
		kind, err := os.ReadFile(filepath.Join(dir, "type"))
		if err != nil || strings.TrimSpace(string(kind)) != "Battery" {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, "capacity"))
		if err != nil {
			continue
		}
		pct, err := strconv.Atoi(strings.TrimSpace(string(raw)))
		if err != nil || pct < 0 || pct > 100 {
			continue
		}
		return pct, true
	}
	return 0, false
}

// Location returns the device position. Sharing must be enabled; fixed
// coordinates win over the geolocation URL. The lookup is bounded by the
// configured geolocation timeout.
func (p *Probe) Location(ctx context.Context) (float64, float64, bool) {
	if !p.cfg.ShareLocation {
		return 0, 0, false
	}
	if p.cfg.Latitude != nil && p.cfg.Longitude != nil {
		return *p.cfg.Latitude, *p.cfg.Longitude, true
	}
	if p.cfg.GeolocationURL == "" {
		return 0, 0, false
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.GeolocationTimeout)
	defer cancel()

	lat, lon, err := p.lookup(ctx)
	if err != nil {
		slog.WarnContext(ctx, "geolocation unavailable", "error", err)
		return 0, 0, false
	}
	return lat, lon, true
}

type position struct {
	Lat       *float64 `json:"lat"`
	Lon       *float64 `json:"lon"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (pos position) coords() (float64, float64, bool) {
	switch {
	case pos.Lat != nil && pos.Lon != nil:
		return *pos.Lat, *pos.Lon, true
	case pos.Latitude != nil && pos.Longitude != nil:
		return *pos.Latitude, *pos.Longitude, true
	}
	return 0, 0, false
}

// lookup queries an IP geolocation service answering {"lat","lon"} or
// {"latitude","longitude"}
func (p *Probe) lookup(ctx context.Context) (float64, float64, error) {
	type result struct {
		lat, lon float64
		err      error
	}
	done := make(chan result, 1)

	go func() {
		req := protocol.AcquireRequest()
		resp := protocol.AcquireResponse()
		defer func() {
			protocol.ReleaseRequest(req)
			protocol.ReleaseResponse(resp)
		}()

		req.SetMethod(consts.MethodGet)
		req.SetRequestURI(p.cfg.GeolocationURL)
		if err := p.http.DoTimeout(ctx, req, resp, p.cfg.GeolocationTimeout); err != nil {
			done <- result{err: fmt.Errorf("request failed: %w", err)}
			return
		}
		if resp.StatusCode() != consts.StatusOK {
			done <- result{err: fmt.Errorf("geolocation service returned HTTP %d", resp.StatusCode())}
			return
		}

		var pos position
		if err := sonic.Unmarshal(resp.Body(), &pos); err != nil {
			done <- result{err: fmt.Errorf("failed to unmarshal response: %w", err)}
			return
		}
		lat, lon, ok := pos.coords()
		if !ok {
			done <- result{err: errors.New("response has no coordinates")}
			return
		}
		done <- result{lat: lat, lon: lon}
	}()

	select {
	case r := <-done:
		return r.lat, r.lon, r.err
	case <-ctx.Done():
		return 0, 0, ctx.Err()
	}
}
