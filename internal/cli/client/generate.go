package client

import (
	"bytes"
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/lvyanru/coractl/internal/cli/stream"
)

// DeviceTimeLayout renders device_time like "Sun, Oct 18, 2026, 3:04 PM CEST"
const DeviceTimeLayout = "Mon, Jan 2, 2006, 3:04 PM MST"

// DeviceContext is the local device state attached to /generate requests
type DeviceContext interface {
	Now() time.Time
	Timezone() string
	// Battery returns the charge percentage; ok is false when unknown
	Battery() (percent int, ok bool)
	// Location returns the device position; ok is false when sharing is
	// denied, fails, or ctx expires
	Location(ctx context.Context) (lat, lon float64, ok bool)
}

var weatherTerms = []string{"weather", "temperature", "forecast"}

// wantsLocation reports whether query asks for something location dependent
func wantsLocation(query string) bool {
	lower := strings.ToLower(query)
	for _, term := range weatherTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// Generate asks the assistant and streams the answer. onChunk receives each
// decoded piece of text in arrival order. On a non-2xx response the error
// carries the body text and onChunk is never called.
func (c *APIClient) Generate(ctx context.Context, query string, onChunk func(string), attachments []Attachment) error {
	form := c.generateForm(ctx, query, attachments)

	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	cl := &call{op: "generate answer", method: consts.MethodPost, path: endpointGenerate, form: form}
	if err := c.prepare(cl, req); err != nil {
		return &RequestError{Op: cl.op, Err: err}
	}
	req.Header.Set("Accept", "text/event-stream")

	if err := c.stream.Do(ctx, req, resp); err != nil {
		return &RequestError{Op: cl.op, Err: err}
	}

	if status := resp.StatusCode(); status < 200 || status >= 300 {
		return newAPIError(status, resp.Body(), bodyText, "Failed to generate answer")
	}

	var body io.Reader
	if resp.IsBodyStream() {
		body = resp.BodyStream()
		defer resp.CloseBodyStream()
	} else {
		body = bytes.NewReader(resp.Body())
	}

	if onChunk == nil {
		onChunk = func(string) {}
	}
	if err := stream.Copy(body, onChunk); err != nil {
		return &RequestError{Op: "read answer stream", Err: err}
	}
	return nil
}

func (c *APIClient) generateForm(ctx context.Context, query string, attachments []Attachment) *formBody {
	form := (&formBody{}).field("query", query)
	for _, a := range attachments {
		form.file("files", a)
	}

	if c.device == nil {
		now := time.Now()
		return form.
			field("device_time", now.Format(DeviceTimeLayout)).
			field("timezone", now.Location().String())
	}

	form.field("device_time", c.device.Now().Format(DeviceTimeLayout)).
		field("timezone", c.device.Timezone())

	if pct, ok := c.device.Battery(); ok {
		form.field("battery", strconv.Itoa(pct))
	}

	if wantsLocation(query) {
		if lat, lon, ok := c.device.Location(ctx); ok {
			form.field("lat", strconv.FormatFloat(lat, 'f', -1, 64)).
				field("lon", strconv.FormatFloat(lon, 'f', -1, 64))
		}
	}
	return form
}
