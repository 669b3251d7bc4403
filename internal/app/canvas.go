package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"dompet/internal/summary"
)

// Canvas is the charting collaborator. Every chart it draws must be
// destroyed before the next one is drawn.
type Canvas interface {
	Draw(ctx context.Context, cfg summary.ChartConfig) (Chart, error)
}

// Chart is a drawn chart. Payload is what the view embeds for the
// client-side renderer.
type Chart interface {
	Payload() []byte
	Destroy()
}

// JSONCanvas renders chart configurations to the JSON consumed by
// Chart.js in the browser and tracks how many charts are alive.
type JSONCanvas struct {
	live atomic.Int64
}

func NewJSONCanvas() *JSONCanvas {
	return &JSONCanvas{}
}

func (c *JSONCanvas) Draw(_ context.Context, cfg summary.ChartConfig) (Chart, error) {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode chart config: %w", err)
	}
	c.live.Add(1)
	return &jsonChart{canvas: c, payload: raw}, nil
}

// Live returns the number of drawn charts not yet destroyed.
func (c *JSONCanvas) Live() int64 {
	return c.live.Load()
}

type jsonChart struct {
	canvas  *JSONCanvas
	payload []byte
	once    sync.Once
}

func (ch *jsonChart) Payload() []byte {
	return ch.payload
}

func (ch *jsonChart) Destroy() {
	ch.once.Do(func() {
		ch.payload = nil
		ch.canvas.live.Add(-1)
	})
}
