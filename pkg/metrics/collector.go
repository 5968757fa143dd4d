package metrics

import (
	"sync"

	"github.com/matzehuels/boxtree/pkg/boxtree"
	"github.com/matzehuels/boxtree/pkg/errors"
)

// Collector gathers metrics that arrive one label at a time, possibly from
// several goroutines, and hands them out only once every slot is filled.
type Collector struct {
	mu      sync.Mutex
	metrics []boxtree.TextMetrics
	have    []bool
	missing int
}

// NewCollector returns a collector expecting n metrics.
func NewCollector(n int) *Collector {
	return &Collector{
		metrics: make([]boxtree.TextMetrics, n),
		have:    make([]bool, n),
		missing: n,
	}
}

// Set records the metrics of node i. Setting a slot twice overwrites it.
func (c *Collector) Set(i int, m boxtree.TextMetrics) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.metrics) {
		return errors.New(errors.ErrCodeInvalidInput, "metrics index %d out of range [0,%d)", i, len(c.metrics))
	}
	if !c.have[i] {
		c.have[i] = true
		c.missing--
	}
	c.metrics[i] = m
	return nil
}

// Missing returns how many slots are still empty.
func (c *Collector) Missing() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.missing
}

// Metrics returns a copy of the collected metrics, or [boxtree.ErrNotReady]
// while any slot is empty.
func (c *Collector) Metrics() ([]boxtree.TextMetrics, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.missing > 0 {
		return nil, boxtree.ErrNotReady
	}
	out := make([]boxtree.TextMetrics, len(c.metrics))
	copy(out, c.metrics)
	return out, nil
}
