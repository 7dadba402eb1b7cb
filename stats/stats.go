package stats

import (
	"fmt"
	"io"
	"sort"
)

type EventType string

const (
	EventTypeLoaded   EventType = "loaded"
	EventTypeFiltered EventType = "filtered"
	EventTypeSkipped  EventType = "skipped"
)

// Event is emitted by the mail store while it loads spool files.
type Event struct {
	Type     EventType
	Source   string
	Messages int
	Err      error
}

type Summary struct {
	Sources   int
	Messages  int
	Filtered  int
	Skipped   int
	LastError error
	PerSource map[string]int
}

func (s Summary) LogAttrs() []any {
	attrs := []any{
		"sources", s.Sources,
		"messages", s.Messages,
		"filtered", s.Filtered,
		"skipped", s.Skipped,
	}
	if s.LastError != nil {
		attrs = append(attrs, "lastError", s.LastError.Error())
	}
	return attrs
}

// Collector aggregates load events. The pager is single-threaded, so events
// are recorded synchronously.
type Collector struct {
	summary Summary
	order   []string
}

func NewCollector() *Collector {
	return &Collector{summary: Summary{PerSource: make(map[string]int)}}
}

func (c *Collector) Record(evt Event) {
	if c == nil {
		return
	}
	switch evt.Type {
	case EventTypeLoaded:
		c.summary.Sources++
		c.summary.Messages += evt.Messages
		if _, seen := c.summary.PerSource[evt.Source]; !seen {
			c.order = append(c.order, evt.Source)
		}
		c.summary.PerSource[evt.Source] += evt.Messages
	case EventTypeFiltered:
		c.summary.Filtered += evt.Messages
	case EventTypeSkipped:
		c.summary.Skipped++
		if evt.Err != nil {
			c.summary.LastError = evt.Err
		}
	}
}

// Snapshot returns a copy of the aggregated summary.
func (c *Collector) Snapshot() Summary {
	summary := c.summary
	summary.PerSource = make(map[string]int, len(c.summary.PerSource))
	for k, v := range c.summary.PerSource {
		summary.PerSource[k] = v
	}
	return summary
}

// Sources lists loaded sources in the order they were first seen.
func (c *Collector) Sources() []string {
	return append([]string(nil), c.order...)
}

// PrettyPrintTop writes the top N most frequent items in m to w.
// Ties are ordered by key so output is stable.
func PrettyPrintTop(w io.Writer, m map[string]int, limit int) {
	type pair struct {
		Key   string
		Value int
	}

	pairs := make([]pair, 0, len(m))
	for k, v := range m {
		pairs = append(pairs, pair{k, v})
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Value != pairs[j].Value {
			return pairs[i].Value > pairs[j].Value
		}
		return pairs[i].Key < pairs[j].Key
	})

	for i := 0; i < limit && i < len(pairs); i++ {
		fmt.Fprintf(w, "%d. %s (%d)\n", i+1, pairs[i].Key, pairs[i].Value)
	}
}
