package progress

import (
	"bytes"
	"regexp"
	"strconv"
)

// Event is a single decoded progress update.
type Event struct {
	Percent float64
	// Monotonic is false when the tool restarted counting (a new sub-phase),
	// true when the value advanced within the current phase.
	Monotonic bool
}

// Sink receives decoded progress events. Implementations must not block the
// pipeline; failures are the sink's own concern.
type Sink func(Event)

// DefaultThreshold is the minimum advance, in percentage points, between
// emitted events.
const DefaultThreshold = 2.0

// finalBand is the region near completion where every advance is emitted
// regardless of threshold.
const finalBand = 99.0

var percentPattern = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)\s*%`)

// Parser is a stateful line assembler and percentage scanner. One Parser
// serves exactly one download attempt; allocate a fresh one per attempt so
// the debounce baseline starts clean.
type Parser struct {
	threshold float64
	buf       bytes.Buffer
	last      float64
	emitted   bool
}

// NewParser constructs a parser with the given advance threshold. A
// non-positive threshold selects DefaultThreshold.
func NewParser(threshold float64) *Parser {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Parser{threshold: threshold}
}

// Feed consumes a chunk of raw tool output and returns any events the chunk
// completed. Records terminate on '\n' or '\r'.
func (p *Parser) Feed(chunk []byte) []Event {
	var events []Event
	for _, b := range chunk {
		if b == '\n' || b == '\r' {
			if event, ok := p.scanRecord(p.buf.String()); ok {
				events = append(events, event)
			}
			p.buf.Reset()
			continue
		}
		p.buf.WriteByte(b)
	}
	return events
}

// Flush scans any buffered partial record. Call once after the tool's output
// stream closes.
func (p *Parser) Flush() (Event, bool) {
	defer p.buf.Reset()
	return p.scanRecord(p.buf.String())
}

func (p *Parser) scanRecord(line string) (Event, bool) {
	match := percentPattern.FindStringSubmatch(line)
	if match == nil {
		return Event{}, false
	}
	percent, err := strconv.ParseFloat(match[1], 64)
	if err != nil || percent < 0 || percent > 100 {
		return Event{}, false
	}

	if !p.emitted {
		p.emitted = true
		p.last = percent
		return Event{Percent: percent, Monotonic: true}, true
	}

	switch {
	case percent >= p.last+p.threshold:
		p.last = percent
		return Event{Percent: percent, Monotonic: true}, true
	case percent >= finalBand && percent > p.last:
		p.last = percent
		return Event{Percent: percent, Monotonic: true}, true
	case percent < p.last && percent < p.threshold:
		// The tool restarted counting for a new sub-phase; re-arm.
		p.last = percent
		return Event{Percent: percent, Monotonic: false}, true
	default:
		return Event{}, false
	}
}
