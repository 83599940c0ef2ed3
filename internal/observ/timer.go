package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Phase is one named bucket of accumulated time. Driver phases (prefetch,
// schedule) are entered once; goal kinds accumulate one entry per Job.
type Phase struct {
	Name  string
	Dur   time.Duration
	Count int
	Note  string
	start time.Time
}

// Timer accumulates durations per phase name, in first-seen order.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
	index  map[string]int
}

func NewTimer() *Timer {
	return &Timer{phases: make([]Phase, 0, 8), index: make(map[string]int)}
}

func (t *Timer) slot(name string) *Phase {
	idx, ok := t.index[name]
	if !ok {
		idx = len(t.phases)
		t.phases = append(t.phases, Phase{Name: name})
		t.index[name] = idx
	}
	return &t.phases[idx]
}

// Begin starts timing name and returns a token for End.
func (t *Timer) Begin(name string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.slot(name).start = time.Now()
	return name
}

// End stops the phase started by Begin.
func (t *Timer) End(name, note string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	idx, ok := t.index[name]
	if !ok || t.phases[idx].start.IsZero() {
		return
	}
	p := &t.phases[idx]
	p.Dur += time.Since(p.start)
	p.Count++
	p.start = time.Time{}
	if note != "" {
		p.Note = note
	}
}

// Add accumulates d under name.
func (t *Timer) Add(name string, d time.Duration) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	p := t.slot(name)
	p.Dur += d
	p.Count++
}

// Summary renders the report as an aligned table.
func (t *Timer) Summary() string {
	report := t.Report()
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, p := range report.Phases {
		fmt.Fprintf(&sb, "  %-20s %9.2f ms  x%-4d", p.Name, p.DurationMS, p.Count)
		if p.Note != "" {
			sb.WriteString("  // " + p.Note)
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "  %-20s %9.2f ms\n", "total", report.TotalMS)
	return sb.String()
}

// PhaseReport представляет сжатую информацию о фазе таймера для сериализации.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Count      int     `json:"count"`
	Note       string  `json:"note,omitempty"`
}

// Report описывает агрегированные данные таймера.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report возвращает фазы и суммарную длительность в миллисекундах.
// Фазы вложены (schedule включает время целей), поэтому total считается
// только по фазам, которые запускались ровно один раз.
func (t *Timer) Report() Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.phases) == 0 {
		return Report{}
	}
	report := Report{Phases: make([]PhaseReport, len(t.phases))}
	var total time.Duration
	for i, phase := range t.phases {
		if !phase.start.IsZero() || phase.Count == 0 {
			report.Phases[i] = PhaseReport{Name: phase.Name, Note: phase.Note}
			continue
		}
		report.Phases[i] = PhaseReport{
			Name:       phase.Name,
			DurationMS: durationToMillis(phase.Dur),
			Count:      phase.Count,
			Note:       phase.Note,
		}
	}
	for _, phase := range t.phases {
		if strings.HasPrefix(phase.Name, "driver:") {
			total += phase.Dur
		}
	}
	report.TotalMS = durationToMillis(total)
	return report
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
