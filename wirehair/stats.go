package wirehair

import "github.com/prometheus/client_golang/prometheus"

// Stats is a Prometheus collector exposing per-solve counters. It is not
// touched by the hot solver phases themselves; callers that want the numbers
// pass the codec to Observe after a solve attempt, keeping
// prometheus's registration machinery out of Peel/Compress/Triangle/Substitute.
type Stats struct {
	blockCount     prometheus.Gauge
	deferredCount  prometheus.Gauge
	rowsUsed       prometheus.Gauge
	resumeRounds   prometheus.Counter
	solveCompleted prometheus.Counter
}

// NewStats builds a Stats collector; register it with a prometheus.Registerer
// once per process, not once per codec.
func NewStats() *Stats {
	return &Stats{
		blockCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wirehair_block_count",
			Help: "Number of systematic blocks (N) in the most recent solve.",
		}),
		deferredCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wirehair_deferred_count",
			Help: "Number of peel columns deferred to Gaussian elimination in the most recent solve.",
		}),
		rowsUsed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wirehair_rows_used",
			Help: "Number of rows admitted to the peeling phase (at most N) in the most recent solve; rows admitted while resuming are not counted.",
		}),
		resumeRounds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wirehair_resume_rounds_total",
			Help: "Number of ResumeSolveMatrix calls across all decodes.",
		}),
		solveCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wirehair_solve_completed_total",
			Help: "Number of decodes that reached a solved state.",
		}),
	}
}

// Collectors returns every metric for registration with a
// prometheus.Registerer.
func (s *Stats) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		s.blockCount, s.deferredCount, s.rowsUsed, s.resumeRounds, s.solveCompleted,
	}
}

// Observe records the state of c after a solve attempt. Safe to call whether
// or not c.solved is true yet (ResumeSolveMatrix may call it once per round).
func (s *Stats) Observe(c *Codec) {
	s.blockCount.Set(float64(c.blockCount))
	if c.solver != nil {
		s.deferredCount.Set(float64(c.solver.deferredCount))
		s.rowsUsed.Set(float64(c.solver.rowCount))
	}
	if c.solved {
		s.solveCompleted.Inc()
	}
}

// ObserveResume records one ResumeSolveMatrix round, independent of whether
// it completed triangulation.
func (s *Stats) ObserveResume() {
	s.resumeRounds.Inc()
}
