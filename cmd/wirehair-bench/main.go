// Command wirehair-bench runs round-trip trials against the codec: encode a
// random message, drop a fraction of its blocks plus epsilon extras, decode,
// and verify the reconstruction matches. It reports trial and success counts
// and elapsed time; it does not count row operations. Trials run concurrently via errgroup, one codec
// pair per trial, matching spec.md §5's "parallelism lives between codecs,
// never inside one" concurrency model.
package main

import (
	"bytes"
	cryptorand "crypto/rand"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/francoispqt/gojay"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/wirehair-go/wirehair/internal/dropper"
	"github.com/wirehair-go/wirehair/wirehair"
)

var log = logrus.WithField("component", "wirehair-bench")

type trialResult struct {
	N         int
	M         int
	LossRate  float64
	Trials    int
	Successes int
	ElapsedMS int64
}

// MarshalJSONObject implements gojay.MarshalerJSONObject.
func (r *trialResult) MarshalJSONObject(enc *gojay.Encoder) {
	enc.IntKey("N", r.N)
	enc.IntKey("M", r.M)
	enc.Float64Key("loss_rate", r.LossRate)
	enc.IntKey("trials", r.Trials)
	enc.IntKey("successes", r.Successes)
	enc.Int64Key("elapsed_ms", r.ElapsedMS)
}

func (r *trialResult) IsNil() bool { return r == nil }

func main() {
	blockCount := flag.Int("n", 1024, "block count N (must be a tabulated size)")
	blockBytes := flag.Int("m", 1400, "block size M in bytes")
	lossRate := flag.Float64("loss", 0.1, "fraction of blocks to drop before decode")
	trials := flag.Int("trials", 50, "number of independent trials")
	concurrency := flag.Int("concurrency", 8, "max concurrent trials")
	metricsAddr := flag.String("metrics", "", "if set, serve Prometheus /metrics on this address (e.g. :9100) after the trials finish, until the process is stopped")
	flag.Parse()

	stats := wirehair.NewStats()
	reg := prometheus.NewRegistry()
	for _, c := range stats.Collectors() {
		reg.MustRegister(c)
	}

	messageBytes := *blockCount * *blockBytes

	var successes atomic.Int64
	start := time.Now()

	g := new(errgroup.Group)
	g.SetLimit(*concurrency)
	for i := 0; i < *trials; i++ {
		trialID := i
		g.Go(func() error {
			drop := dropper.New(*lossRate, rand.New(rand.NewSource(int64(trialID)+1)))
			ok, err := runTrial(*blockCount, *blockBytes, messageBytes, drop, stats)
			if err != nil {
				log.WithField("trial", trialID).WithError(err).Error("trial failed")
				return err
			}
			if ok {
				successes.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.WithError(err).Fatal("bench aborted")
	}

	result := &trialResult{
		N:         *blockCount,
		M:         *blockBytes,
		LossRate:  *lossRate,
		Trials:    *trials,
		Successes: int(successes.Load()),
		ElapsedMS: time.Since(start).Milliseconds(),
	}
	b, err := gojay.MarshalJSONObject(result)
	if err != nil {
		log.WithError(err).Fatal("encoding result")
	}
	fmt.Println(string(b))

	if *metricsAddr != "" {
		http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		log.WithField("addr", *metricsAddr).Info("serving /metrics")
		if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
			log.WithError(err).Fatal("metrics server")
		}
	}
}

// runTrial encodes a random message, decodes it back from a lossy,
// reordered feed of blocks plus epsilon extras, and reports whether the
// reconstruction matched.
func runTrial(n, m, messageBytes int, drop *dropper.Bernoulli, stats *wirehair.Stats) (bool, error) {
	message := make([]byte, messageBytes)
	if _, err := cryptorand.Read(message); err != nil {
		return false, err
	}

	enc, err := wirehair.NewEncoder(wirehair.Params{T: messageBytes, M: m})
	if err != nil {
		return false, err
	}
	if err := enc.EncodeFeed(message); err != nil {
		return false, err
	}

	dec, err := wirehair.NewDecoder(wirehair.Params{T: messageBytes, M: m})
	if err != nil {
		return false, err
	}

	order := rand.Perm(n + 32)
	block := make([]byte, m)
	var solveErr error
	fed := 0
	for _, id := range order {
		if id < n && drop.Drop() {
			continue
		}
		enc.Encode(uint32(id), block)
		err := dec.DecodeFeed(uint32(id), block)
		fed++
		if fed > n {
			// rows after the Nth go through ResumeSolveMatrix
			stats.ObserveResume()
		}
		if err == nil {
			solveErr = nil
			break
		}
		if err != wirehair.ErrMoreBlocks {
			solveErr = err
			break
		}
	}
	stats.Observe(dec)
	if solveErr != nil {
		return false, solveErr
	}

	out := make([]byte, messageBytes)
	if err := dec.ReconstructOutput(out); err != nil {
		return false, nil
	}
	return bytes.Equal(out, message), nil
}
