package prometheus

import (
	"context"
	"time"

	"github.com/fwojciec/sitekb"
)

// Ensure Ingester implements sitekb.Ingester at compile time.
var _ sitekb.Ingester = (*Ingester)(nil)

// Ingester records the outcome of every ingestion cycle.
type Ingester struct {
	next    sitekb.Ingester
	metrics *Metrics
	now     func() time.Time
}

// NewIngester wraps next with metrics.
func NewIngester(next sitekb.Ingester, metrics *Metrics) *Ingester {
	return &Ingester{next: next, metrics: metrics, now: time.Now}
}

func (i *Ingester) IngestAll(ctx context.Context) (*sitekb.IngestResult, error) {
	begin := i.now()
	result, err := i.next.IngestAll(ctx)
	i.metrics.IngestDuration.Observe(i.now().Sub(begin).Seconds())

	if result != nil {
		for _, sr := range result.Sources {
			i.metrics.SourceDocuments.WithLabelValues(sr.Name).Set(float64(sr.Count))
			if sr.Err != nil {
				i.metrics.SourceFailures.WithLabelValues(sr.Name).Inc()
			}
		}
	}

	if err != nil {
		i.metrics.IngestCycles.WithLabelValues("error").Inc()
		return result, err
	}
	i.metrics.IngestCycles.WithLabelValues("ok").Inc()
	i.metrics.LastIngestSuccess.Set(float64(i.now().Unix()))
	if result != nil {
		i.metrics.DocumentsAdded.Add(float64(result.Added))
	}
	return result, nil
}
