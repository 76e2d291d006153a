package asr

import (
	"github.com/nguyentantai21042004/speechnote/internal/logger"
	"github.com/nguyentantai21042004/speechnote/internal/metrics"
)

type implAcquirer struct {
	backend Backend
	opts    Options
	logger  logger.Logger
	metrics *metrics.Metrics
}

// NewAcquirer creates an Acquirer calling backend once per unit
func NewAcquirer(backend Backend, opts Options, log logger.Logger, m *metrics.Metrics) Acquirer {
	if opts.MaxParallel < 1 {
		opts.MaxParallel = 1
	}
	return &implAcquirer{
		backend: backend,
		opts:    opts,
		logger:  log.With("backend", backend.Name()),
		metrics: m,
	}
}
