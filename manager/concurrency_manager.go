package manager

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"llamaid/config"
	"llamaid/logging"
	"llamaid/metrics"
)

var log *logrus.Logger

func init() {
	log = logging.GetLogger()
}

// ErrOverloaded is returned by Acquire when no backend slot freed up within the wait timeout.
var ErrOverloaded = errors.New("too many requests waiting for the backend")

// RequestMetrics holds the queue and processing counts of the relay.
type RequestMetrics struct {
	QueueSize              int
	ProcessingCount        int
	LastLogTime            time.Time
	queueSizeChanged       bool
	processingCountChanged bool
	mu                     sync.Mutex
}

// ConcurrencyManager admits requests to the backend. With a zero limit every request is
// admitted immediately and only the counters are maintained.
type ConcurrencyManager struct {
	sem         chan struct{}
	waitTimeout time.Duration
	metrics     *RequestMetrics
	collectors  *metrics.Collectors
	closed      chan struct{}
	closeOnce   sync.Once
}

// NewConcurrencyManager creates a manager and starts its metrics logger. collectors may be nil.
func NewConcurrencyManager(cfg config.ConcurrencyConfig, collectors *metrics.Collectors) *ConcurrencyManager {
	cm := &ConcurrencyManager{
		waitTimeout: cfg.WaitTimeout,
		metrics:     &RequestMetrics{},
		collectors:  collectors,
		closed:      make(chan struct{}),
	}
	if cm.waitTimeout <= 0 {
		cm.waitTimeout = config.DefaultWaitTimeout
	}
	if cfg.MaxInFlight > 0 {
		cm.sem = make(chan struct{}, cfg.MaxInFlight)
		log.Infof("Backend concurrency limited to %d in-flight requests", cfg.MaxInFlight)
	}

	go cm.monitorMetrics()
	return cm
}

// Acquire waits for a backend slot. The returned release func must be called exactly once.
// It fails with ErrOverloaded after the wait timeout, or with ctx.Err() if ctx ends first.
func (cm *ConcurrencyManager) Acquire(ctx context.Context) (func(), error) {
	if cm.sem == nil {
		cm.incrementProcessing()
		return cm.releaseFunc(nil), nil
	}

	cm.incrementQueue()

	timer := time.NewTimer(cm.waitTimeout)
	defer timer.Stop()

	select {
	case cm.sem <- struct{}{}:
		cm.decrementQueue()
		cm.incrementProcessing()
		return cm.releaseFunc(cm.sem), nil
	case <-timer.C:
		cm.decrementQueue()
		return nil, ErrOverloaded
	case <-ctx.Done():
		cm.decrementQueue()
		return nil, ctx.Err()
	}
}

func (cm *ConcurrencyManager) releaseFunc(sem chan struct{}) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			cm.decrementProcessing()
			if sem != nil {
				<-sem
			}
		})
	}
}

// Snapshot returns the current queued and processing counts.
func (cm *ConcurrencyManager) Snapshot() (queued, processing int) {
	cm.metrics.mu.Lock()
	defer cm.metrics.mu.Unlock()
	return cm.metrics.QueueSize, cm.metrics.ProcessingCount
}

// monitorMetrics logs changes in the counters at most once per second.
func (cm *ConcurrencyManager) monitorMetrics() {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-cm.closed:
			return
		case <-ticker.C:
		}

		m := cm.metrics
		m.mu.Lock()
		now := time.Now()
		if (m.queueSizeChanged || m.processingCountChanged) && now.Sub(m.LastLogTime) >= time.Second {
			log.Infof("Queued: %d | Processing: %d", m.QueueSize, m.ProcessingCount)
			m.LastLogTime = now
			m.queueSizeChanged = false
			m.processingCountChanged = false
		}
		m.mu.Unlock()
	}
}

func (cm *ConcurrencyManager) incrementQueue() {
	m := cm.metrics
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QueueSize++
	m.queueSizeChanged = true
	if cm.collectors != nil {
		cm.collectors.Queued.Inc()
	}
}

func (cm *ConcurrencyManager) decrementQueue() {
	m := cm.metrics
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueueSize > 0 {
		m.QueueSize--
		m.queueSizeChanged = true
		if cm.collectors != nil {
			cm.collectors.Queued.Dec()
		}
	}
}

func (cm *ConcurrencyManager) incrementProcessing() {
	m := cm.metrics
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ProcessingCount++
	m.processingCountChanged = true
	if cm.collectors != nil {
		cm.collectors.InFlight.Inc()
	}
}

func (cm *ConcurrencyManager) decrementProcessing() {
	m := cm.metrics
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ProcessingCount > 0 {
		m.ProcessingCount--
		m.processingCountChanged = true
		if cm.collectors != nil {
			cm.collectors.InFlight.Dec()
		}
	}
}

// Shutdown stops the metrics logger. Slots already handed out stay valid.
func (cm *ConcurrencyManager) Shutdown() {
	cm.closeOnce.Do(func() { close(cm.closed) })
}
