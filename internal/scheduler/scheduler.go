package scheduler

import (
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// IntentExpirer expires pending payment intents created before a cutoff
type IntentExpirer interface {
	ExpireStaleIntents(before time.Time) (int64, error)
}

// Scheduler periodically expires payment intents nobody paid
type Scheduler struct {
	store    IntentExpirer
	logger   *logrus.Logger
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	jobMutex sync.Mutex // Ensures sequential sweeps
}

// NewScheduler creates a new scheduler
func NewScheduler(store IntentExpirer, ttl, interval time.Duration, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
		logger.SetLevel(logrus.InfoLevel)
	}
	if interval <= 0 {
		interval = time.Minute
	}

	return &Scheduler{
		store:    store,
		logger:   logger,
		ttl:      ttl,
		interval: interval,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
}

// Start begins the scheduled sweeps, running one immediately
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.runScheduler()
}

func (s *Scheduler) runScheduler() {
	defer s.wg.Done()

	s.sweep()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

// sweep expires every pending intent older than the TTL and returns how many
func (s *Scheduler) sweep() int64 {
	s.jobMutex.Lock()
	defer s.jobMutex.Unlock()

	cutoff := s.now().Add(-s.ttl)
	expired, err := s.store.ExpireStaleIntents(cutoff)
	if err != nil {
		s.logger.WithError(err).WithField("cutoff", cutoff).Error("Payment intent sweep failed")
		return 0
	}

	if expired > 0 {
		s.logger.WithFields(logrus.Fields{
			"expired": expired,
			"cutoff":  cutoff,
		}).Info("Expired stale payment intents")
	} else {
		s.logger.Debug("No stale payment intents")
	}
	return expired
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
	s.wg.Wait()
}
