package jobs

import (
	"log"
	"sync"
	"time"
)

// Sweeper drops idle entries and reports how many went.
type Sweeper interface {
	Cleanup() int
}

// LimiterCleanupJob periodically evicts idle per-client rate limiters
type LimiterCleanupJob struct {
	sweeper  Sweeper
	interval time.Duration
	stopChan chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewLimiterCleanupJob creates a new cleanup job
func NewLimiterCleanupJob(sweeper Sweeper, interval time.Duration) *LimiterCleanupJob {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &LimiterCleanupJob{
		sweeper:  sweeper,
		interval: interval,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins the cleanup job
func (j *LimiterCleanupJob) Start() {
	go j.run()
	log.Println("🚀 Rate limiter cleanup job started")
}

// Stop stops the cleanup job and waits for the loop to exit
func (j *LimiterCleanupJob) Stop() {
	j.stopOnce.Do(func() {
		close(j.stopChan)
		<-j.done
		log.Println("🛑 Rate limiter cleanup job stopped")
	})
}

func (j *LimiterCleanupJob) run() {
	defer close(j.done)
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := j.sweeper.Cleanup(); removed > 0 {
				log.Printf("⏰ Evicted %d idle rate limiters", removed)
			}
		case <-j.stopChan:
			return
		}
	}
}
