package application

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const DefaultPollInterval = 10 * time.Second

type Refresher interface {
	Refresh(ctx context.Context) error
}

// Poller keeps the plan and job caches warm between state-changing actions.
type Poller struct {
	interval   time.Duration
	refreshers []Refresher
}

func NewPoller(interval time.Duration, refreshers ...Refresher) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{interval: interval, refreshers: refreshers}
}

// Run refreshes once immediately and then every interval until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	p.poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

// Start runs the poller in the background. The returned stop cancels it and waits for exit.
func (p *Poller) Start(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.Run(ctx)
	}()
	log.Debugf("poller started (interval=%s)", p.interval)

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			wg.Wait()
		})
	}
}

func (p *Poller) poll(ctx context.Context) {
	for _, refresher := range p.refreshers {
		if ctx.Err() != nil {
			return
		}
		if err := refresher.Refresh(ctx); err != nil {
			log.WithError(err).Warn("poller: refresh failed")
		}
	}
}
