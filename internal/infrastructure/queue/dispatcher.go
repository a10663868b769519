package queue

import (
	"context"
	"encoding/binary"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/otcdesk/exchange-bot/internal/core/domain"
	"github.com/otcdesk/exchange-bot/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// RoleLister resolves the reviewer set a broadcast fans out to.
type RoleLister interface {
	ListByRole(ctx context.Context, role domain.Role) ([]int64, error)
}

// Dispatcher routes summary refreshes to a fixed set of workers using
// consistent hashing on the reviewer id. Refreshes for the same reviewer are
// serialized, so a reviewer can never end up with two summary messages from
// racing updates.
type Dispatcher struct {
	workers []chan int64
	inner   ports.Notifier
	roles   RoleLister
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers around
// the synchronous notifier. If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, inner ports.Notifier, roles RoleLister, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan int64, numWorkers),
		inner:   inner,
		roles:   roles,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan int64, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Refresh enqueues a summary refresh for one reviewer. Non-blocking up to
// channelBuffer capacity.
func (d *Dispatcher) Refresh(_ context.Context, reviewerID int64) {
	d.workers[d.shardIndex(reviewerID)] <- reviewerID
}

// ShowNext is served synchronously; only refreshes go through the queue.
func (d *Dispatcher) ShowNext(ctx context.Context, reviewerID int64) (*domain.Application, int, error) {
	return d.inner.ShowNext(ctx, reviewerID)
}

// BroadcastNewDeposit expands to one queued refresh per deposit reviewer, so
// each reviewer's update still lands on their own shard.
func (d *Dispatcher) BroadcastNewDeposit(ctx context.Context) {
	reviewers, err := d.roles.ListByRole(ctx, domain.RoleSuperAdmin)
	if err != nil {
		d.log.Error().Err(err).Msg("reviewer list lookup failed, skipping broadcast")
		return
	}
	for _, id := range reviewers {
		d.Refresh(ctx, id)
	}
}

// shardIndex maps a reviewer id deterministically to a worker index.
func (d *Dispatcher) shardIndex(reviewerID int64) int {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(reviewerID))
	h := fnv.New32a()
	_, _ = h.Write(buf[:])
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan int64) {
	for {
		select {
		case <-ctx.Done():
			return
		case reviewerID, ok := <-ch:
			if !ok {
				return
			}
			d.inner.Refresh(ctx, reviewerID)
			d.log.Debug().Int64("reviewer_id", reviewerID).Int("worker_id", id).Msg("summary refreshed")
		}
	}
}
