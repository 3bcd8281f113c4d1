/*
spawner.go - Power-up offer spawning

PURPOSE:
  Periodically offers a randomized, rarity-weighted power-up from the
  catalog. Offers sit on screen until collected or until their TTL
  elapses; collecting one activates its effect through the registry.

SELECTION:
  Cumulative-weight draw: each catalog entry contributes its rarity's
  weight to a running total, a uniform draw in [0, total) picks the
  first entry whose cumulative weight exceeds it. Ties resolve by
  catalog order.

SCHEDULING:
  One cancellable handle drives the whole loop: each spawn schedules the
  next occurrence after a fresh randomized interval. Despawn timers
  carry the offer id and re-validate it, same discipline as effect
  expiry.

SEE ALSO:
  - effects.go: Activation of collected offers
  - config: Spawn window, offer TTL, display cap
*/
package engine

import (
	"sort"
	"time"

	"github.com/aikazu/chpun/config"
)

// =============================================================================
// OFFERS
// =============================================================================

// Offer is a spawned, not-yet-collected power-up.
type Offer struct {
	ID        int64
	PowerUp   PowerUp
	ExpiresAt time.Time
}

type liveOffer struct {
	offer Offer
	timer Timer
}

// =============================================================================
// SPAWNER
// =============================================================================

type Spawner struct {
	cfg     config.Balance
	clock   Clock
	rng     RNG
	run     func(func())
	effects *Effects
	sink    Sink

	catalog     []PowerUp
	totalWeight int

	nextOfferID int64
	offers      map[int64]*liveOffer

	running bool
	gen     uint64
	timer   Timer
}

func NewSpawner(cfg config.Balance, clock Clock, rng RNG, run func(func()), effects *Effects, sink Sink, catalog []PowerUp) *Spawner {
	if run == nil {
		run = func(fn func()) { fn() }
	}
	if sink == nil {
		sink = NopSink{}
	}
	total := 0
	for _, p := range catalog {
		total += p.Rarity.Weight()
	}
	return &Spawner{
		cfg:         cfg,
		clock:       clock,
		rng:         rng,
		run:         run,
		effects:     effects,
		sink:        sink,
		catalog:     catalog,
		totalWeight: total,
		offers:      make(map[int64]*liveOffer),
	}
}

// Start begins the spawn loop. Idempotent.
func (s *Spawner) Start() {
	if s.running || len(s.catalog) == 0 {
		return
	}
	s.running = true
	s.scheduleNext()
}

// Stop cancels the pending spawn. Live offers keep their despawn timers.
func (s *Spawner) Stop() {
	if !s.running {
		return
	}
	s.running = false
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Spawner) scheduleNext() {
	window := s.cfg.SpawnMaxMs - s.cfg.SpawnMinMs
	delay := s.cfg.SpawnMinMs
	if window > 0 {
		delay += int64(s.rng.Float64() * float64(window))
	}
	s.gen++
	gen := s.gen
	s.timer = s.clock.AfterFunc(time.Duration(delay)*time.Millisecond, func() {
		s.run(func() { s.spawn(gen) })
	})
}

func (s *Spawner) spawn(gen uint64) {
	if gen != s.gen || !s.running {
		return
	}
	// Cap applies to displayed offers, not live effects.
	if len(s.offers) < s.cfg.MaxOffers {
		def := s.pick()
		s.nextOfferID++
		id := s.nextOfferID
		offer := &liveOffer{offer: Offer{
			ID:        id,
			PowerUp:   def,
			ExpiresAt: s.clock.Now().Add(time.Duration(s.cfg.OfferTTLMs) * time.Millisecond),
		}}
		s.offers[id] = offer
		offer.timer = s.clock.AfterFunc(time.Duration(s.cfg.OfferTTLMs)*time.Millisecond, func() {
			s.run(func() { s.despawn(id) })
		})
	}
	s.scheduleNext()
}

// pick draws a catalog entry by cumulative rarity weight.
func (s *Spawner) pick() PowerUp {
	draw := s.rng.Float64() * float64(s.totalWeight)
	cum := 0
	for _, p := range s.catalog {
		cum += p.Rarity.Weight()
		if draw < float64(cum) {
			return p
		}
	}
	return s.catalog[len(s.catalog)-1]
}

// despawn removes an uncollected offer when its TTL elapses. A stale id
// (already collected) is a no-op.
func (s *Spawner) despawn(id int64) {
	o, ok := s.offers[id]
	if !ok {
		return
	}
	delete(s.offers, id)
	if o.timer != nil {
		o.timer.Stop()
	}
}

// ClearOffers despawns every displayed offer immediately, stopping their
// TTL timers. Used on full reset so a stale offer cannot be collected
// against the fresh ledger.
func (s *Spawner) ClearOffers() {
	for id := range s.offers {
		s.despawn(id)
	}
}

// Collect activates the offer's power-up and removes it from display.
func (s *Spawner) Collect(id int64) error {
	o, ok := s.offers[id]
	if !ok {
		return ErrOfferNotFound
	}
	delete(s.offers, id)
	if o.timer != nil {
		o.timer.Stop()
	}
	s.effects.Activate(o.offer.PowerUp)
	return nil
}

// Offers lists displayed offers in spawn order.
func (s *Spawner) Offers() []Offer {
	out := make([]Offer, 0, len(s.offers))
	for _, o := range s.offers {
		out = append(out, o.offer)
	}
	sortOffers(out)
	return out
}

func sortOffers(offers []Offer) {
	sort.Slice(offers, func(i, j int) bool { return offers[i].ID < offers[j].ID })
}
