/*
engine.go - The engine context

PURPOSE:
  Explicitly constructed root object owning the ledger, combo machine,
  effects registry, spawner, and achievement registry. No ambient
  globals: everything reaches collaborators through this context.

CONCURRENCY MODEL:
  One mutex serializes every mutation. External triggers (HTTP calls,
  the auto-tick loop, timer expiries, spawner fires) all funnel through
  exec(), so no two callbacks ever run concurrently and the components
  themselves stay lock-free. "Waiting" is always a scheduled future
  callback, cancelled explicitly before rescheduling.

PERSISTENCE:
  Best-effort side channel. Saves happen after meaningful mutations and
  on an autosave loop; failures are logged with severity and never
  propagate to the gameplay caller. A missing or corrupt record on load
  degrades to default initial state, never a partial merge.

SEE ALSO:
  - save/record.go: Record format and clamping
  - api/handlers.go: The HTTP surface over this context
*/
package engine

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/aikazu/chpun/config"
	"github.com/aikazu/chpun/save"
	"github.com/shopspring/decimal"
)

// =============================================================================
// CONSTRUCTION
// =============================================================================

// Options carries the engine's collaborators. Zero values get sane
// defaults: system clock, seeded RNG, no-op sink, no persistence.
type Options struct {
	Clock        Clock
	RNG          RNG
	Sink         Sink
	Store        save.Store
	Achievements []Achievement
	PowerUps     []PowerUp
}

type Engine struct {
	mu    sync.Mutex
	cfg   config.Balance
	clock Clock
	rng   RNG
	sink  Sink
	store save.Store

	ledger       *Ledger
	combo        *Combo
	effects      *Effects
	spawner      *Spawner
	achievements *Achievements

	running bool
	stop    chan struct{}
	wg      sync.WaitGroup
}

// New builds an engine, loading prior progress from the store when one is
// configured. Load failures fall back to default initial state.
func New(cfg config.Balance, opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.RNG == nil {
		opts.RNG = NewLockedRand(time.Now().UnixNano())
	}
	if opts.Sink == nil {
		opts.Sink = NopSink{}
	}

	e := &Engine{
		cfg:   cfg,
		clock: opts.Clock,
		rng:   opts.RNG,
		sink:  opts.Sink,
		store: opts.Store,
	}

	e.ledger = NewLedger(cfg, e.clock)
	e.combo = NewCombo(e.clock, e.exec)
	e.combo.SetResetHook(func() {
		e.sink.ComboUpdate(1, decZero, 0)
	})
	e.effects = NewEffects(e.clock, e.exec, e.ledger, e.combo, e.sink)
	e.spawner = NewSpawner(cfg, e.clock, e.rng, e.exec, e.effects, e.sink, opts.PowerUps)
	e.achievements = NewAchievements(opts.Achievements, e.ledger, e.sink, e.persistLocked)

	e.loadFromStore()
	return e
}

// exec serializes timer and spawner callbacks with player actions.
func (e *Engine) exec(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn()
}

func (e *Engine) loadFromStore() {
	if e.store == nil {
		return
	}
	rec, err := e.store.Load(context.Background())
	if err != nil {
		log.Printf("[Engine] WARN: load failed, starting fresh: %v", err)
		return
	}
	if rec == nil {
		log.Printf("[Engine] no saved game, starting fresh")
		return
	}
	e.applyState(save.Clamp(rec.State, e.cfg))
	log.Printf("[Engine] loaded save from %s", time.UnixMilli(rec.Timestamp).Format(time.RFC3339))
}

// =============================================================================
// BACKGROUND LOOPS - Auto tick and autosave
// =============================================================================

// Start launches the auto-generation loop, the autosave loop, and the
// power-up spawner.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return
	}
	e.running = true
	e.stop = make(chan struct{})

	e.wg.Add(1)
	go e.runLoop(time.Duration(e.cfg.AutoTickMs)*time.Millisecond, e.AutoTick)
	e.wg.Add(1)
	go e.runLoop(time.Duration(e.cfg.AutosaveMs)*time.Millisecond, e.Persist)

	e.spawner.Start()
	log.Printf("[Engine] started (auto tick %dms, autosave %dms)", e.cfg.AutoTickMs, e.cfg.AutosaveMs)
}

// Stop halts the loops and writes a final save.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	close(e.stop)
	e.spawner.Stop()
	e.persistLocked()
	e.mu.Unlock()

	e.wg.Wait()
	log.Printf("[Engine] stopped")
}

func (e *Engine) runLoop(interval time.Duration, tick func()) {
	defer e.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			tick()
		case <-e.stop:
			return
		}
	}
}

// =============================================================================
// PLAYER ACTIONS
// =============================================================================

// Punch runs one action through the damage pipeline and commits it. The
// combo machine advances first so the hit is rolled at the streak it
// belongs to: the n-th consecutive hit pays out at streak n.
func (e *Engine) Punch() (Hit, int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	streak, milestone := e.combo.RegisterHit(e.ledger.EffectiveComboDuration())
	e.ledger.noteStreak(streak)

	hit := e.ledger.RollHit(streak, ComboBonus(streak), e.rng)
	e.ledger.AddResource(hit.Amount)

	if hit.IsCrit {
		e.achievements.CheckMassiveHit(hit.Amount)
	}

	if milestone > 0 {
		bonus := MilestoneInjection(e.ledger.Power(), milestone)
		e.ledger.Credit(bonus)
		e.sink.Milestone(milestone, bonus)
	}

	e.achievements.Check()
	e.sink.ComboUpdate(streak, ComboBonus(streak), e.combo.Remaining())
	return hit, streak
}

// AutoTick credits one interval of auto generation. Safe to call manually
// in tests; in production the Start loop drives it.
func (e *Engine) AutoTick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	amount := e.ledger.AutoTickAmount()
	if amount.IsPositive() {
		e.ledger.Credit(amount)
	}
	e.achievements.Check()
}

// Upgrade purchases the next level of kind and persists on success.
func (e *Engine) Upgrade(kind UpgradeKind) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.ledger.Upgrade(kind); err != nil {
		return err
	}
	e.achievements.Check()
	e.persistLocked()
	return nil
}

// Prestige resets core progress for a permanent multiplier. Live effects
// are reverted first so no expiry fires against the reset state.
func (e *Engine) Prestige() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.ledger.CanPrestige() {
		return ErrPrestigeUnavailable
	}
	e.effects.ClearAll()
	if err := e.ledger.Prestige(); err != nil {
		return err
	}
	e.achievements.Check()
	e.persistLocked()
	e.sink.Notify(fmt.Sprintf("Prestige! Permanent multiplier rank %d", e.ledger.PrestigePoints()))
	return nil
}

// CollectPowerUp activates a displayed offer.
func (e *Engine) CollectPowerUp(id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.spawner.Collect(id); err != nil {
		return err
	}
	e.achievements.Check()
	e.persistLocked()
	return nil
}

// =============================================================================
// SAVE / EXPORT / IMPORT / RESET
// =============================================================================

// Persist writes the current state, best-effort.
func (e *Engine) Persist() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.persistLocked()
}

// persistLocked assumes the engine lock is held.
func (e *Engine) persistLocked() {
	if e.store == nil {
		return
	}
	rec := save.Record{
		Version:   save.Version,
		Timestamp: e.clock.Now().UnixMilli(),
		State:     e.snapshotState(),
	}
	if err := e.store.Save(context.Background(), rec); err != nil {
		log.Printf("[Engine] ERROR: save failed: %v", err)
	}
}

// Export serializes the full game state for download.
func (e *Engine) Export() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return save.Encode(save.Record{
		Version:   save.Version,
		Timestamp: e.clock.Now().UnixMilli(),
		State:     e.snapshotState(),
	})
}

// Import replaces the game state from an exported record. A structurally
// invalid payload is rejected wholesale; valid payloads have every numeric
// field clamped into its domain rather than trusted.
func (e *Engine) Import(data []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	rec, err := save.Decode(data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptSave, err)
	}

	e.effects.ClearAll()
	e.combo.Reset()
	e.applyState(save.Clamp(rec.State, e.cfg))
	e.persistLocked()
	e.sink.Notify("Save imported")
	return nil
}

// Reset wipes all progress back to initial state and clears the store.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.effects.ClearAll()
	e.spawner.ClearOffers()
	e.combo.Reset()
	e.ledger = NewLedger(e.cfg, e.clock)
	e.effects.ledger = e.ledger
	e.achievements.ledger = e.ledger

	if e.store != nil {
		if err := e.store.Clear(context.Background()); err != nil {
			log.Printf("[Engine] ERROR: clearing save failed: %v", err)
		}
	}
	e.sink.Notify("Game reset")
}

// =============================================================================
// STATE MAPPING
// =============================================================================

func (e *Engine) snapshotState() save.State {
	l := e.ledger
	ids := l.UnlockedIDs()
	unlocked := make([]string, 0, len(ids))
	for _, id := range ids {
		unlocked = append(unlocked, string(id))
	}

	return save.State{
		Resource:             l.resource,
		Power:                e.basePower(),
		UpgradeCost:          l.upgradeCost,
		AutoCost:             l.autoCost,
		AutoUnits:            l.autoUnits,
		AutoRate:             l.autoRate,
		AutoSpeedFactor:      decOne, // temporary boosts never persist
		CritChance:           l.critChance, // boosts live on a separate accumulator
		CritMultiplier:       l.critMultiplier,
		ComboDurationMs:      l.comboDurationMs,
		PrestigePoints:       l.prestigePoints,
		PrestigeRequirement:  l.prestigeRequirement,
		UnlockedAchievements: unlocked,
		Bonuses: save.Bonuses{
			CritChanceAdd:       l.bonuses.CritChanceAdd,
			CritMultiplierAdd:   l.bonuses.CritMultiplierAdd,
			ComboDurationAddMs:  l.bonuses.ComboDurationAddMs,
			AutoRateAdd:         l.bonuses.AutoRateAdd,
			PrestigeExponentAdd: l.bonuses.PrestigeExponentAdd,
			PowerEfficiencyAdd:  l.bonuses.PowerEfficiencyAdd,
		},
		TotalActions: l.totalActions,
		BestStreak:   l.bestStreak,
	}
}

// basePower is the power with any live multiplier effect factored out, so
// a save taken mid-effect persists the true baseline.
func (e *Engine) basePower() decimal.Decimal {
	for _, rec := range e.effects.live {
		if rec.kind == KindPowerMultiplier {
			return rec.basePower
		}
	}
	return e.ledger.power
}

func (e *Engine) applyState(s save.State) {
	l := e.ledger
	l.resource = s.Resource
	l.power = s.Power
	l.upgradeCost = s.UpgradeCost
	l.autoCost = s.AutoCost
	l.autoUnits = s.AutoUnits
	l.autoRate = s.AutoRate
	l.autoSpeedFactor = s.AutoSpeedFactor
	l.critChance = s.CritChance
	l.critBoost = decZero
	l.critMultiplier = s.CritMultiplier
	l.comboDurationMs = s.ComboDurationMs
	l.prestigePoints = s.PrestigePoints
	l.prestigeRequirement = s.PrestigeRequirement
	l.nextHitMultiplier = decOne
	l.totalActions = s.TotalActions
	l.bestStreak = s.BestStreak
	l.recent = nil // rate-based predicates start fresh against the new state
	l.unlocked = make(map[AchievementID]bool, len(s.UnlockedAchievements))
	for _, id := range s.UnlockedAchievements {
		l.unlocked[AchievementID(id)] = true
	}
	l.bonuses = Bonuses{
		CritChanceAdd:       s.Bonuses.CritChanceAdd,
		CritMultiplierAdd:   s.Bonuses.CritMultiplierAdd,
		ComboDurationAddMs:  s.Bonuses.ComboDurationAddMs,
		AutoRateAdd:         s.Bonuses.AutoRateAdd,
		PrestigeExponentAdd: s.Bonuses.PrestigeExponentAdd,
		PowerEfficiencyAdd:  s.Bonuses.PowerEfficiencyAdd,
	}
}

// =============================================================================
// READ ACCESS
// =============================================================================

// View is a consistent snapshot of everything the presentation layer shows.
type View struct {
	Resource            decimal.Decimal
	Power               decimal.Decimal
	ComboStreak         int
	ComboBonus          decimal.Decimal
	ComboRemaining      time.Duration
	ComboDurationMs     int64
	CritChance          decimal.Decimal
	CritMultiplier      decimal.Decimal
	AutoUnits           int
	AutoRate            decimal.Decimal
	AutoSpeedFactor     decimal.Decimal
	PrestigePoints      int
	PrestigeRequirement decimal.Decimal
	CanPrestige         bool
	TotalActions        int64
	BestStreak          int
	Bonuses             Bonuses
	Costs               map[UpgradeKind]decimal.Decimal
	Effects             []ActiveEffect
	Offers              []Offer
}

// Snapshot captures a consistent view for rendering.
func (e *Engine) Snapshot() View {
	e.mu.Lock()
	defer e.mu.Unlock()

	l := e.ledger
	costs := make(map[UpgradeKind]decimal.Decimal, len(AllUpgrades()))
	for _, kind := range AllUpgrades() {
		c, _ := l.UpgradeCost(kind)
		costs[kind] = c
	}

	streak := e.combo.Streak()
	return View{
		Resource:            l.resource,
		Power:               l.power,
		ComboStreak:         streak,
		ComboBonus:          ComboBonus(streak),
		ComboRemaining:      e.combo.Remaining(),
		ComboDurationMs:     l.comboDurationMs,
		CritChance:          l.CritChance(),
		CritMultiplier:      l.critMultiplier,
		AutoUnits:           l.autoUnits,
		AutoRate:            l.autoRate,
		AutoSpeedFactor:     l.autoSpeedFactor,
		PrestigePoints:      l.prestigePoints,
		PrestigeRequirement: l.prestigeRequirement,
		CanPrestige:         l.CanPrestige(),
		TotalActions:        l.totalActions,
		BestStreak:          l.bestStreak,
		Bonuses:             l.bonuses,
		Costs:               costs,
		Effects:             e.effects.Active(),
		Offers:              e.spawner.Offers(),
	}
}

// AchievementState pairs a catalog entry with its unlock status.
type AchievementState struct {
	ID          AchievementID
	Name        string
	Description string
	Hidden      bool
	Unlocked    bool
}

// AchievementStates lists the catalog in order with unlock flags.
func (e *Engine) AchievementStates() []AchievementState {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]AchievementState, 0, len(e.achievements.catalog))
	for _, def := range e.achievements.catalog {
		out = append(out, AchievementState{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Hidden:      def.Hidden,
			Unlocked:    e.ledger.Unlocked(def.ID),
		})
	}
	return out
}

// Ledger exposes the ledger for same-process embedding and tests. All
// HTTP access goes through Engine methods instead.
func (e *Engine) Ledger() *Ledger { return e.ledger }
