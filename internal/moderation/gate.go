package moderation

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/lumina/iris-studio/internal/project"
	"github.com/lumina/iris-studio/internal/store"
)

// Gate evaluates the ban-state machine for the current identity on a
// fixed tick and re-checks the registry on a slower poll. It gates the
// editor surface but never mutates project content; its only touch on
// the project store is forcing playback to pause when a ban lands.
type Gate struct {
	registry   Registry
	kv         store.Store
	project    *project.Store
	ownerEmail string
	logger     *slog.Logger

	tick time.Duration
	poll time.Duration

	mu       sync.Mutex
	identity string
	ban      BanState
	lastPoll time.Time
}

type GateConfig struct {
	Registry     Registry
	KV           store.Store
	Project      *project.Store
	OwnerEmail   string
	Tick         time.Duration
	RegistryPoll time.Duration
	Logger       *slog.Logger
}

func NewGate(cfg GateConfig) *Gate {
	g := &Gate{
		registry:   cfg.Registry,
		kv:         cfg.KV,
		project:    cfg.Project,
		ownerEmail: NormalizeEmail(cfg.OwnerEmail),
		tick:       cfg.Tick,
		poll:       cfg.RegistryPoll,
		logger:     cfg.Logger,
	}
	if g.tick <= 0 {
		g.tick = time.Second
	}
	if g.poll <= 0 {
		g.poll = 5 * time.Second
	}
	g.ban = g.loadBanState()
	return g
}

// loadBanState rehydrates the persisted ban state. Malformed or absent
// data starts clear.
func (g *Gate) loadBanState() BanState {
	if g.kv == nil {
		return BanState{}
	}
	data, err := g.kv.Load(context.Background(), store.KeyBan)
	if err != nil {
		return BanState{}
	}
	var b BanState
	if err := json.Unmarshal(data, &b); err != nil {
		if g.logger != nil {
			g.logger.Warn("malformed ban state record, starting clear", "error", err)
		}
		return BanState{}
	}
	return b
}

// Run evaluates the machine once per tick until the context is
// cancelled.
func (g *Gate) Run(ctx context.Context) error {
	ticker := time.NewTicker(g.tick)
	defer ticker.Stop()

	if g.logger != nil {
		g.logger.Info("moderation gate started", "tick", g.tick.String(), "registry_poll", g.poll.String())
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			g.Evaluate(now)
		}
	}
}

// SetIdentity binds the gate to a logged-in identity and evaluates
// immediately so a banned user is blocked on their very first request.
func (g *Gate) SetIdentity(email string) {
	g.mu.Lock()
	g.identity = NormalizeEmail(email)
	g.lastPoll = time.Time{}
	g.mu.Unlock()

	g.Evaluate(time.Now())
}

// ClearIdentity detaches the gate on logout. Ban state is kept: it
// belongs to the identity record and re-attaches on the next login.
func (g *Gate) ClearIdentity() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.identity = ""
}

// Identity returns the currently bound identity, or empty when
// anonymous.
func (g *Gate) Identity() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.identity
}

// BanState returns the current enforcement state.
func (g *Gate) BanState() BanState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ban
}

// IsOwner reports whether the given email is the privileged identity.
func (g *Gate) IsOwner(email string) bool {
	return g.ownerEmail != "" && NormalizeEmail(email) == g.ownerEmail
}

// Blocked reports whether the current identity is barred from the
// editor, with the state to surface. The owner is exempt from all
// enforcement.
func (g *Gate) Blocked() (bool, BanState) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.identity == "" || g.identity == g.ownerEmail && g.ownerEmail != "" {
		return false, g.ban
	}
	return g.ban.IsBanned, g.ban
}

// StartWarning arms the countdown that escalates into an automatic ban.
func (g *Gate) StartWarning(seconds int) {
	if seconds <= 0 {
		return
	}
	g.mu.Lock()
	g.ban.IsWarningActive = true
	g.ban.WarningCountdown = seconds
	next := g.ban
	g.mu.Unlock()

	g.persist(next)
	if g.logger != nil {
		g.logger.Warn("ban warning armed", "countdown_s", seconds)
	}
}

// CancelWarning aborts an armed countdown before it reaches zero.
func (g *Gate) CancelWarning() {
	g.mu.Lock()
	if !g.ban.IsWarningActive {
		g.mu.Unlock()
		return
	}
	g.ban.IsWarningActive = false
	g.ban.WarningCountdown = 0
	next := g.ban
	g.mu.Unlock()

	g.persist(next)
	if g.logger != nil {
		g.logger.Info("ban warning cancelled")
	}
}

// Evaluate runs one machine step at wall-clock time now: the 1s tick
// always, the registry re-check when the poll interval has elapsed.
// Exported so tests can drive a virtual clock.
func (g *Gate) Evaluate(now time.Time) {
	g.mu.Lock()

	if g.identity == "" {
		g.mu.Unlock()
		return
	}

	prev := g.ban
	next := prev.Tick(now)

	if now.Sub(g.lastPoll) >= g.poll {
		g.lastPoll = now
		next = g.syncRegistry(next)
	}

	if g.ownerEmail != "" && g.identity == g.ownerEmail {
		// Privileged identity: enforcement never applies.
		next = BanState{}
	}

	g.ban = next
	g.mu.Unlock()

	if next != prev {
		g.persist(next)
	}

	if next.IsBanned && !prev.IsBanned {
		if g.logger != nil {
			g.logger.Warn("ban took effect", "reason", next.BanReason, "permanent", next.UnbanAt == nil)
		}
		if g.project != nil {
			g.project.SetPlaying(false)
		}
	}
	if !next.IsBanned && prev.IsBanned {
		if g.logger != nil {
			g.logger.Info("ban lifted")
		}
	}
}

// syncRegistry pulls the identity's registry record; the registry wins
// both ways. Called with the lock held.
func (g *Gate) syncRegistry(b BanState) BanState {
	if g.registry == nil {
		return b
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	rec, err := g.registry.GetUser(ctx, g.identity)
	if err != nil {
		if g.logger != nil {
			g.logger.Warn("registry check failed", "error", err)
		}
		return b
	}
	return b.ApplyRegistry(rec)
}

func (g *Gate) persist(b BanState) {
	if g.kv == nil {
		return
	}
	data, err := json.Marshal(b)
	if err != nil {
		return
	}
	if err := g.kv.Save(context.Background(), store.KeyBan, data); err != nil && g.logger != nil {
		g.logger.Error("failed to persist ban state", "error", err)
	}
}
