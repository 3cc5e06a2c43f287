// package input abstracts delivering a navigation plan to the game as key
// presses.
//
// Real key injection is platform-specific; the bridge only depends on the
// [Sender] interface and probes the configured backends at startup. The
// script backend delegates each press to an external command (xdotool,
// AutoHotkey wrappers and the like), the simulated backend just logs.
package input

import (
	"context"
	"fmt"
	"time"

	"github.com/Ckr1111/darlybot/internal/nav"
	"github.com/Ckr1111/darlybot/internal/shared"
	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// Sender executes a plan's actions against the target window, in order.
type Sender interface {
	// Name identifies the backend in logs and /status payloads.
	Name() string
	// Focus brings the game window to the foreground.
	Focus(ctx context.Context) error
	// Send presses the key for each action, pacing presses so the game
	// registers them individually.
	Send(ctx context.Context, actions []nav.Action) error
}

// Probe selects a sender for the configured backend.
//
// "auto" picks the script backend when a command is configured and falls
// back to the simulated backend otherwise, mirroring how the desktop helper
// probes its automation libraries at startup.
func Probe(cfg shared.InputConfig, logger *log.Logger) (Sender, error) {
	switch cfg.Backend {
	case "", "auto":
		if cfg.Command != "" {
			return newScriptSender(cfg, logger)
		}
		logger.Warn("no input command configured, key presses will be simulated")
		return newSimulatedSender(cfg, logger), nil
	case "simulated":
		return newSimulatedSender(cfg, logger), nil
	case "script":
		return newScriptSender(cfg, logger)
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", shared.ErrNoBackend, cfg.Backend)
	}
}

// pacer rate-limits consecutive presses. The game drops keys that arrive
// faster than its input polling, so each press waits for the limiter.
type pacer struct {
	keys  *rate.Limiter
	steps *rate.Limiter
}

func newPacer(cfg shared.InputConfig) pacer {
	return pacer{
		keys:  rate.NewLimiter(every(cfg.KeyDelayMs, 80), 1),
		steps: rate.NewLimiter(every(cfg.StepDelayMs, 50), 1),
	}
}

func (p pacer) wait(ctx context.Context, a nav.Action) error {
	limiter := p.keys
	if a.Kind == nav.ActionStep {
		limiter = p.steps
	}
	return limiter.Wait(ctx)
}

func every(ms, fallback int) rate.Limit {
	if ms <= 0 {
		ms = fallback
	}
	return rate.Every(time.Duration(ms) * time.Millisecond)
}
