package input

import (
	"context"

	"github.com/Ckr1111/darlybot/internal/nav"
	"github.com/Ckr1111/darlybot/internal/shared"
	"github.com/charmbracelet/log"
)

// SimulatedSender logs every action instead of injecting input. Always
// available; used for dry runs and on hosts without an automation command.
type SimulatedSender struct {
	cfg    shared.InputConfig
	pace   pacer
	logger *log.Logger
}

func newSimulatedSender(cfg shared.InputConfig, logger *log.Logger) *SimulatedSender {
	return &SimulatedSender{cfg: cfg, pace: newPacer(cfg), logger: logger}
}

func (s *SimulatedSender) Name() string { return "simulated" }

func (s *SimulatedSender) Focus(ctx context.Context) error {
	s.logger.Info("simulate focus", "window", s.cfg.WindowTitle)
	return nil
}

func (s *SimulatedSender) Send(ctx context.Context, actions []nav.Action) error {
	for _, action := range actions {
		if err := s.pace.wait(ctx, action); err != nil {
			return err
		}
		s.logger.Info("simulate press", "key", action.KeyName())
	}
	if s.cfg.PressEnter {
		s.logger.Info("simulate press", "key", "enter")
	}
	return nil
}
