package input

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/Ckr1111/darlybot/internal/nav"
	"github.com/Ckr1111/darlybot/internal/shared"
	"github.com/charmbracelet/log"
)

// ScriptSender shells out to a user-provided command for window focus and
// key presses:
//
//	<command> focus <window title>
//	<command> key <key name>
//
// The command is expected to exit non-zero when the game window is missing.
type ScriptSender struct {
	cfg    shared.InputConfig
	pace   pacer
	logger *log.Logger
}

func newScriptSender(cfg shared.InputConfig, logger *log.Logger) (*ScriptSender, error) {
	if cfg.Command == "" {
		return nil, fmt.Errorf("%w: script backend needs input.command", shared.ErrNoBackend)
	}
	if _, err := exec.LookPath(cfg.Command); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrNoBackend, err)
	}
	return &ScriptSender{cfg: cfg, pace: newPacer(cfg), logger: logger}, nil
}

func (s *ScriptSender) Name() string { return "script" }

func (s *ScriptSender) Focus(ctx context.Context) error {
	return s.run(ctx, "focus", s.cfg.WindowTitle)
}

func (s *ScriptSender) Send(ctx context.Context, actions []nav.Action) error {
	for _, action := range actions {
		if err := s.pace.wait(ctx, action); err != nil {
			return err
		}
		if err := s.run(ctx, "key", action.KeyName()); err != nil {
			return err
		}
	}
	if s.cfg.PressEnter {
		return s.run(ctx, "key", "enter")
	}
	return nil
}

func (s *ScriptSender) run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, s.cfg.Command, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		s.logger.Error("input command failed", "args", args, "output", string(out))
		return fmt.Errorf("%w: %s %v: %v", shared.ErrSendFailed, s.cfg.Command, args, err)
	}
	return nil
}
