package stack

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/compose-network/peggy-localnet/configs"
	"github.com/compose-network/peggy-localnet/internal/logger"
)

const (
	maxLineSize     = 1024 * 1024
	killallTimeout  = 10 * time.Second
	killWaitTimeout = 10 * time.Second
)

var ErrExitedBeforeReady = errors.New("stack exited before becoming ready")

type (
	// Supervisor runs the backend stack script and tears the stack down again
	Supervisor struct {
		cfg configs.Stack

		mu        sync.Mutex
		processes []*process

		logger *slog.Logger
	}

	process struct {
		cmd  *exec.Cmd
		done chan struct{}
		err  error
	}
)

func NewSupervisor(cfg configs.Stack) *Supervisor {
	cfg.ApplyDefaults()

	return &Supervisor{
		cfg:    cfg,
		logger: logger.Named("stack_supervisor"),
	}
}

// Start spawns the stack script and returns once a line of its output contains the ready marker.
// The script keeps running after Start returns; Stop terminates it.
func (s *Supervisor) Start(ctx context.Context) error {
	if err := s.cfg.Validate(); err != nil {
		return err
	}

	cmd := exec.Command(s.cfg.Script)
	cmd.Dir = s.cfg.WorkDir
	setProcessGroup(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to open stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to open stderr: %w", err)
	}

	s.logger.With("script", s.cfg.Script).With("work_dir", s.cfg.WorkDir).Info("starting stack")
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", s.cfg.Script, err)
	}

	p := &process{cmd: cmd, done: make(chan struct{})}
	s.mu.Lock()
	s.processes = append(s.processes, p)
	s.mu.Unlock()

	ready := make(chan struct{})
	var readyOnce sync.Once
	markReady := func() { readyOnce.Do(func() { close(ready) }) }

	var streams sync.WaitGroup
	streams.Add(2)
	go s.stream(&streams, "stdout", stdout, markReady)
	go s.stream(&streams, "stderr", stderr, markReady)

	go func() {
		streams.Wait()
		p.err = cmd.Wait()
		close(p.done)
	}()

	select {
	case <-ready:
	case <-p.done:
		select {
		case <-ready:
		default:
			return fmt.Errorf("%w: %v", ErrExitedBeforeReady, p.err)
		}
	case <-ctx.Done():
		if err := signalGroup(cmd, true); err != nil {
			s.logger.With("err", err.Error()).Warn("failed to kill stack")
		}
		<-p.done
		return fmt.Errorf("failed to wait for stack readiness: %w", ctx.Err())
	}

	s.logger.With("pid", cmd.Process.Pid).Info("stack is ready")
	return nil
}

func (s *Supervisor) stream(wg *sync.WaitGroup, name string, r io.Reader, markReady func()) {
	defer wg.Done()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := scanner.Text()
		s.logger.With("stream", name).Info(line)

		if strings.Contains(line, s.cfg.ReadyMarker) {
			markReady()
		}
	}

	if err := scanner.Err(); err != nil {
		s.logger.With("stream", name).With("err", err.Error()).Warn("stopped reading stack output, discarding the rest")
		// The script blocks on write once the pipe is full.
		_, _ = io.Copy(io.Discard, r)
	}
}

// Stop signals every started process group, kills the known stack processes by name and
// waits the grace period. Processes still alive afterwards are killed. Cancellation of ctx is ignored.
func (s *Supervisor) Stop(ctx context.Context) error {
	ctx = context.WithoutCancel(ctx)

	s.mu.Lock()
	processes := s.processes
	s.processes = nil
	s.mu.Unlock()

	for _, p := range processes {
		if err := signalGroup(p.cmd, false); err != nil {
			s.logger.With("pid", p.cmd.Process.Pid).With("err", err.Error()).Debug("failed to signal process group")
		}
	}

	if len(s.cfg.ProcessNames) > 0 {
		killCtx, cancel := context.WithTimeout(ctx, killallTimeout)
		err := exec.CommandContext(killCtx, "killall", s.cfg.ProcessNames...).Run()
		cancel()
		if err != nil {
			s.logger.With("err", err.Error()).Debug("killall reported an error")
		}
	}

	s.logger.With("grace_period", s.cfg.GracePeriod).Info("stack stopping")
	time.Sleep(s.cfg.GracePeriod)

	var errs []error
	for _, p := range processes {
		select {
		case <-p.done:
			continue
		default:
		}

		pid := p.cmd.Process.Pid
		if err := signalGroup(p.cmd, true); err != nil {
			s.logger.With("pid", pid).With("err", err.Error()).Warn("failed to kill process group")
		}

		select {
		case <-p.done:
		case <-time.After(killWaitTimeout):
			errs = append(errs, fmt.Errorf("process %d did not exit after SIGKILL", pid))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}

	s.logger.Info("stack stopped")
	return nil
}
