package core

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/oklog/run"
	"go.uber.org/zap"
)

// RunContext is a run group whose actors share a cancellable context. The
// group stops when the first actor returns.
type RunContext struct {
	*run.Group
	context.Context

	cancel context.CancelFunc
}

func NewRunContext(parent context.Context) *RunContext {
	ctx, cancel := context.WithCancel(parent)
	return &RunContext{
		Group:   &run.Group{},
		Context: ctx,
		cancel:  cancel,
	}
}

// AddSignalHandler stops the group on SIGINT or SIGTERM.
func (rc *RunContext) AddSignalHandler() {
	rc.Group.Add(run.SignalHandler(rc.Context, os.Interrupt, syscall.SIGTERM))
}

// AddTask runs task until it returns or the group is interrupted.
func (rc *RunContext) AddTask(taskName string, task func(context.Context) error) {
	ctx, cancel := context.WithCancel(rc.Context)
	rc.Group.Add(
		func() error {
			zap.L().Info(fmt.Sprintf("[Task/%s/Start]", taskName))
			err := task(ctx)
			zap.L().Info(fmt.Sprintf("[Task/%s/Finish]", taskName))
			return err
		},
		func(error) {
			zap.L().Debug(fmt.Sprintf("[Task/%s/TearDown]Cancelling task", taskName))
			cancel()
		},
	)
}

// Run blocks until every actor has returned and reports the error of the
// first one. A stop caused by a signal is returned as run.SignalError.
func (rc *RunContext) Run() error {
	defer rc.cancel()
	return rc.Group.Run()
}
