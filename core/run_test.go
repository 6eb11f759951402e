//go:build unit
// +build unit

package core

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunContext(t *testing.T) {
	rc := NewRunContext(context.Background())
	stopped := false
	rc.AddTask("blocking", func(ctx context.Context) error {
		<-ctx.Done()
		stopped = true
		return ctx.Err()
	})
	rc.AddTask("failing", func(context.Context) error {
		return fmt.Errorf("done")
	})
	err := rc.Run()
	assert.EqualError(t, err, "done")
	assert.True(t, stopped)
}
