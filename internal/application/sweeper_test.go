package application

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadpilot/auth-service/internal/domain/entity"
	"github.com/leadpilot/auth-service/internal/infrastructure/memory"
)

func TestSweeper(t *testing.T) {
	sessions := memory.NewSessionRepository()
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, sessions.Create(ctx, &entity.Session{
		ID: "live", UserID: "u1", Token: "t1", ExpiresAt: now.Add(time.Hour), CreatedAt: now,
	}))
	require.NoError(t, sessions.Create(ctx, &entity.Session{
		ID: "dead", UserID: "u1", Token: "t2", ExpiresAt: now.Add(-time.Hour), CreatedAt: now,
	}))

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	sw := NewSweeper(sessions, logger, 5*time.Millisecond)
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		sw.Run(runCtx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		_, err := sessions.GetByID(ctx, "dead")
		return err != nil
	}, time.Second, 5*time.Millisecond)

	_, err := sessions.GetByID(ctx, "live")
	assert.NoError(t, err)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on context cancel")
	}
}

func TestNewSweeper_DefaultInterval(t *testing.T) {
	sw := NewSweeper(memory.NewSessionRepository(), logrus.New(), 0)
	assert.Equal(t, time.Hour, sw.Interval)
}
