package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type exportTestMessage struct{}

func (exportTestMessage) Type() string { return "manuscript.test.export" }

func (exportTestMessage) Validate() error { return nil }

type rejectedMessage struct{}

func (rejectedMessage) Type() string { return "manuscript.test.rejected" }

func (rejectedMessage) Validate() error { return errors.New("missing scope") }

func TestHandlerExecuteSuccess(t *testing.T) {
	called := false
	h := NewHandler[exportTestMessage](func(ctx context.Context, msg exportTestMessage) error {
		called = true
		return nil
	})

	if err := h.Execute(context.Background(), exportTestMessage{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !called {
		t.Fatal("expected handler to be invoked")
	}
}

func TestHandlerValidationShortCircuitsExecution(t *testing.T) {
	called := false
	h := NewHandler[rejectedMessage](func(ctx context.Context, msg rejectedMessage) error {
		called = true
		return nil
	})

	err := h.Execute(context.Background(), rejectedMessage{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when validation fails")
	}
}

func TestHandlerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	h := NewHandler[exportTestMessage](func(ctx context.Context, msg exportTestMessage) error {
		called = true
		return nil
	})

	err := h.Execute(ctx, exportTestMessage{})
	if err == nil {
		t.Fatal("expected context cancellation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation cause to survive wrapping, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when context is cancelled")
	}
}

func TestHandlerWrapsExecutionError(t *testing.T) {
	execErr := errors.New("render failed")
	h := NewHandler[exportTestMessage](func(ctx context.Context, msg exportTestMessage) error {
		return execErr
	})

	err := h.Execute(context.Background(), exportTestMessage{})
	if err == nil {
		t.Fatal("expected wrapped execution error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !errors.Is(err, execErr) {
		t.Fatalf("expected original error to survive wrapping, got %v", err)
	}
}

func TestHandlerPreservesUpstreamCategory(t *testing.T) {
	upstream := goerrors.Wrap(errors.New("bad directive"), goerrors.CategoryValidation, "directive rejected")
	h := NewHandler[exportTestMessage](func(ctx context.Context, msg exportTestMessage) error {
		return upstream
	})

	err := h.Execute(context.Background(), exportTestMessage{})
	if !errors.Is(err, upstream) {
		t.Fatalf("expected upstream error to pass through, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected upstream validation category to survive, got %v", err)
	}
}

func TestHandlerHonoursTimeoutOption(t *testing.T) {
	h := NewHandler[exportTestMessage](func(ctx context.Context, msg exportTestMessage) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(20 * time.Millisecond):
			return nil
		}
	}, WithTimeout[exportTestMessage](10*time.Millisecond))

	err := h.Execute(context.Background(), exportTestMessage{})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category for timeout, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline cause to survive wrapping, got %v", err)
	}
}
