package middleware

import (
	"context"
	"errors"
	"testing"
)

// orderedMiddleware records when it runs.
type orderedMiddleware struct {
	name  string
	order *[]string
	err   error
}

func (m *orderedMiddleware) Name() string {
	return m.name
}

func (m *orderedMiddleware) Execute(ctx *Context, next Handler) error {
	*m.order = append(*m.order, m.name)
	if m.err != nil {
		return m.err
	}
	return next(ctx)
}

func TestChain(t *testing.T) {
	t.Run("empty chain executes final handler", func(t *testing.T) {
		chain := NewChain()
		executed := false

		err := chain.Execute(NewContext(context.Background()), func(ctx *Context) error {
			executed = true
			return nil
		})

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if !executed {
			t.Error("final handler was not executed")
		}
	})

	t.Run("middlewares execute in order", func(t *testing.T) {
		order := []string{}
		m1 := &orderedMiddleware{name: "m1", order: &order}
		m2 := &orderedMiddleware{name: "m2", order: &order}

		chain := NewChain(m1).Add(m2)
		err := chain.Execute(NewContext(context.Background()), func(ctx *Context) error {
			order = append(order, "final")
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{"m1", "m2", "final"}
		if len(order) != len(want) {
			t.Fatalf("got %d steps, want %d", len(order), len(want))
		}
		for i, step := range want {
			if order[i] != step {
				t.Errorf("step %d = %q, want %q", i, order[i], step)
			}
		}
	})

	t.Run("error stops the chain", func(t *testing.T) {
		order := []string{}
		m1 := &orderedMiddleware{name: "m1", order: &order, err: errors.New("rejected")}
		m2 := &orderedMiddleware{name: "m2", order: &order}

		finalCalled := false
		err := NewChain(m1, m2).Execute(NewContext(context.Background()), func(ctx *Context) error {
			finalCalled = true
			return nil
		})

		if err == nil {
			t.Error("expected error from middleware")
		}
		if finalCalled {
			t.Error("final handler ran after middleware error")
		}
		if len(order) != 1 {
			t.Errorf("later middleware ran after error: %v", order)
		}
	})
}

func TestNewContext(t *testing.T) {
	base := context.Background()
	ctx := NewContext(base)

	if ctx.Metadata == nil || len(ctx.Metadata) != 0 {
		t.Errorf("metadata = %v, want empty map", ctx.Metadata)
	}
	if ctx.Context() != base {
		t.Error("underlying context not preserved")
	}
}
