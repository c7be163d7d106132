package validator

import (
	"context"
	"errors"
	"strings"
	"testing"

	cuserrors "github.com/opencivic/civicassist/errors"
	"github.com/opencivic/civicassist/middleware"
)

func runValidator(t *testing.T, v *InputValidator, input string) error {
	t.Helper()
	ctx := middleware.NewContext(context.Background())
	ctx.Input = input
	return v.Execute(ctx, func(*middleware.Context) error { return nil })
}

func TestMessageValidator(t *testing.T) {
	v := NewMessageValidator(100)

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid message", "What documents do I need?", false},
		{"exactly max length", strings.Repeat("a", 100), false},
		{"empty", "", true},
		{"whitespace only", " \n\t ", true},
		{"over max length", strings.Repeat("a", 101), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runValidator(t, v, tt.input)
			if tt.wantErr {
				if !errors.Is(err, cuserrors.ErrInvalidInput) {
					t.Errorf("err = %v, want ErrInvalidInput", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestInputValidatorBlocksNext(t *testing.T) {
	v := NewInputValidator(func(string) error { return errors.New("rejected") })

	ctx := middleware.NewContext(context.Background())
	nextCalled := false
	err := v.Execute(ctx, func(*middleware.Context) error {
		nextCalled = true
		return nil
	})

	if err == nil {
		t.Error("expected validation error")
	}
	if nextCalled {
		t.Error("next ran despite validation failure")
	}
}
