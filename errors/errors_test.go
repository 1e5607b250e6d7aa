package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
		excludes []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:   PhaseDecode,
				Kind:    KindArity,
				Offset:  42,
				Command: "ConstructorSplat",
				Detail:  "expected 1 arguments, got 2",
			},
			contains: []string{"[decode]", "arity", "offset 42", "ConstructorSplat", "expected 1 arguments"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase:  PhaseResolve,
				Kind:   KindUnresolvedID,
				Offset: -1,
			},
			contains: []string{"[resolve]", "unresolved_id"},
			excludes: []string{"offset"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseLoad,
				Kind:   KindInvalidData,
				Offset: -1,
				Detail: "map artifact",
				Cause:  errors.New("permission denied"),
			},
			contains: []string{"[load]", "invalid_data", "map artifact", "caused by", "permission denied"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(msg, s) {
					t.Errorf("error message %q should not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(PhaseEncode, KindInvalidData, cause, "write")

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := UnresolvedID(10, 7)

	if !err.Is(&Error{Phase: PhaseResolve, Kind: KindUnresolvedID}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseDecode, Kind: KindUnresolvedID}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseResolve, Kind: KindUnresolvedBuiltin}) {
		t.Error("Is should not match different kind")
	}

	var wrapped error = Wrap(PhaseLoad, KindInvalidData, err, "decode artifact")
	if !errors.Is(wrapped, &Error{Phase: PhaseResolve, Kind: KindUnresolvedID}) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseDecode, KindUnknownCommand).
		Offset(17).
		Command("expression").
		Value(byte(200)).
		Cause(cause).
		Detail("unsupported %s command %d", "expression", 200).
		Build()

	if err.Phase != PhaseDecode {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseDecode)
	}
	if err.Kind != KindUnknownCommand {
		t.Errorf("Kind = %v, want %v", err.Kind, KindUnknownCommand)
	}
	if err.Offset != 17 {
		t.Errorf("Offset = %d, want 17", err.Offset)
	}
	if err.Command != "expression" {
		t.Errorf("Command = %q, want expression", err.Command)
	}
	if err.Value != byte(200) {
		t.Errorf("Value = %v, want 200", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "unsupported expression command 200" {
		t.Errorf("Detail = %q", err.Detail)
	}
}

func TestBuilderDefaultsToNoOffset(t *testing.T) {
	err := New(PhaseConfig, KindInvalidInput).Build()
	if err.Offset != -1 {
		t.Errorf("Offset = %d, want -1", err.Offset)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name  string
		err   *Error
		phase Phase
		kind  Kind
	}{
		{"VersionMismatch", VersionMismatch(11, 3), PhaseHeader, KindVersionMismatch},
		{"Underrun", Underrun(PhaseDecode, 5, 4, 1), PhaseDecode, KindUnderrun},
		{"TrailingData", TrailingData(9, 2), PhaseDecode, KindTrailingData},
		{"UnknownCommand", UnknownCommand(3, "symbol", 250), PhaseDecode, KindUnknownCommand},
		{"UnresolvedID", UnresolvedID(3, 4), PhaseResolve, KindUnresolvedID},
		{"UnresolvedBuiltin", UnresolvedBuiltin(3, "nope"), PhaseResolve, KindUnresolvedBuiltin},
		{"KindMismatch", KindMismatch(PhaseDecode, 3, "type", "variable"), PhaseDecode, KindKindMismatch},
		{"Arity", Arity(3, "ConstructorSplat", 1, 3), PhaseDecode, KindArity},
		{"MalformedScope", MalformedScope(3, "bad index"), PhaseDecode, KindMalformedScope},
		{"Overflow", Overflow(PhaseEncode, 300, "u8"), PhaseEncode, KindOverflow},
		{"InvalidData", InvalidData(PhaseHeader, 0, "short"), PhaseHeader, KindInvalidData},
		{"NotFound", NotFound(PhaseLoad, "module", "frag"), PhaseLoad, KindNotFound},
		{"InvalidInput", InvalidInput(PhaseEncode, "nil program"), PhaseEncode, KindInvalidInput},
		{"Load", Load("open", errors.New("x")), PhaseLoad, KindInvalidData},
		{"Config", Config("parse", errors.New("x")), PhaseConfig, KindInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Phase != tt.phase {
				t.Errorf("Phase = %v, want %v", tt.err.Phase, tt.phase)
			}
			if tt.err.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tt.err.Kind, tt.kind)
			}
			if tt.err.Error() == "" {
				t.Error("empty message")
			}
		})
	}
}

func TestVersionMismatchDetail(t *testing.T) {
	err := VersionMismatch(11, 3)
	if !strings.Contains(err.Detail, "3") || !strings.Contains(err.Detail, "11") {
		t.Errorf("Detail = %q, should mention both versions", err.Detail)
	}
	if err.Value != uint16(3) {
		t.Errorf("Value = %v, want 3", err.Value)
	}
}
