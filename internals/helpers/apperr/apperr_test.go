package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	base := errors.New("connection reset")

	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"plain error is internal", base, KindInternal},
		{"configuration", Configuration("not_configured", "secret kosong"), KindConfiguration},
		{"wrapped state", fmt.Errorf("close: %w", State("session_not_open", "closed")), KindState},
		{"internal wrap", Internal("db", base), KindInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := KindOf(tc.err); got != tc.want {
				t.Fatalf("KindOf = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestUnwrapKeepsCause(t *testing.T) {
	base := errors.New("boom")
	err := Internal("gagal simpan", base)
	if !errors.Is(err, base) {
		t.Fatal("errors.Is harus menemukan cause")
	}
	if IsKind(nil, KindInternal) {
		t.Fatal("nil bukan error apapun")
	}
}
