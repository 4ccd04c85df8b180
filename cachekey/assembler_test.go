package cachekey

import (
	"strings"
	"testing"
)

func TestAssembler_Assemble(t *testing.T) {
	a := NewAssembler(Options{})

	key, err := a.Assemble("users.fetch", []string{"id:42", "name:ada"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := "easy_cache:users.fetch:id:42:name:ada"; key != want {
		t.Errorf("expected %q, got %q", want, key)
	}
}

func TestAssembler_EmptyIdentity(t *testing.T) {
	a := NewAssembler(Options{})

	_, err := a.Assemble("", nil)
	if err == nil {
		t.Fatal("expected error for empty function identity")
	}

	if _, ok := err.(*CacheKeyValidationError); !ok {
		t.Errorf("expected CacheKeyValidationError, got %T", err)
	}
}

func TestAssembler_CharsetSanitized(t *testing.T) {
	a := NewAssembler(Options{})

	key, err := a.Assemble("pkg.fn", []string{"q:hello world!", "p:a/b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, r := range key {
		valid := r == '.' || r == '_' || r == ':' || r == '-' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !valid {
			t.Errorf("key contains invalid character %q: %s", r, key)
		}
	}

	if !strings.Contains(key, "hello_world_") {
		t.Errorf("expected spaces and punctuation replaced, got %q", key)
	}
}

func TestAssembler_LengthBound(t *testing.T) {
	a := NewAssembler(Options{})

	long := strings.Repeat("x", 500)

	key, err := a.Assemble("pkg.fn", []string{"data:" + long})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(key) > DefaultMaxKeyLength {
		t.Errorf("key length %d exceeds bound %d", len(key), DefaultMaxKeyLength)
	}

	// Folding must stay deterministic.
	again, err := a.Assemble("pkg.fn", []string{"data:" + long})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if key != again {
		t.Errorf("folded key not deterministic: %q vs %q", key, again)
	}

	// Different oversized inputs must not collide on the folded head.
	other, err := a.Assemble("pkg.fn", []string{"data:" + strings.Repeat("y", 500)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if key == other {
		t.Error("distinct oversized inputs produced the same key")
	}
}

func TestSegment_DigestsOversizedValues(t *testing.T) {
	a := NewAssembler(Options{})

	long := Scalar{Text: strings.Repeat("v", DefaultMaxValueLength+1)}

	seg := a.Segment("data", long)

	want := "data" + Separator + Digest(long.Text)
	if seg != want {
		t.Errorf("expected %q, got %q", want, seg)
	}

	if len(Digest(long.Text)) != 16 {
		t.Errorf("expected 16 hex character digest, got %d", len(Digest(long.Text)))
	}
}

func TestSegment_KeepsShortValues(t *testing.T) {
	a := NewAssembler(Options{})

	if got := a.Segment("id", Scalar{Text: "42"}); got != "id:42" {
		t.Errorf("expected %q, got %q", "id:42", got)
	}
}

func TestDigest_Deterministic(t *testing.T) {
	if Digest("payload") != Digest("payload") {
		t.Error("digest must be deterministic")
	}

	if Digest("payload") == Digest("payload2") {
		t.Error("distinct inputs produced equal digests")
	}
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		wantError bool
	}{
		{name: "defaults", opts: Options{}, wantError: false},
		{name: "custom prefix", opts: Options{Prefix: "app.cache"}, wantError: false},
		{name: "prefix with invalid characters", opts: Options{Prefix: "my prefix!"}, wantError: true},
		{name: "value threshold below digest length", opts: Options{MaxValueLength: 8}, wantError: true},
		{name: "key bound above backend limit", opts: Options{MaxKeyLength: 300}, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantError && err == nil {
				t.Error("expected validation error, got nil")
			}

			if !tt.wantError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
