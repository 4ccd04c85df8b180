package smartcache

import (
	"context"
	"testing"
)

func fetchUser(ctx context.Context, id int) (string, error) {
	return "", nil
}

type userService struct{}

func (s *userService) FetchByID(ctx context.Context, id int) (string, error) {
	return "", nil
}

func TestSignatureFor(t *testing.T) {
	sig := SignatureFor(fetchUser, "id")

	if want := "smartcache.fetch_user"; sig.Function != want {
		t.Errorf("expected identity %q, got %q", want, sig.Function)
	}

	if len(sig.Params) != 1 || sig.Params[0] != "id" {
		t.Errorf("unexpected params: %v", sig.Params)
	}

	if sig.IsMethod {
		t.Error("plain function must not be marked as method")
	}
}

func TestSignatureFor_CachedPerPointer(t *testing.T) {
	first := SignatureFor(fetchUser, "id")
	second := SignatureFor(fetchUser, "ignored", "extra")

	// The second call resolves from the pointer cache; params from the first
	// registration win.
	if second.Function != first.Function {
		t.Errorf("expected identical identity, got %q vs %q", first.Function, second.Function)
	}

	if len(second.Params) != 1 {
		t.Errorf("expected cached params, got %v", second.Params)
	}
}

func TestMethodSignatureFor(t *testing.T) {
	sig := MethodSignatureFor((*userService).FetchByID, "id")

	if want := "smartcache.user_service.fetch_by_id"; sig.Function != want {
		t.Errorf("expected identity %q, got %q", want, sig.Function)
	}

	if !sig.IsMethod {
		t.Error("expected method signature")
	}

	// The receiver slot is implicit; declared params gain a leading entry so
	// normalization can drop the receiver value.
	if len(sig.Params) != 2 || sig.Params[0] != "self" {
		t.Errorf("unexpected params: %v", sig.Params)
	}
}

func TestMethodSignatureFor_BoundMethod(t *testing.T) {
	svc := &userService{}

	sig := MethodSignatureFor(svc.FetchByID, "id")

	if want := "smartcache.user_service.fetch_by_id"; sig.Function != want {
		t.Errorf("expected identity %q, got %q", want, sig.Function)
	}
}

func TestToSnake(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "camel case", input: "FetchByID", want: "fetch_by_id"},
		{name: "already lower", input: "fetch", want: "fetch"},
		{name: "acronym", input: "HTTPServer", want: "http_server"},
		{name: "digits", input: "FetchV2", want: "fetch_v_2"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toSnake(tt.input); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
