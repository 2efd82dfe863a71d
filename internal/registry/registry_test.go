package registry

import (
	"context"
	"testing"

	"github.com/kreuzbergo/kreuzbergo/internal/model"
)

type stubExtractor struct {
	name     string
	priority int
	mimes    []string
	initErr  error
	shutdown bool
}

func (s *stubExtractor) Name() string    { return s.name }
func (s *stubExtractor) Version() string { return "1.0.0" }
func (s *stubExtractor) Initialize() error { return s.initErr }
func (s *stubExtractor) Shutdown() error   { s.shutdown = true; return nil }
func (s *stubExtractor) SupportedMimeTypes() []string { return s.mimes }
func (s *stubExtractor) Priority() int                { return s.priority }
func (s *stubExtractor) ExtractBytes(ctx context.Context, data []byte, mime string, cfg ExtractConfig) (*model.ExtractionResult, error) {
	return &model.ExtractionResult{Content: s.name}, nil
}
func (s *stubExtractor) ExtractFile(ctx context.Context, path string, mime string, cfg ExtractConfig) (*model.ExtractionResult, error) {
	return &model.ExtractionResult{Content: s.name}, nil
}

func TestRegisterRejectsEmptyOrWhitespaceName(t *testing.T) {
	r := New[*stubExtractor]()
	for _, name := range []string{"", "has space", "tab\tchar"} {
		if err := r.Register(&stubExtractor{name: name}); err == nil {
			t.Errorf("expected error for name %q", name)
		}
	}
}

func TestRegisterRejectsDuplicateName(t *testing.T) {
	r := New[*stubExtractor]()
	if err := r.Register(&stubExtractor{name: "pdf"}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(&stubExtractor{name: "pdf"}); err == nil {
		t.Fatal("expected error on duplicate registration")
	}
}

func TestUnregisterIsIdempotent(t *testing.T) {
	r := New[*stubExtractor]()
	if err := r.Unregister("missing"); err != nil {
		t.Fatalf("unregistering a missing name must not fail: %v", err)
	}
}

func TestRegisterUnregisterRegisterMatchesSingleRegister(t *testing.T) {
	// Registration idempotence (spec.md §8).
	r1 := New[*stubExtractor]()
	e := &stubExtractor{name: "pdf", priority: 5, mimes: []string{"application/pdf"}}
	if err := r1.Register(e); err != nil {
		t.Fatal(err)
	}
	if err := r1.Unregister("pdf"); err != nil {
		t.Fatal(err)
	}
	if err := r1.Register(e); err != nil {
		t.Fatal(err)
	}

	r2 := New[*stubExtractor]()
	if err := r2.Register(&stubExtractor{name: "pdf", priority: 5, mimes: []string{"application/pdf"}}); err != nil {
		t.Fatal(err)
	}

	if len(r1.List()) != len(r2.List()) {
		t.Fatalf("list length mismatch: %v vs %v", r1.List(), r2.List())
	}
}

func TestInitializeFailureRollsBackInsertion(t *testing.T) {
	r := New[*stubExtractor]()
	boom := &stubExtractor{name: "broken", initErr: errBoom}
	if err := r.Register(boom); err == nil {
		t.Fatal("expected initialize failure to propagate")
	}
	if _, ok := r.Get("broken"); ok {
		t.Fatal("entry must not be present after a rolled-back initialize")
	}
}

var errBoom = &stubError{"boom"}

type stubError struct{ msg string }

func (e *stubError) Error() string { return e.msg }

func TestSelectForPicksHighestPriorityTieBreaksByRegistrationOrder(t *testing.T) {
	r := New[*stubExtractor]()
	first := &stubExtractor{name: "first", priority: 10, mimes: []string{"text/plain"}}
	second := &stubExtractor{name: "second", priority: 10, mimes: []string{"text/plain"}}
	higher := &stubExtractor{name: "higher", priority: 20, mimes: []string{"text/plain"}}
	_ = r.Register(first)
	_ = r.Register(second)
	_ = r.Register(higher)

	got, ok := SelectFor[*stubExtractor](r, "text/plain")
	if !ok || got.Name() != "higher" {
		t.Fatalf("expected higher-priority entry, got %v ok=%v", got, ok)
	}

	r2 := New[*stubExtractor]()
	_ = r2.Register(&stubExtractor{name: "first", priority: 10, mimes: []string{"text/plain"}})
	_ = r2.Register(&stubExtractor{name: "second", priority: 10, mimes: []string{"text/plain"}})
	got2, ok := SelectFor[*stubExtractor](r2, "text/plain")
	if !ok || got2.Name() != "first" {
		t.Fatalf("expected first-registered entry on tie, got %v", got2)
	}
}

func TestShutdownAllDrainsRegistry(t *testing.T) {
	r := New[*stubExtractor]()
	e := &stubExtractor{name: "pdf"}
	_ = r.Register(e)
	r.ShutdownAll()
	if !e.shutdown {
		t.Fatal("expected Shutdown() to be invoked")
	}
	if len(r.List()) != 0 {
		t.Fatal("expected registry to be drained")
	}
}
