package registry

import (
	"context"
	"errors"
	"testing"
)

type stubSync struct{ name string }

func (s *stubSync) Name() string { return s.name }
func (s *stubSync) WaitForVBlank(ctx context.Context) error { return ctx.Err() }
func (s *stubSync) Close() error { return nil }

func TestRegisterCreate(t *testing.T) {
	Register("test-stub", "Stub strategy", func(Hardware) (Synchronizer, error) {
		return &stubSync{name: "test-stub"}, nil
	})

	if !Exists("test-stub") {
		t.Fatal("test-stub should exist after Register")
	}

	s, err := Create("test-stub", Hardware{})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if s.Name() != "test-stub" {
		t.Errorf("Name() = %q, expected test-stub", s.Name())
	}

	found := false
	for _, info := range List() {
		if info.ID == "test-stub" {
			found = true
			if info.Title != "Stub strategy" {
				t.Errorf("Title = %q, expected %q", info.Title, "Stub strategy")
			}
		}
	}
	if !found {
		t.Error("List() should include test-stub")
	}
}

func TestCreateErrors(t *testing.T) {
	if _, err := Create("does-not-exist", Hardware{}); err == nil {
		t.Error("expected error for unknown strategy")
	}

	boom := errors.New("boom")
	Register("test-failing", "Always fails", func(Hardware) (Synchronizer, error) {
		return nil, boom
	})
	if _, err := Create("test-failing", Hardware{}); !errors.Is(err, boom) {
		t.Errorf("Create() error = %v, expected to wrap boom", err)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("test-dup", "Dup", func(Hardware) (Synchronizer, error) { return nil, nil })

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	Register("test-dup", "Dup", func(Hardware) (Synchronizer, error) { return nil, nil })
}

func TestListSorted(t *testing.T) {
	Register("test-b", "B", func(Hardware) (Synchronizer, error) { return nil, nil })
	Register("test-a", "A", func(Hardware) (Synchronizer, error) { return nil, nil })

	list := List()
	for i := 1; i < len(list); i++ {
		if list[i-1].ID > list[i].ID {
			t.Fatalf("List() not sorted: %q before %q", list[i-1].ID, list[i].ID)
		}
	}
}
