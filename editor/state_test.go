package editor_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"docbuilder/editor"
)

func TestStateSetContentRescans(t *testing.T) {
	s := editor.NewState()
	s.SetContent("{{a}} {{b}}")
	s.SetContent("{{b}} seulement")
	if diff := cmp.Diff(editor.FieldSet{"b"}, s.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestStateView(t *testing.T) {
	s := editor.NewState()
	s.SetContent("Été {{nom_client}}")
	v := s.View(editor.DefaultFieldLimit)
	if v.Counters.Chars != 18 || v.Counters.Fields != 1 {
		t.Fatalf("unexpected counters %+v", v.Counters)
	}
	if v.Preview.Empty {
		t.Fatal("preview should not be empty")
	}
	want := []editor.StepState{editor.StepCompleted, editor.StepActive, editor.StepPending}
	if diff := cmp.Diff(want, v.Steps); diff != "" {
		t.Fatalf("steps mismatch (-want +got):\n%s", diff)
	}
}

func TestStateCheckSave(t *testing.T) {
	s := editor.NewState()
	s.SetContent("{{x}}")

	var verr *editor.ValidationError
	if _, err := s.CheckSave(); !errors.As(err, &verr) || verr.Field != "title" {
		t.Fatalf("expected title validation error, got %v", err)
	}

	s.Title = "Contrat"
	s.SetContent("   ")
	if _, err := s.CheckSave(); !errors.As(err, &verr) || verr.Field != "content" {
		t.Fatalf("expected content validation error, got %v", err)
	}

	s.SetContent("pas de champ")
	prompt, err := s.CheckSave()
	if err != nil || prompt != editor.NoFieldsPrompt {
		t.Fatalf("expected confirmation prompt, got %q, %v", prompt, err)
	}

	s.SetContent("{{x}}")
	if prompt, err := s.CheckSave(); err != nil || prompt != "" {
		t.Fatalf("expected clean save, got %q, %v", prompt, err)
	}
}
