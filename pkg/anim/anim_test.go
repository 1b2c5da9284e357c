package anim

import "testing"

func TestVocabulary_Resolve(t *testing.T) {
	v := DefaultVocabulary()

	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Idle", "Idle", true},
		{"idle", "Idle", true},
		{"IDLE", "Idle", true},
		{"chicken dance", "Chicken Dance", true},
		{"  jumping  ", "Jumping", true},
		{"Wave Hip Hop Dance", "Wave Hip Hop Dance", true},
		{"moonwalk", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := v.Resolve(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Resolve(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestVocabulary_DuplicatesKeepFirstCasing(t *testing.T) {
	v := NewVocabulary([]string{"Idle", "IDLE", "idle"})

	if v.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", v.Len())
	}
	got, ok := v.Resolve("idle")
	if !ok || got != "Idle" {
		t.Errorf("Resolve(idle) = %q, %v; want Idle, true", got, ok)
	}
}

func TestVocabulary_NamesOrder(t *testing.T) {
	v := DefaultVocabulary()

	names := v.Names()
	if len(names) != len(DefaultNames) {
		t.Fatalf("Names() returned %d entries, want %d", len(names), len(DefaultNames))
	}
	for i, name := range DefaultNames {
		if names[i] != name {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], name)
		}
	}
}
