package service

import "testing"

func TestServiceCmd_Metadata(t *testing.T) {
	if ServiceCmd.Use != "service" {
		t.Errorf("ServiceCmd.Use = %q, want %q", ServiceCmd.Use, "service")
	}
	if ServiceCmd.Short == "" {
		t.Error("ServiceCmd.Short is empty")
	}
}

func TestServiceCmd_Subcommands(t *testing.T) {
	want := map[string]bool{
		"install":   false,
		"uninstall": false,
		"status":    false,
	}

	for _, sub := range ServiceCmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}

	for name, found := range want {
		if !found {
			t.Errorf("ServiceCmd is missing subcommand %q", name)
		}
	}
}
