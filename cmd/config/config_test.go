package config

import "testing"

func TestConfigCmd_Metadata(t *testing.T) {
	if ConfigCmd.Use != "config" {
		t.Errorf("ConfigCmd.Use = %q, want %q", ConfigCmd.Use, "config")
	}
}

func TestConfigCmd_Subcommands(t *testing.T) {
	want := map[string]bool{
		"show":     false,
		"edit":     false,
		"validate": false,
	}

	for _, sub := range ConfigCmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}

	for name, found := range want {
		if !found {
			t.Errorf("ConfigCmd is missing subcommand %q", name)
		}
	}
}
