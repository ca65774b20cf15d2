package main

import (
	"testing"

	"github.com/spf13/viper"
)

func TestEnvSatisfiesFlags(t *testing.T) {
	t.Setenv("GROQ_LANGUAGE", "spanish")
	t.Setenv("GROQ_COUNT", "5")
	t.Setenv("GROQ_LOG_LEVEL", "debug")

	if got := viper.GetString("language"); got != "spanish" {
		t.Errorf("language = %q, want %q", got, "spanish")
	}
	if got := viper.GetInt("count"); got != 5 {
		t.Errorf("count = %d, want 5", got)
	}
	if got := viper.GetString("log-level"); got != "debug" {
		t.Errorf("log-level = %q, want %q", got, "debug")
	}
}

func TestFlagDefaults(t *testing.T) {
	if got := viper.GetInt("count"); got != 10 {
		t.Errorf("default count = %d, want 10", got)
	}
	if viper.GetBool("json") {
		t.Error("json defaults to true, want false")
	}
}
