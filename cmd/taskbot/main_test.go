package main

import (
	"os"
	"testing"

	"github.com/stellarlinkco/taskbot/internal/config"
)

func TestMaskToken(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "not set"},
		{"short", "set"},
		{"123456:ABCdefGHIjkl", "1234...Ijkl"},
	}
	for _, c := range cases {
		if got := maskToken(c.in); got != c.want {
			t.Errorf("maskToken(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestRunOnboard_CreatesConfigAndStore(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TASKBOT_TELEGRAM_TOKEN", "")
	t.Setenv("TASKBOT_DB_PATH", "")

	if err := runOnboard(onboardCmd, nil); err != nil {
		t.Fatalf("runOnboard error: %v", err)
	}

	if _, err := os.Stat(config.ConfigPath()); err != nil {
		t.Errorf("config not created: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if _, err := os.Stat(cfg.Storage.DBPath); err != nil {
		t.Errorf("store not created: %v", err)
	}

	// Second run leaves the existing config alone
	if err := runOnboard(onboardCmd, nil); err != nil {
		t.Errorf("second runOnboard error: %v", err)
	}
}

func TestRunBot_NoToken(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TASKBOT_TELEGRAM_TOKEN", "")

	if err := runBot(botCmd, nil); err == nil {
		t.Error("expected error without telegram token")
	}
}

func TestRunStatus(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TASKBOT_TELEGRAM_TOKEN", "")
	t.Setenv("TASKBOT_DB_PATH", "")

	// Works both before and after onboarding
	if err := runStatus(statusCmd, nil); err != nil {
		t.Errorf("runStatus error: %v", err)
	}
	if err := runOnboard(onboardCmd, nil); err != nil {
		t.Fatalf("runOnboard error: %v", err)
	}
	if err := runStatus(statusCmd, nil); err != nil {
		t.Errorf("runStatus after onboard error: %v", err)
	}
}
