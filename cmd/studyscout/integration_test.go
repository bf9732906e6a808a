package main

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/priyamverma/studyscout/internal/tuitest"
)

func TestOnboardingToDashboard(t *testing.T) {
	t.Parallel()

	cmdDir := moduleDir(t)
	binary := buildBinary(t, cmdDir)
	configDir := t.TempDir()

	rec, err := tuitest.Play(context.Background(), tuitest.Script{
		Command: []string{binary, "-no-alt-screen"},
		Dir:     cmdDir,
		Env: []string{
			"STUDYSCOUT_CONFIG_DIR=" + configDir,
			"GEMINI_API_KEY=",
		},
		Cols: 110,
		Rows: 34,
		Keys: []tuitest.Keystroke{
			tuitest.Pause(time.Second),
			tuitest.Type(0, "Asha"),
			{Wait: 200 * time.Millisecond, Bytes: tuitest.Enter},
			tuitest.Type(100*time.Millisecond, "12"),
			{Wait: 200 * time.Millisecond, Bytes: tuitest.Enter},
			tuitest.Type(100*time.Millisecond, "JEE"),
			{Wait: 200 * time.Millisecond, Bytes: tuitest.Enter},
			tuitest.Pause(500 * time.Millisecond),
			{Bytes: tuitest.CtrlC},
		},
		Timeout:        15 * time.Second,
		AllowInterrupt: true,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}

	if !rec.Contains("Tell us about yourself") {
		t.Fatalf("onboarding form never rendered; frames:\n%s", lastPlain(rec))
	}
	if !rec.Contains("Hi Asha, what shall we study?") {
		t.Fatalf("dashboard greeting missing after onboarding; frames:\n%s", lastPlain(rec))
	}
	if !rec.Contains("Model backend disabled") {
		t.Fatalf("missing-credential banner not shown; frames:\n%s", lastPlain(rec))
	}
}

func TestDashboardHelpOverlay(t *testing.T) {
	t.Parallel()

	cmdDir := moduleDir(t)
	binary := buildBinary(t, cmdDir)
	configDir := seedProfile(t)

	rec, err := tuitest.Play(context.Background(), tuitest.Script{
		Command: []string{binary, "-no-alt-screen"},
		Dir:     cmdDir,
		Env: []string{
			"STUDYSCOUT_CONFIG_DIR=" + configDir,
			"GEMINI_API_KEY=",
		},
		Keys: []tuitest.Keystroke{
			tuitest.Pause(time.Second),
			tuitest.Type(0, "?"),
			tuitest.Pause(500 * time.Millisecond),
			{Bytes: tuitest.CtrlC},
		},
		Timeout:        15 * time.Second,
		AllowInterrupt: true,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}

	if !rec.Contains("Keys") || !rec.Contains("quit from anywhere") {
		t.Fatalf("help overlay missing; frames:\n%s", lastPlain(rec))
	}
}

func TestCorruptProfileStartsFresh(t *testing.T) {
	t.Parallel()

	cmdDir := moduleDir(t)
	binary := buildBinary(t, cmdDir)
	configDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(configDir, "profile.json"), []byte("{broken"), 0o644); err != nil {
		t.Fatalf("seed corrupt profile: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "theme.json"), []byte("not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt theme: %v", err)
	}

	rec, err := tuitest.Play(context.Background(), tuitest.Script{
		Command: []string{binary, "-no-alt-screen"},
		Dir:     cmdDir,
		Env: []string{
			"STUDYSCOUT_CONFIG_DIR=" + configDir,
			"GEMINI_API_KEY=",
		},
		Keys: []tuitest.Keystroke{
			tuitest.Pause(time.Second),
			{Bytes: tuitest.CtrlC},
		},
		Timeout:        15 * time.Second,
		AllowInterrupt: true,
	})
	if err != nil {
		t.Fatalf("corrupt state must not prevent startup: %v", err)
	}
	if !rec.Contains("Tell us about yourself") {
		t.Fatalf("corrupt profile should route to onboarding; frames:\n%s", lastPlain(rec))
	}
}

func seedProfile(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	profileJSON := []byte(`{"name":"Ravi","grade":"11","targetExam":"NEET","onboarded":true}`)
	if err := os.WriteFile(filepath.Join(dir, "profile.json"), profileJSON, 0o644); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	return dir
}

func lastPlain(rec *tuitest.Recording) string {
	frame, ok := rec.Final()
	if !ok {
		return "(no frames)"
	}
	return frame.Plain
}

func moduleDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	return filepath.Dir(file)
}

func buildBinary(t *testing.T, cmdDir string) string {
	t.Helper()
	tmp := t.TempDir()
	name := "studyscout-integration"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	binPath := filepath.Join(tmp, name)
	cmd := exec.Command("go", "build", "-o", binPath, ".")
	cmd.Dir = cmdDir
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build CLI: %v\n%s", err, output)
	}
	return binPath
}
