package shell

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setEnvVar(t *testing.T, key, value string) (originalValue string, wasSet bool) {
	t.Helper()
	originalValue, wasSet = os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("Failed to set env var %s: %v", key, err)
	}
	return
}

func unsetEnvVar(t *testing.T, key string, originalValue string, wasSet bool) {
	t.Helper()
	if wasSet {
		if err := os.Setenv(key, originalValue); err != nil {
			t.Fatalf("Failed to restore env var %s: %v", key, err)
		}
	} else {
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("Failed to unset env var %s: %v", key, err)
		}
	}
}

func TestGetRCFilePath(t *testing.T) {
	origHome, homeWasSet := os.LookupEnv("HOME")
	tempHome := t.TempDir()
	setEnvVar(t, "HOME", tempHome)
	defer unsetEnvVar(t, "HOME", origHome, homeWasSet)

	os.MkdirAll(filepath.Join(tempHome, ".config", "fish"), 0o755)

	tests := []struct {
		name         string
		shell        SupportedShell
		zdotdir      string
		wantError    bool
		expectedPath string
	}{
		{"bash", Bash, "", false, filepath.Join(tempHome, ".bashrc")},
		{"zsh_no_zdotdir", Zsh, "", false, filepath.Join(tempHome, ".zshrc")},
		{"zsh_with_zdotdir", Zsh, filepath.Join(tempHome, ".myzdotdir"), false, filepath.Join(tempHome, ".myzdotdir", ".zshrc")},
		{"fish", Fish, "", false, filepath.Join(tempHome, ".config", "fish", "config.fish")},
		{"unsupported", SupportedShell("powershell"), "", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.zdotdir != "" {
				orig, wasSet := setEnvVar(t, "ZDOTDIR", tt.zdotdir)
				defer unsetEnvVar(t, "ZDOTDIR", orig, wasSet)
			} else {
				os.Unsetenv("ZDOTDIR")
			}

			gotPath, err := GetRCFilePath(tt.shell)
			if (err != nil) != tt.wantError {
				t.Errorf("GetRCFilePath() for %s error = %v, wantError %v", tt.shell, err, tt.wantError)
				return
			}
			if !tt.wantError && gotPath != tt.expectedPath {
				t.Errorf("GetRCFilePath() for %s = %s, want %s", tt.shell, gotPath, tt.expectedPath)
			}
		})
	}
}

func TestGetGeneratedDir(t *testing.T) {
	origHome, homeWasSet := os.LookupEnv("HOME")
	tempHome := t.TempDir()
	setEnvVar(t, "HOME", tempHome)
	defer unsetEnvVar(t, "HOME", origHome, homeWasSet)

	origXdg, xdgWasSet := os.LookupEnv("XDG_CONFIG_HOME")
	os.Unsetenv("XDG_CONFIG_HOME")
	defer unsetEnvVar(t, "XDG_CONFIG_HOME", origXdg, xdgWasSet)

	dir, err := GetGeneratedDir()
	if err != nil {
		t.Fatalf("GetGeneratedDir() error: %v", err)
	}
	want := filepath.Join(tempHome, ".config", "instantdots", "generated")
	if dir != want {
		t.Errorf("GetGeneratedDir() = %s, want %s", dir, want)
	}

	custom := filepath.Join(tempHome, "custom_xdg")
	setEnvVar(t, "XDG_CONFIG_HOME", custom)
	dir, err = GetGeneratedDir()
	if err != nil {
		t.Fatalf("GetGeneratedDir() error: %v", err)
	}
	want = filepath.Join(custom, "instantdots", "generated")
	if dir != want {
		t.Errorf("GetGeneratedDir() with XDG_CONFIG_HOME = %s, want %s", dir, want)
	}
}

func TestInjectSourceLines_DryRun_NoFile(t *testing.T) {
	tempDir := t.TempDir()
	origHome, homeWasSet := os.LookupEnv("HOME")
	setEnvVar(t, "HOME", tempDir)
	defer unsetEnvVar(t, "HOME", origHome, homeWasSet)

	rcFilePath := filepath.Join(tempDir, ".bashrc")
	os.Remove(rcFilePath)

	linesToInject := []string{"source /path/to/generated_env.sh"}

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := InjectSourceLines(Bash, linesToInject, true)

	w.Close()
	buf := new(strings.Builder)
	_, _ = io.Copy(buf, r)
	os.Stdout = oldStdout
	output := buf.String()

	if err != nil {
		t.Errorf("InjectSourceLines (dry run, no file) returned error: %v", err)
	}
	if _, statErr := os.Stat(rcFilePath); !os.IsNotExist(statErr) {
		t.Errorf("InjectSourceLines dry run created rc file %s when it should not have", rcFilePath)
	}
	if !strings.Contains(output, "would update rc file") {
		t.Errorf("expected dry run output to mention updating the rc file, got: %s", output)
	}
}

func TestInjectSourceLines_CreatesBlockThenIsIdempotent(t *testing.T) {
	tempDir := t.TempDir()
	origHome, homeWasSet := os.LookupEnv("HOME")
	setEnvVar(t, "HOME", tempDir)
	defer unsetEnvVar(t, "HOME", origHome, homeWasSet)

	lines := []string{"source /path/to/generated_env.sh"}

	if err := InjectSourceLines(Bash, lines, false); err != nil {
		t.Fatalf("InjectSourceLines() returned error: %v", err)
	}
	rcFilePath := filepath.Join(tempDir, ".bashrc")
	data, err := os.ReadFile(rcFilePath)
	if err != nil {
		t.Fatalf("rc file was not written: %v", err)
	}
	if !strings.Contains(string(data), BlockBeginMarker) || !strings.Contains(string(data), lines[0]) {
		t.Fatalf("rc file does not contain the managed block: %s", data)
	}

	firstWrite := string(data)
	if err := InjectSourceLines(Bash, lines, false); err != nil {
		t.Fatalf("second InjectSourceLines() returned error: %v", err)
	}
	data, _ = os.ReadFile(rcFilePath)
	if string(data) != firstWrite {
		t.Errorf("InjectSourceLines() should be idempotent, content changed:\nfirst: %q\nsecond: %q", firstWrite, data)
	}
}
