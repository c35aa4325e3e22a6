package hooks

import (
	"io"
	"testing"
)

func TestExpandVariables_AllPlaceholders(t *testing.T) {
	ctx := &HookContext{
		TargetPath: "/home/user/.bashrc",
		SourcePath: "/home/user/dotfiles/.bashrc",
		RepoName:   "alpha",
		Subdir:     "dots",
	}

	script := "echo {repo}/{subdir} from {source} to {target}"
	result := expandVariables(script, ctx)
	expected := "echo alpha/dots from /home/user/dotfiles/.bashrc to /home/user/.bashrc"

	if result != expected {
		t.Errorf("expected %q, got %q", expected, result)
	}
}

func TestExpandVariables_NilContext(t *testing.T) {
	script := "echo {target}"
	result := expandVariables(script, nil)
	if result != script {
		t.Errorf("expected unchanged script %q, got %q", script, result)
	}
}

func TestExpandVariables_NoPlaceholders(t *testing.T) {
	ctx := &HookContext{RepoName: "alpha"}
	script := "echo hello world"
	result := expandVariables(script, ctx)
	if result != script {
		t.Errorf("expected unchanged %q, got %q", script, result)
	}
}

func TestExpandVariables_MultipleSamePlaceholder(t *testing.T) {
	ctx := &HookContext{RepoName: "alpha"}
	script := "echo {repo} and again {repo}"
	result := expandVariables(script, ctx)
	expected := "echo alpha and again alpha"
	if result != expected {
		t.Errorf("expected %q, got %q", expected, result)
	}
}

func TestRun_DryRunDoesNotExecute(t *testing.T) {
	err := Run(io.Discard, "false", &HookContext{DryRun: true})
	if err != nil {
		t.Errorf("expected no error in dry run, got: %v", err)
	}
}

func TestRun_EmptyCommand(t *testing.T) {
	if err := Run(io.Discard, "", &HookContext{}); err == nil {
		t.Error("expected error for empty command")
	}
}

func TestRun_WhitespaceOnlyCommand(t *testing.T) {
	if err := Run(io.Discard, "   ", &HookContext{}); err == nil {
		t.Error("expected error for whitespace-only command")
	}
}

func TestRun_SimpleCommand(t *testing.T) {
	if err := Run(io.Discard, "true", nil); err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
}

func TestRun_FailingCommand(t *testing.T) {
	if err := Run(io.Discard, "false", nil); err == nil {
		t.Error("expected error for failing command")
	}
}

func TestRun_VariableExpansion(t *testing.T) {
	ctx := &HookContext{RepoName: "alpha"}
	if err := Run(io.Discard, "test {repo} = alpha", ctx); err != nil {
		t.Errorf("expected variable expansion to work, got: %v", err)
	}
}

func TestRunHooks_EmptyScripts(t *testing.T) {
	if err := RunHooks(io.Discard, nil, PreApply, &HookContext{}); err != nil {
		t.Errorf("expected no error for nil scripts, got: %v", err)
	}
	if err := RunHooks(io.Discard, []string{}, PostApply, &HookContext{}); err != nil {
		t.Errorf("expected no error for empty scripts, got: %v", err)
	}
}

func TestRunHooks_MultipleScripts(t *testing.T) {
	scripts := []string{"true", "true", "true"}
	if err := RunHooks(io.Discard, scripts, PostApply, &HookContext{}); err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
}

func TestRunHooks_StopsOnFirstFailure(t *testing.T) {
	scripts := []string{"true", "false", "true"}
	if err := RunHooks(io.Discard, scripts, PreFile, &HookContext{}); err == nil {
		t.Error("expected error when script fails")
	}
}

func TestRunHooks_DryRun(t *testing.T) {
	scripts := []string{"false"}
	if err := RunHooks(io.Discard, scripts, PostFile, &HookContext{DryRun: true}); err != nil {
		t.Errorf("expected no error in dry run mode, got: %v", err)
	}
}
