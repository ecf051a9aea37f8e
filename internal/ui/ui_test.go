package ui

import (
	"strings"
	"testing"

	"planline/internal/models"
)

func TestShouldUseColor_Env(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	t.Setenv("CLICOLOR_FORCE", "1")
	if ShouldUseColor() {
		t.Error("NO_COLOR should win over CLICOLOR_FORCE")
	}

	t.Setenv("NO_COLOR", "")
	if !ShouldUseColor() {
		t.Error("CLICOLOR_FORCE=1 should force color")
	}

	t.Setenv("CLICOLOR_FORCE", "")
	t.Setenv("CLICOLOR", "0")
	if ShouldUseColor() {
		t.Error("CLICOLOR=0 should disable color")
	}
}

func TestStatusColor(t *testing.T) {
	seen := map[int]string{}
	for _, s := range models.Statuses {
		c := StatusColor(s)
		if prev, ok := seen[c]; ok {
			t.Errorf("%s and %s share color %d", prev, s, c)
		}
		seen[c] = s
	}
	if StatusColor("bogus") != StatusColor(models.StatusPending) {
		t.Error("unknown statuses should render like pending")
	}
}

func TestRenderStatus(t *testing.T) {
	out := RenderStatus(models.StatusDone, "ok")
	if !strings.Contains(out, "ok") || !strings.HasPrefix(out, "\x1b[") {
		t.Errorf("RenderStatus() = %q, want ANSI wrapped text", out)
	}

	ForceNoColor()
	defer func() { noColor = false }()
	if got := RenderStatus(models.StatusDone, "ok"); got != "ok" {
		t.Errorf("RenderStatus() with color disabled = %q, want plain", got)
	}
	if ShouldUseColor() {
		t.Error("ForceNoColor should disable ShouldUseColor")
	}
}
