package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/rssview/internal/config"
)

func TestBanner(t *testing.T) {
	out := Banner("1.0.0-test")

	if !strings.Contains(out, "RSS viewer v1.0.0-test") {
		t.Errorf("Expected banner to contain versioned tagline, got: %s", out)
	}
	if !strings.Contains(out, "╔") || !strings.Contains(out, "╝") {
		t.Errorf("Expected banner to contain border characters, got: %s", out)
	}

	dev := Banner("dev")
	if strings.Contains(dev, "vdev") {
		t.Errorf("dev builds should not carry a version tag, got: %s", dev)
	}
}

func TestGetWelcomeMessage(t *testing.T) {
	result := GetWelcomeMessage()

	if !strings.Contains(result, "Paste a feed URL and press enter") {
		t.Errorf("Expected welcome message to contain instructions, got: %s", result)
	}
	if !strings.Contains(result, "█▀▄") {
		t.Errorf("Expected welcome message to contain logo elements, got: %s", result)
	}
}

func TestApplyTheme(t *testing.T) {
	defaults := config.TestConfig().UI.Colors
	t.Cleanup(func() { ApplyTheme(defaults) })

	ApplyTheme(config.UIColors{Primary: "#123456", Error: "#ABCDEF"})

	if PrimaryColor != lipgloss.Color("#123456") {
		t.Errorf("PrimaryColor = %v, want #123456", PrimaryColor)
	}
	if ErrorColor != lipgloss.Color("#ABCDEF") {
		t.Errorf("ErrorColor = %v, want #ABCDEF", ErrorColor)
	}
	if SecondaryColor != lipgloss.Color(defaults.Secondary) {
		t.Errorf("empty entries must keep the current color, got %v", SecondaryColor)
	}
	if ErrorMessageStyle.GetForeground() != lipgloss.Color("#ABCDEF") {
		t.Error("styles should be rebuilt from the new palette")
	}
}
