package notify

import "testing"

func TestLoadPreferencesEnvOverride(t *testing.T) {
	t.Setenv("SLATEVIEW_NOTIFY_TITLE", "My Viewer")
	t.Setenv("SLATEVIEW_NOTIFY_SAVE_TEXT", "Wrote %s")
	prefs := LoadPreferences()
	if prefs.Title != "My Viewer" {
		t.Errorf("Title = %q", prefs.Title)
	}
	if got := prefs.Events[EventSave].Template; got != "Wrote %s" {
		t.Errorf("save template = %q", got)
	}
	if got := prefs.Events[EventCopy].Template; got != DefaultPreferences().Events[EventCopy].Template {
		t.Errorf("copy template changed: %q", got)
	}
}

func TestEnableGating(t *testing.T) {
	n := New(DefaultPreferences())
	if n.enabledFor(EventSave) {
		t.Error("events must start disabled")
	}
	n.Enable(EventSave, true)
	if !n.enabledFor(EventSave) {
		t.Error("Enable did not take")
	}
	n.Enable(EventSave, false)
	if n.enabledFor(EventSave) {
		t.Error("disable did not take")
	}
}

func TestNilNotifierSafe(t *testing.T) {
	var n *Notifier
	n.Enable(EventCopy, true)
	n.Copy("x")
	n.Save("x")
	n.Capture("x", nil)
}
