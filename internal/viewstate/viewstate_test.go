package viewstate

import "testing"

func TestNewStartsAtDashboard(t *testing.T) {
	s := New()
	snap := s.Snapshot()
	if snap.CurrentView != ViewDashboard {
		t.Errorf("Expected initial view dashboard, got %s", snap.CurrentView)
	}
	if snap.SelectedBlueprintID != "" || snap.SelectedContractID != "" {
		t.Error("Expected no selection on a fresh state")
	}
}

func TestNavigateRejectsUnknownView(t *testing.T) {
	s := New()
	if err := s.Navigate("settings"); err == nil {
		t.Error("Expected error for unknown view")
	}
	if s.Snapshot().CurrentView != ViewDashboard {
		t.Error("Failed navigation must not change the current view")
	}
}

func TestSelectBlueprintEntersEditView(t *testing.T) {
	s := New()
	s.SelectBlueprint("bp-1")

	snap := s.Snapshot()
	if snap.CurrentView != ViewBlueprintEdit {
		t.Errorf("Expected blueprint-edit view, got %s", snap.CurrentView)
	}
	if snap.SelectedBlueprintID != "bp-1" {
		t.Errorf("Expected selected blueprint bp-1, got %s", snap.SelectedBlueprintID)
	}
	if snap.SelectedContractID != "" {
		t.Error("Selecting a blueprint must clear the contract selection")
	}
}

func TestSelectContractEntersContractView(t *testing.T) {
	s := New()
	s.SelectBlueprint("bp-1")
	s.SelectContract("ct-1")

	snap := s.Snapshot()
	if snap.CurrentView != ViewContractView {
		t.Errorf("Expected contract-view, got %s", snap.CurrentView)
	}
	if snap.SelectedContractID != "ct-1" {
		t.Errorf("Expected selected contract ct-1, got %s", snap.SelectedContractID)
	}
	if snap.SelectedBlueprintID != "" {
		t.Error("Selecting a contract must clear the blueprint selection")
	}
}

func TestNavigateAwayClearsSelection(t *testing.T) {
	s := New()
	s.SelectContract("ct-1")

	if err := s.Navigate(ViewBlueprints); err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}

	snap := s.Snapshot()
	if snap.CurrentView != ViewBlueprints {
		t.Errorf("Expected blueprints view, got %s", snap.CurrentView)
	}
	if snap.SelectedContractID != "" {
		t.Error("Leaving contract-view must clear the contract selection")
	}
}

func TestReset(t *testing.T) {
	s := New()
	s.SelectBlueprint("bp-9")
	s.Reset()

	snap := s.Snapshot()
	if snap.CurrentView != ViewDashboard {
		t.Errorf("Expected dashboard after reset, got %s", snap.CurrentView)
	}
	if snap.SelectedBlueprintID != "" || snap.SelectedContractID != "" {
		t.Error("Expected selections cleared after reset")
	}
}

func TestIsValidView(t *testing.T) {
	for _, view := range []string{
		ViewDashboard, ViewBlueprints, ViewBlueprintCreate,
		ViewBlueprintEdit, ViewContractCreate, ViewContractView,
	} {
		if !IsValidView(view) {
			t.Errorf("Expected %s to be valid", view)
		}
	}
	if IsValidView("") || IsValidView("admin") {
		t.Error("Expected unknown views to be invalid")
	}
}
