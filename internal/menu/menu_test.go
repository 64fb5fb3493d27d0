package menu

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func buildAppMenu(t *testing.T) *Menu {
	t.Helper()
	m, err := BuildAppMenu("")
	if err != nil {
		t.Fatalf("BuildAppMenu returned error: %v", err)
	}
	return m
}

func TestAppMenuContainsEveryCatalogueActionOnce(t *testing.T) {
	m := buildAppMenu(t)

	counts := make(map[ActionID]int)
	for _, id := range m.Actions() {
		counts[id]++
	}

	catalogue := Catalogue()
	if len(catalogue) != 20 {
		t.Fatalf("expected 20 catalogue entries, got %d", len(catalogue))
	}
	if len(counts) != len(catalogue) {
		t.Fatalf("expected %d distinct actions, got %d", len(catalogue), len(counts))
	}
	for _, id := range catalogue {
		if counts[id] != 1 {
			t.Fatalf("action %q appears %d times", id, counts[id])
		}
	}
}

func TestAppMenuTopLevelOrder(t *testing.T) {
	m := buildAppMenu(t)
	want := []string{DefaultAppName, "File", "Edit", "View", "Window", "Help"}

	items := m.Items()
	if len(items) != len(want) {
		t.Fatalf("expected %d submenus, got %d", len(want), len(items))
	}
	for i, item := range items {
		if item.Kind != KindSubmenu || item.Label != want[i] {
			t.Fatalf("position %d expected submenu %q, got %s %q", i, want[i], item.Kind, item.Label)
		}
	}
}

func TestAppMenuNestedSubmenus(t *testing.T) {
	m := buildAppMenu(t)

	parents := make(map[ActionID]string)
	err := m.Walk(func(path []string, n Node) error {
		if n.Kind == KindAction {
			parents[n.ID] = strings.Join(path, "/")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}

	cases := map[ActionID]string{
		ActionExportSTL:   "File/Export",
		ActionExportPDF:   "File/Export",
		ActionCameraIso:   "View/Camera",
		ActionToggleGrid:  "View",
		ActionPreferences: DefaultAppName,
		ActionShortcuts:   "Help",
	}
	for id, want := range cases {
		if parents[id] != want {
			t.Fatalf("action %q expected under %q, got %q", id, want, parents[id])
		}
	}
}

func TestAppMenuEditIsPredefinedOnly(t *testing.T) {
	m := buildAppMenu(t)
	edit := m.Items()[2]

	var got []string
	for _, n := range edit.Children {
		switch n.Kind {
		case KindPredefined:
			got = append(got, n.Predefined.String())
		case KindSeparator:
			got = append(got, "|")
		default:
			t.Fatalf("unexpected %s node in Edit", n.Kind)
		}
	}
	want := "undo redo | cut copy paste select-all"
	if strings.Join(got, " ") != want {
		t.Fatalf("unexpected Edit layout %q", strings.Join(got, " "))
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	m := buildAppMenu(t)
	items := m.Items()
	items[1].Children[0].Label = "mutated"

	n, ok := m.Find(ActionNew)
	if !ok {
		t.Fatalf("expected to find %q", ActionNew)
	}
	if n.Label != "New Project" {
		t.Fatalf("menu was mutated through Items: %q", n.Label)
	}
}

func TestFindMissingAction(t *testing.T) {
	m, err := NewBuilder().Item(NewSubmenu("Help").Text(ActionShortcuts, "Keys")).Build()
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if _, ok := m.Find(ActionSave); ok {
		t.Fatalf("did not expect to find %q", ActionSave)
	}
}

func TestBuilderRejectsUnknownAction(t *testing.T) {
	_, err := NewBuilder().Item(NewSubmenu("File").Text("launch-rockets", "Launch")).Build()
	if !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
}

func TestBuilderRejectsDuplicateAction(t *testing.T) {
	_, err := NewBuilder().
		Item(NewSubmenu("File").Text(ActionSave, "Save")).
		Item(NewSubmenu("Other").Text(ActionSave, "Save again")).
		Build()
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate action error, got %v", err)
	}
}

func TestBuilderRejectsEmptySubmenu(t *testing.T) {
	_, err := NewBuilder().
		Item(NewSubmenu("File").Submenu(NewSubmenu("Export"))).
		Build()
	if err == nil || !strings.Contains(err.Error(), "empty") {
		t.Fatalf("expected empty submenu error, got %v", err)
	}
}

func TestBuilderRejectsNoSubmenus(t *testing.T) {
	if _, err := NewBuilder().Build(); err == nil {
		t.Fatalf("expected error for empty menu")
	}
}

func TestParseAction(t *testing.T) {
	if id, err := ParseAction("camera-iso"); err != nil || id != ActionCameraIso {
		t.Fatalf("ParseAction(camera-iso) = %q, %v", id, err)
	}
	if _, err := ParseAction("camera-fisheye"); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
}

func TestPredefinedLabels(t *testing.T) {
	m := buildAppMenu(t)
	app := m.Items()[0]
	if got := app.Children[0].DisplayLabel(); got != "About "+DefaultAppName {
		t.Fatalf("unexpected about label %q", got)
	}
	window := m.Items()[4]
	if got := window.Children[0].DisplayLabel(); got != "Minimize" {
		t.Fatalf("unexpected minimize label %q", got)
	}
}

func TestFprintOutline(t *testing.T) {
	m := buildAppMenu(t)
	var buf bytes.Buffer
	if err := Fprint(&buf, m); err != nil {
		t.Fatalf("Fprint returned error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"File/", "    Export as STL...", "[toggle-grid]", "<quit>"} {
		if !strings.Contains(out, want) {
			t.Fatalf("outline missing %q:\n%s", want, out)
		}
	}
}

func outline(t *testing.T, m *Menu) map[string][]string {
	t.Helper()
	got := make(map[string][]string)
	err := m.Walk(func(path []string, n Node) error {
		if len(path) == 0 {
			return nil
		}
		parent := strings.Join(path, "/")
		var line string
		switch n.Kind {
		case KindSeparator:
			line = "----"
		case KindSubmenu:
			line = n.Label + "/"
		case KindAction:
			line = n.Label + " [" + string(n.ID) + "]"
		case KindPredefined:
			line = n.DisplayLabel() + " <" + n.Predefined.String() + ">"
		}
		got[parent] = append(got[parent], line)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}
	return got
}

func TestAppMenuLayout(t *testing.T) {
	got := outline(t, buildAppMenu(t))

	want := map[string][]string{
		DefaultAppName: {
			"About BuildPCBs AI <about>",
			"----",
			"Preferences... [preferences]",
			"----",
			"Services <services>",
			"----",
			"Hide BuildPCBs AI <hide>",
			"Hide Others <hide-others>",
			"Show All <show-all>",
			"----",
			"Quit BuildPCBs AI <quit>",
		},
		"File": {
			"New Project [new]",
			"Open... [open]",
			"----",
			"Save [save]",
			"Save As... [save-as]",
			"----",
			"Export/",
			"----",
			"Close Window <close-window>",
		},
		"File/Export": {
			"Export as STL... [export-stl]",
			"Export as STEP... [export-step]",
			"Export as PDF... [export-pdf]",
		},
		"Edit": {
			"Undo <undo>",
			"Redo <redo>",
			"----",
			"Cut <cut>",
			"Copy <copy>",
			"Paste <paste>",
			"Select All <select-all>",
		},
		"View": {
			"Toggle Properties Panel [toggle-properties]",
			"Toggle Terminal [toggle-terminal]",
			"----",
			"Camera/",
			"----",
			"Toggle Grid [toggle-grid]",
			"Toggle Exploded View [toggle-exploded]",
			"Toggle Clipping Plane [toggle-clipping]",
			"----",
			"Enter Full Screen [fullscreen]",
		},
		"View/Camera": {
			"Top View [camera-top]",
			"Front View [camera-front]",
			"Side View [camera-side]",
			"Isometric View [camera-iso]",
		},
		"Window": {
			"Minimize <minimize>",
			"Zoom <maximize>",
			"----",
			"Close Window <close-window>",
		},
		"Help": {
			"Documentation [documentation]",
			"Keyboard Shortcuts [shortcuts]",
		},
	}

	if len(got) != len(want) {
		t.Fatalf("expected %d submenus, got %d: %v", len(want), len(got), got)
	}
	for parent, lines := range want {
		have := got[parent]
		if strings.Join(have, "\n") != strings.Join(lines, "\n") {
			t.Fatalf("submenu %q layout mismatch\nwant:\n%s\ngot:\n%s",
				parent, strings.Join(lines, "\n"), strings.Join(have, "\n"))
		}
	}
}
