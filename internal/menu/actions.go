package menu

import (
	"errors"
	"fmt"
)

// ActionID names a user-triggerable menu action. The router delivers it to
// the frontend without interpreting it.
type ActionID string

const (
	ActionPreferences      ActionID = "preferences"
	ActionNew              ActionID = "new"
	ActionOpen             ActionID = "open"
	ActionSave             ActionID = "save"
	ActionSaveAs           ActionID = "save-as"
	ActionExportSTL        ActionID = "export-stl"
	ActionExportSTEP       ActionID = "export-step"
	ActionExportPDF        ActionID = "export-pdf"
	ActionToggleProperties ActionID = "toggle-properties"
	ActionToggleTerminal   ActionID = "toggle-terminal"
	ActionCameraTop        ActionID = "camera-top"
	ActionCameraFront      ActionID = "camera-front"
	ActionCameraSide       ActionID = "camera-side"
	ActionCameraIso        ActionID = "camera-iso"
	ActionToggleGrid       ActionID = "toggle-grid"
	ActionToggleExploded   ActionID = "toggle-exploded"
	ActionToggleClipping   ActionID = "toggle-clipping"
	ActionFullscreen       ActionID = "fullscreen"
	ActionDocumentation    ActionID = "documentation"
	ActionShortcuts        ActionID = "shortcuts"
)

// ErrUnknownAction is returned for identifiers outside the catalogue.
var ErrUnknownAction = errors.New("unknown action")

var catalogue = []ActionID{
	ActionPreferences,
	ActionNew,
	ActionOpen,
	ActionSave,
	ActionSaveAs,
	ActionExportSTL,
	ActionExportSTEP,
	ActionExportPDF,
	ActionToggleProperties,
	ActionToggleTerminal,
	ActionCameraTop,
	ActionCameraFront,
	ActionCameraSide,
	ActionCameraIso,
	ActionToggleGrid,
	ActionToggleExploded,
	ActionToggleClipping,
	ActionFullscreen,
	ActionDocumentation,
	ActionShortcuts,
}

var catalogueSet = func() map[ActionID]struct{} {
	set := make(map[ActionID]struct{}, len(catalogue))
	for _, id := range catalogue {
		set[id] = struct{}{}
	}
	return set
}()

// Catalogue returns every known action identifier.
func Catalogue() []ActionID {
	out := make([]ActionID, len(catalogue))
	copy(out, catalogue)
	return out
}

// Known reports whether id belongs to the catalogue.
func (id ActionID) Known() bool {
	_, ok := catalogueSet[id]
	return ok
}

// ParseAction validates raw against the catalogue.
func ParseAction(raw string) (ActionID, error) {
	id := ActionID(raw)
	if !id.Known() {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, raw)
	}
	return id, nil
}
