package menu

// DefaultAppName labels the application submenu.
const DefaultAppName = "BuildPCBs AI"

// BuildAppMenu declares the application menu: Application, File, Edit, View,
// Window and Help, in that order.
func BuildAppMenu(appName string) (*Menu, error) {
	if appName == "" {
		appName = DefaultAppName
	}

	app := NewSubmenu(appName).
		About().
		Separator().
		Text(ActionPreferences, "Preferences...").
		Separator().
		Services().
		Separator().
		Hide().
		HideOthers().
		ShowAll().
		Separator().
		Quit()

	file := NewSubmenu("File").
		Text(ActionNew, "New Project").
		Text(ActionOpen, "Open...").
		Separator().
		Text(ActionSave, "Save").
		Text(ActionSaveAs, "Save As...").
		Separator().
		Submenu(NewSubmenu("Export").
			Text(ActionExportSTL, "Export as STL...").
			Text(ActionExportSTEP, "Export as STEP...").
			Text(ActionExportPDF, "Export as PDF...")).
		Separator().
		CloseWindow()

	edit := NewSubmenu("Edit").
		Undo().
		Redo().
		Separator().
		Cut().
		Copy().
		Paste().
		SelectAll()

	view := NewSubmenu("View").
		Text(ActionToggleProperties, "Toggle Properties Panel").
		Text(ActionToggleTerminal, "Toggle Terminal").
		Separator().
		Submenu(NewSubmenu("Camera").
			Text(ActionCameraTop, "Top View").
			Text(ActionCameraFront, "Front View").
			Text(ActionCameraSide, "Side View").
			Text(ActionCameraIso, "Isometric View")).
		Separator().
		Text(ActionToggleGrid, "Toggle Grid").
		Text(ActionToggleExploded, "Toggle Exploded View").
		Text(ActionToggleClipping, "Toggle Clipping Plane").
		Separator().
		Text(ActionFullscreen, "Enter Full Screen")

	window := NewSubmenu("Window").
		Minimize().
		Maximize().
		Separator().
		CloseWindow()

	help := NewSubmenu("Help").
		Text(ActionDocumentation, "Documentation").
		Text(ActionShortcuts, "Keyboard Shortcuts")

	return NewBuilder().
		Item(app).
		Item(file).
		Item(edit).
		Item(view).
		Item(window).
		Item(help).
		Build()
}
