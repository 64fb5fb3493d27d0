package menu

import (
	"errors"
	"fmt"
)

// SubmenuBuilder assembles a submenu. The first error is kept and returned by
// Build; later calls are no-ops.
type SubmenuBuilder struct {
	label    string
	children []Node
	err      error
}

// NewSubmenu starts a submenu with the given label.
func NewSubmenu(label string) *SubmenuBuilder {
	b := &SubmenuBuilder{label: label}
	if label == "" {
		b.err = errors.New("submenu label must not be empty")
	}
	return b
}

func (b *SubmenuBuilder) add(n Node) *SubmenuBuilder {
	if b.err == nil {
		b.children = append(b.children, n)
	}
	return b
}

// Text appends a custom action.
func (b *SubmenuBuilder) Text(id ActionID, label string) *SubmenuBuilder {
	if b.err == nil && !id.Known() {
		b.err = fmt.Errorf("submenu %q: %w: %q", b.label, ErrUnknownAction, id)
		return b
	}
	return b.add(Node{Kind: KindAction, ID: id, Label: label})
}

// Separator appends a visual divider.
func (b *SubmenuBuilder) Separator() *SubmenuBuilder {
	return b.add(Node{Kind: KindSeparator})
}

// Predefined appends a platform-supplied item. An empty label uses the
// platform default.
func (b *SubmenuBuilder) Predefined(p Predefined, label string) *SubmenuBuilder {
	return b.add(Node{Kind: KindPredefined, Predefined: p, Label: label})
}

// About appends the about item, labelled after this submenu.
func (b *SubmenuBuilder) About() *SubmenuBuilder {
	return b.Predefined(PredefinedAbout, "About "+b.label)
}

func (b *SubmenuBuilder) Quit() *SubmenuBuilder {
	return b.Predefined(PredefinedQuit, "Quit "+b.label)
}

func (b *SubmenuBuilder) Hide() *SubmenuBuilder {
	return b.Predefined(PredefinedHide, "Hide "+b.label)
}

func (b *SubmenuBuilder) HideOthers() *SubmenuBuilder { return b.Predefined(PredefinedHideOthers, "") }
func (b *SubmenuBuilder) ShowAll() *SubmenuBuilder    { return b.Predefined(PredefinedShowAll, "") }
func (b *SubmenuBuilder) Services() *SubmenuBuilder   { return b.Predefined(PredefinedServices, "") }
func (b *SubmenuBuilder) Undo() *SubmenuBuilder       { return b.Predefined(PredefinedUndo, "") }
func (b *SubmenuBuilder) Redo() *SubmenuBuilder       { return b.Predefined(PredefinedRedo, "") }
func (b *SubmenuBuilder) Cut() *SubmenuBuilder        { return b.Predefined(PredefinedCut, "") }
func (b *SubmenuBuilder) Copy() *SubmenuBuilder       { return b.Predefined(PredefinedCopy, "") }
func (b *SubmenuBuilder) Paste() *SubmenuBuilder      { return b.Predefined(PredefinedPaste, "") }
func (b *SubmenuBuilder) SelectAll() *SubmenuBuilder  { return b.Predefined(PredefinedSelectAll, "") }
func (b *SubmenuBuilder) Minimize() *SubmenuBuilder   { return b.Predefined(PredefinedMinimize, "") }
func (b *SubmenuBuilder) Maximize() *SubmenuBuilder   { return b.Predefined(PredefinedMaximize, "") }
func (b *SubmenuBuilder) CloseWindow() *SubmenuBuilder {
	return b.Predefined(PredefinedCloseWindow, "")
}

// Submenu builds child and nests it.
func (b *SubmenuBuilder) Submenu(child *SubmenuBuilder) *SubmenuBuilder {
	if b.err != nil {
		return b
	}
	n, err := child.Build()
	if err != nil {
		b.err = fmt.Errorf("submenu %q: %w", b.label, err)
		return b
	}
	return b.add(n)
}

// Build returns the submenu node.
func (b *SubmenuBuilder) Build() (Node, error) {
	if b.err != nil {
		return Node{}, b.err
	}
	n := Node{Kind: KindSubmenu, Label: b.label, Children: append([]Node(nil), b.children...)}
	if err := Validate([]Node{n}); err != nil {
		return Node{}, err
	}
	return n, nil
}

// Builder assembles the top-level menu from submenus.
type Builder struct {
	items []*SubmenuBuilder
}

// NewBuilder returns an empty top-level builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Item appends a top-level submenu.
func (b *Builder) Item(sub *SubmenuBuilder) *Builder {
	b.items = append(b.items, sub)
	return b
}

// Build constructs every submenu and validates the whole tree. Any failure
// aborts construction; there is no partial menu.
func (b *Builder) Build() (*Menu, error) {
	if len(b.items) == 0 {
		return nil, errors.New("menu has no submenus")
	}
	items := make([]Node, 0, len(b.items))
	for _, sub := range b.items {
		n, err := sub.Build()
		if err != nil {
			return nil, fmt.Errorf("build submenu: %w", err)
		}
		items = append(items, n)
	}
	if err := Validate(items); err != nil {
		return nil, fmt.Errorf("validate menu: %w", err)
	}
	return &Menu{items: items}, nil
}
