package menu

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Kind is the type of a menu node.
type Kind int

const (
	KindAction Kind = iota + 1
	KindSubmenu
	KindSeparator
	KindPredefined
)

func (k Kind) String() string {
	switch k {
	case KindAction:
		return "action"
	case KindSubmenu:
		return "submenu"
	case KindSeparator:
		return "separator"
	case KindPredefined:
		return "predefined"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Predefined is an OS-level menu behavior supplied by the host platform.
type Predefined int

const (
	PredefinedAbout Predefined = iota + 1
	PredefinedQuit
	PredefinedUndo
	PredefinedRedo
	PredefinedCut
	PredefinedCopy
	PredefinedPaste
	PredefinedSelectAll
	PredefinedMinimize
	PredefinedMaximize
	PredefinedCloseWindow
	PredefinedHide
	PredefinedHideOthers
	PredefinedShowAll
	PredefinedServices
)

var predefinedNames = map[Predefined][2]string{
	PredefinedAbout:       {"about", "About"},
	PredefinedQuit:        {"quit", "Quit"},
	PredefinedUndo:        {"undo", "Undo"},
	PredefinedRedo:        {"redo", "Redo"},
	PredefinedCut:         {"cut", "Cut"},
	PredefinedCopy:        {"copy", "Copy"},
	PredefinedPaste:       {"paste", "Paste"},
	PredefinedSelectAll:   {"select-all", "Select All"},
	PredefinedMinimize:    {"minimize", "Minimize"},
	PredefinedMaximize:    {"maximize", "Zoom"},
	PredefinedCloseWindow: {"close-window", "Close Window"},
	PredefinedHide:        {"hide", "Hide"},
	PredefinedHideOthers:  {"hide-others", "Hide Others"},
	PredefinedShowAll:     {"show-all", "Show All"},
	PredefinedServices:    {"services", "Services"},
}

func (p Predefined) String() string {
	if names, ok := predefinedNames[p]; ok {
		return names[0]
	}
	return fmt.Sprintf("predefined(%d)", int(p))
}

// DefaultLabel is the text shown when a predefined node carries no label.
func (p Predefined) DefaultLabel() string {
	if names, ok := predefinedNames[p]; ok {
		return names[1]
	}
	return p.String()
}

func (p Predefined) valid() bool {
	_, ok := predefinedNames[p]
	return ok
}

// Node is one element of the menu tree.
type Node struct {
	Kind       Kind
	ID         ActionID
	Label      string
	Predefined Predefined
	Children   []Node
}

// DisplayLabel returns the label a host should render.
func (n Node) DisplayLabel() string {
	if n.Kind == KindPredefined && n.Label == "" {
		return n.Predefined.DefaultLabel()
	}
	return n.Label
}

func (n Node) clone() Node {
	out := n
	if n.Children != nil {
		out.Children = make([]Node, len(n.Children))
		for i, child := range n.Children {
			out.Children[i] = child.clone()
		}
	}
	return out
}

// Menu is the installed top-level container. It is immutable after Build.
type Menu struct {
	items []Node
}

// Items returns a copy of the top-level submenus.
func (m *Menu) Items() []Node {
	out := make([]Node, len(m.items))
	for i, item := range m.items {
		out[i] = item.clone()
	}
	return out
}

// Walk visits every node depth-first. path holds the labels of the enclosing
// submenus.
func (m *Menu) Walk(fn func(path []string, n Node) error) error {
	var visit func(path []string, nodes []Node) error
	visit = func(path []string, nodes []Node) error {
		for _, n := range nodes {
			if err := fn(path, n); err != nil {
				return err
			}
			if n.Kind == KindSubmenu {
				next := append(append([]string(nil), path...), n.Label)
				if err := visit(next, n.Children); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return visit(nil, m.items)
}

// Actions lists the action identifiers in tree order.
func (m *Menu) Actions() []ActionID {
	var out []ActionID
	_ = m.Walk(func(_ []string, n Node) error {
		if n.Kind == KindAction {
			out = append(out, n.ID)
		}
		return nil
	})
	return out
}

var errStopWalk = errors.New("stop")

// Find returns the action node with the given identifier.
func (m *Menu) Find(id ActionID) (Node, bool) {
	var found Node
	err := m.Walk(func(_ []string, n Node) error {
		if n.Kind == KindAction && n.ID == id {
			found = n.clone()
			return errStopWalk
		}
		return nil
	})
	return found, errors.Is(err, errStopWalk)
}

// Fprint writes an indented outline of the menu.
func Fprint(w io.Writer, m *Menu) error {
	return m.Walk(func(path []string, n Node) error {
		indent := strings.Repeat("  ", len(path))
		var line string
		switch n.Kind {
		case KindSeparator:
			line = "----"
		case KindSubmenu:
			line = n.Label + "/"
		case KindAction:
			line = fmt.Sprintf("%-28s [%s]", n.Label, n.ID)
		case KindPredefined:
			line = fmt.Sprintf("%-28s <%s>", n.DisplayLabel(), n.Predefined)
		}
		_, err := fmt.Fprintf(w, "%s%s\n", indent, line)
		return err
	})
}

// Validate checks the structural invariants of a tree: submenus are
// non-empty, actions carry a unique catalogue identifier and a label, and
// predefined nodes name a known behavior.
func Validate(nodes []Node) error {
	seen := make(map[ActionID]struct{})
	var check func(path string, nodes []Node) error
	check = func(path string, nodes []Node) error {
		for i, n := range nodes {
			where := fmt.Sprintf("%s[%d]", path, i)
			switch n.Kind {
			case KindAction:
				if !n.ID.Known() {
					return fmt.Errorf("%s: %w: %q", where, ErrUnknownAction, n.ID)
				}
				if n.Label == "" {
					return fmt.Errorf("%s: action %q has no label", where, n.ID)
				}
				if _, dup := seen[n.ID]; dup {
					return fmt.Errorf("%s: duplicate action %q", where, n.ID)
				}
				seen[n.ID] = struct{}{}
			case KindSubmenu:
				if n.Label == "" {
					return fmt.Errorf("%s: submenu has no label", where)
				}
				if len(n.Children) == 0 {
					return fmt.Errorf("%s: submenu %q is empty", where, n.Label)
				}
				if err := check(path+"/"+n.Label, n.Children); err != nil {
					return err
				}
			case KindSeparator:
			case KindPredefined:
				if !n.Predefined.valid() {
					return fmt.Errorf("%s: unknown predefined behavior %d", where, int(n.Predefined))
				}
			default:
				return fmt.Errorf("%s: unsupported node kind %s", where, n.Kind)
			}
		}
		return nil
	}
	return check("", nodes)
}
