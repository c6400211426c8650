package widgets

import (
	"fmt"
	"strings"

	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/layout"
	"gioui.org/op/clip"
)

type filter struct {
	Required key.Modifiers
	Optional key.Modifiers
	names    []key.Name
}

func (f filter) String() string {
	names := make([]string, len(f.names))
	for i, n := range f.names {
		names[i] = string(n)
	}
	s := strings.Join(names, "/")
	if f.Required != 0 {
		s = f.Required.String() + "+" + s
	}
	return s
}

type Shortcut struct {
	Key  filter
	Help string
	F    func(key.Name, key.Modifiers)
}

type Shortcuts struct {
	receiver     any
	eventFilters []event.Filter
	shortcuts    map[key.Name]Shortcut
	list         []Shortcut
}

func NewShortcut(required, optional key.Modifiers, names ...key.Name) filter {
	return filter{
		Required: required,
		Optional: optional,
		names:    names,
	}
}

// NewShortcuts does not allow multiple identical non-modifying keys
// cause it uses map for matching internally.
func NewShortcuts(receiver any, shortcuts ...Shortcut) (ss Shortcuts) {
	if len(shortcuts) == 0 {
		panic("no shortcut provided")
	}

	ss.receiver = receiver
	ss.shortcuts = make(map[key.Name]Shortcut, len(shortcuts))
	ss.list = shortcuts
	for _, s := range shortcuts {
		for _, keyName := range s.Key.names {
			ss.eventFilters = append(ss.eventFilters,
				key.Filter{
					Required: s.Key.Required,
					Optional: s.Key.Optional,
					Name:     keyName,
				},
			)
			if _, ok := ss.shortcuts[keyName]; ok {
				panic(fmt.Errorf("repeated key: %s", keyName))
			}
			ss.shortcuts[keyName] = s
		}
	}

	return
}

// Help lists every shortcut, one per line.
func (ss *Shortcuts) Help() string {
	var sb strings.Builder
	for _, s := range ss.list {
		fmt.Fprintf(&sb, "%-8s %s\n", s.Key, s.Help)
	}
	return sb.String()
}

// Match runs the shortcuts pressed since the last frame,
// it returns how many ran.
func (ss *Shortcuts) Match(gtx layout.Context) (n int, err error) {
	area := clip.Rect{Max: gtx.Constraints.Max}.Push(gtx.Ops)
	defer area.Pop()
	event.Op(gtx.Ops, ss.receiver)

	for {
		ev, ok := gtx.Event(ss.eventFilters...)
		if !ok {
			break
		}
		switch e := ev.(type) {
		case key.Event:
			if e.State != key.Press {
				continue
			}
			shortcut, ok := ss.shortcuts[e.Name]
			if !ok {
				continue
			}
			if e.Modifiers.Contain(shortcut.Key.Required) {
				shortcut.F(e.Name, e.Modifiers)
				n++
			}

		default:
			err = fmt.Errorf("unknown key event[%T]: %v", ev, ev)
		}
	}

	return
}
