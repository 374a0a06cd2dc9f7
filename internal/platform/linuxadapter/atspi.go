//go:build linux

package linuxadapter

import (
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"
)

const (
	atspiRegistryBus  = "org.a11y.atspi.Registry"
	atspiRootPath     = dbus.ObjectPath("/org/a11y/atspi/accessible/root")
	ifaceAccessible   = "org.a11y.atspi.Accessible"
	ifaceComponent    = "org.a11y.atspi.Component"
	ifaceAction       = "org.a11y.atspi.Action"
	ifaceValue        = "org.a11y.atspi.Value"
	ifaceText         = "org.a11y.atspi.Text"
	ifaceEditableText = "org.a11y.atspi.EditableText"
	ifaceSelection    = "org.a11y.atspi.Selection"
	ifaceProperties   = "org.freedesktop.DBus.Properties"
)

// atspiConn wraps the dedicated accessibility bus connection.
type atspiConn struct {
	conn *dbus.Conn
}

func connectATSPI() (*atspiConn, error) {
	sessionConn, err := dbus.SessionBusPrivate()
	if err != nil {
		return nil, fmt.Errorf("connecting to session bus: %w", err)
	}
	if err := sessionConn.Auth(nil); err != nil {
		sessionConn.Close()
		return nil, fmt.Errorf("authenticating session bus: %w", err)
	}
	if err := sessionConn.Hello(); err != nil {
		sessionConn.Close()
		return nil, fmt.Errorf("session bus hello: %w", err)
	}
	defer sessionConn.Close()

	var addr string
	obj := sessionConn.Object("org.a11y.Bus", dbus.ObjectPath("/org/a11y/bus"))
	if err := obj.Call("org.a11y.Bus.GetAddress", 0).Store(&addr); err != nil {
		return nil, fmt.Errorf("resolving accessibility bus address: %w", err)
	}

	a11yConn, err := dbus.Dial(addr)
	if err != nil {
		return nil, fmt.Errorf("dialing accessibility bus: %w", err)
	}
	if err := a11yConn.Auth(nil); err != nil {
		a11yConn.Close()
		return nil, fmt.Errorf("authenticating accessibility bus: %w", err)
	}
	if err := a11yConn.Hello(); err != nil {
		a11yConn.Close()
		return nil, fmt.Errorf("accessibility bus hello: %w", err)
	}
	return &atspiConn{conn: a11yConn}, nil
}

func (c *atspiConn) close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// accessibleRef identifies one AT-SPI accessible object: a bus name (one
// per running, a11y-registered application) plus an object path within
// that application's tree.
type accessibleRef struct {
	conn *atspiConn
	bus  string
	path dbus.ObjectPath
}

func (c *atspiConn) root() accessibleRef {
	return accessibleRef{conn: c, bus: atspiRegistryBus, path: atspiRootPath}
}

func (c *atspiConn) application(busName string) accessibleRef {
	return accessibleRef{conn: c, bus: busName, path: dbus.ObjectPath("/org/a11y/atspi/accessible/root")}
}

func (a accessibleRef) object() dbus.BusObject {
	return a.conn.conn.Object(a.bus, a.path)
}

// accessiblePair is the (bus name, object path) struct AT-SPI2 uses to
// reference a child or parent accessible over the wire.
type accessiblePair struct {
	BusName string
	Path    dbus.ObjectPath
}

func (a accessibleRef) childCount() int {
	v, err := a.getProperty(ifaceAccessible, "ChildCount")
	if err != nil {
		return 0
	}
	n, _ := v.Value().(int32)
	return int(n)
}

func (a accessibleRef) childAt(index int) (accessibleRef, bool) {
	var ref accessiblePair
	call := a.object().Call(ifaceAccessible+".GetChildAtIndex", 0, int32(index))
	if call.Err != nil {
		return accessibleRef{}, false
	}
	if err := call.Store(&ref); err != nil {
		return accessibleRef{}, false
	}
	return accessibleRef{conn: a.conn, bus: ref.BusName, path: ref.Path}, true
}

func (a accessibleRef) children() []accessibleRef {
	n := a.childCount()
	out := make([]accessibleRef, 0, n)
	for i := 0; i < n; i++ {
		if ref, ok := a.childAt(i); ok {
			out = append(out, ref)
		}
	}
	return out
}

func (a accessibleRef) getProperty(iface, name string) (dbus.Variant, error) {
	var v dbus.Variant
	err := a.object().Call(ifaceProperties+".Get", 0, iface, name).Store(&v)
	return v, err
}

func (a accessibleRef) getAllProperties(iface string) map[string]dbus.Variant {
	var props map[string]dbus.Variant
	if err := a.object().Call(ifaceProperties+".GetAll", 0, iface).Store(&props); err != nil {
		return map[string]dbus.Variant{}
	}
	return props
}

func (a accessibleRef) name() string {
	v, err := a.getProperty(ifaceAccessible, "Name")
	if err != nil {
		return ""
	}
	s, _ := v.Value().(string)
	return s
}

func (a accessibleRef) description() string {
	v, err := a.getProperty(ifaceAccessible, "Description")
	if err != nil {
		return ""
	}
	s, _ := v.Value().(string)
	return s
}

// roleName returns AT-SPI's human readable role string.
func (a accessibleRef) roleName() string {
	var name string
	if err := a.object().Call(ifaceAccessible+".GetRoleName", 0).Store(&name); err != nil {
		return ""
	}
	return name
}

// states returns the AT-SPI state names currently set, decoded from the
// two-uint32 StateSet bitfield GetState returns.
func (a accessibleRef) states() map[string]bool {
	var bits []uint32
	if err := a.object().Call(ifaceAccessible+".GetState", 0).Store(&bits); err != nil {
		return nil
	}
	out := map[string]bool{}
	for i := 0; i < len(bits)*32; i++ {
		word, bit := i/32, uint(i%32)
		if word >= len(bits) {
			break
		}
		if bits[word]&(1<<bit) != 0 {
			if name, ok := atspiStateNames[i]; ok {
				out[name] = true
			}
		}
	}
	return out
}

// extents returns the accessible's screen-space bounding box via the
// Component interface.
func (a accessibleRef) extents() (x, y, w, h int, ok bool) {
	var out struct{ X, Y, W, H int32 }
	call := a.object().Call(ifaceComponent+".GetExtents", 0, uint32(1))
	if call.Err != nil {
		return 0, 0, 0, 0, false
	}
	if err := call.Store(&out.X, &out.Y, &out.W, &out.H); err != nil {
		return 0, 0, 0, 0, false
	}
	return int(out.X), int(out.Y), int(out.W), int(out.H), true
}

func (a accessibleRef) nActions() int {
	var n int32
	if err := a.object().Call(ifaceAction+".GetNActions", 0).Store(&n); err != nil {
		return 0
	}
	return int(n)
}

// actionNames returns every action name exposed through the Action
// interface.
func (a accessibleRef) actionNames() []string {
	n := a.nActions()
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		var name string
		if err := a.object().Call(ifaceAction+".GetName", 0, int32(i)).Store(&name); err == nil {
			out = append(out, strings.ToLower(name))
		}
	}
	return out
}

func (a accessibleRef) doActionNamed(name string) bool {
	names := a.actionNames()
	for i, n := range names {
		if n == strings.ToLower(name) {
			var ok bool
			if err := a.object().Call(ifaceAction+".DoAction", 0, int32(i)).Store(&ok); err == nil {
				return ok
			}
			return false
		}
	}
	return false
}

// valueInfo reads the Value interface's CurrentValue/MinimumValue/
// MaximumValue properties in one GetAll round trip.
func (a accessibleRef) valueInfo() (cur, min, max float64, ok bool) {
	props := a.getAllProperties(ifaceValue)
	if len(props) == 0 {
		return 0, 0, 0, false
	}
	get := func(key string) (float64, bool) {
		v, found := props[key]
		if !found {
			return 0, false
		}
		switch n := v.Value().(type) {
		case float64:
			return n, true
		case int32:
			return float64(n), true
		default:
			return 0, false
		}
	}
	cur, curOK := get("CurrentValue")
	min, _ = get("MinimumValue")
	max, _ = get("MaximumValue")
	return cur, min, max, curOK
}

func (a accessibleRef) setCurrentValue(v float64) bool {
	err := a.object().Call(ifaceProperties+".Set", 0, ifaceValue, "CurrentValue", dbus.MakeVariant(v)).Err
	return err == nil
}

// text reads the full character range through the Text interface.
func (a accessibleRef) text() string {
	count := 0
	if v, err := a.getProperty(ifaceText, "CharacterCount"); err == nil {
		if n, ok := v.Value().(int32); ok {
			count = int(n)
		}
	}
	if count == 0 {
		return ""
	}
	var s string
	if err := a.object().Call(ifaceText+".GetText", 0, int32(0), int32(count)).Store(&s); err != nil {
		return ""
	}
	return s
}

// setTextContents replaces the element's full text through the
// EditableText interface, the native path for type/setvalue on entries.
func (a accessibleRef) setTextContents(s string) bool {
	var ok bool
	if err := a.object().Call(ifaceEditableText+".SetTextContents", 0, s).Store(&ok); err != nil {
		return false
	}
	return ok
}

// parent resolves the Accessible.Parent property into another ref.
func (a accessibleRef) parent() (accessibleRef, bool) {
	v, err := a.getProperty(ifaceAccessible, "Parent")
	if err != nil {
		return accessibleRef{}, false
	}
	var ref accessiblePair
	if err := dbus.Store([]any{v.Value()}, &ref); err != nil {
		return accessibleRef{}, false
	}
	if ref.BusName == "" || ref.Path == "" || ref.Path == dbus.ObjectPath("/org/a11y/atspi/null") {
		return accessibleRef{}, false
	}
	return accessibleRef{conn: a.conn, bus: ref.BusName, path: ref.Path}, true
}

func (a accessibleRef) indexInParent() int {
	var idx int32
	if err := a.object().Call(ifaceAccessible+".GetIndexInParent", 0).Store(&idx); err != nil {
		return -1
	}
	return int(idx)
}

// selectChild marks the i-th child selected through the parent's
// Selection interface.
func (a accessibleRef) selectChild(i int) bool {
	var ok bool
	if err := a.object().Call(ifaceSelection+".SelectChild", 0, int32(i)).Store(&ok); err != nil {
		return false
	}
	return ok
}

// minimumIncrement reads the Value interface's step size, 0 when absent.
func (a accessibleRef) minimumIncrement() float64 {
	v, err := a.getProperty(ifaceValue, "MinimumIncrement")
	if err != nil {
		return 0
	}
	switch n := v.Value().(type) {
	case float64:
		return n
	case int32:
		return float64(n)
	}
	return 0
}

func (a accessibleRef) grabFocus() bool {
	var ok bool
	if err := a.object().Call(ifaceComponent+".GrabFocus", 0).Store(&ok); err != nil {
		return false
	}
	return ok
}

func (a accessibleRef) setFocused() bool {
	return a.grabFocus()
}
