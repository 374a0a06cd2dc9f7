//go:build linux

package linuxadapter

import "github.com/cup-project/cup/internal/cupnode"

// atspiStateNames decodes AtspiStateType bit positions (atspi-constants.h)
// into the lowercase names the state mapping keys off of.
var atspiStateNames = map[int]string{
	1:  "active",
	3:  "busy",
	4:  "checked",
	5:  "collapsed",
	7:  "editable",
	8:  "enabled",
	9:  "expandable",
	10: "expanded",
	12: "focused",
	16: "modal",
	18: "multiselectable",
	20: "pressed",
	22: "selectable",
	23: "selected",
	25: "showing",
	32: "indeterminate",
	33: "required",
}

// cupRoles maps AT-SPI's GetRoleName() strings to CUP roles.
var cupRoles = map[string]cupnode.Role{
	"alert":             cupnode.RoleAlert,
	"dialog":            cupnode.RoleDialog,
	"application":       cupnode.RoleApplication,
	"frame":             cupnode.RoleWindow,
	"window":            cupnode.RoleWindow,
	"panel":             cupnode.RoleGroup,
	"filler":            cupnode.RoleGeneric,
	"push button":       cupnode.RoleButton,
	"toggle button":     cupnode.RoleButton,
	"check box":         cupnode.RoleCheckbox,
	"radio button":      cupnode.RoleRadio,
	"radio group":       cupnode.RoleGroup,
	"combo box":         cupnode.RoleCombobox,
	"spin button":       cupnode.RoleSpinButton,
	"slider":            cupnode.RoleSlider,
	"progress bar":      cupnode.RoleProgressBar,
	"text":              cupnode.RoleText,
	"entry":             cupnode.RoleTextbox,
	"password text":     cupnode.RoleTextbox,
	"label":             cupnode.RoleText,
	"heading":           cupnode.RoleHeading,
	"link":              cupnode.RoleLink,
	"image":             cupnode.RoleImg,
	"icon":              cupnode.RoleImg,
	"list":              cupnode.RoleList,
	"list item":         cupnode.RoleListItem,
	"list box":          cupnode.RoleList,
	"tree":              cupnode.RoleTree,
	"tree item":         cupnode.RoleTreeItem,
	"tree table":        cupnode.RoleTree,
	"table":             cupnode.RoleTable,
	"table cell":        cupnode.RoleCell,
	"table row":         cupnode.RoleRow,
	"table column header": cupnode.RoleColumnHeader,
	"column header":     cupnode.RoleColumnHeader,
	"row header":         cupnode.RoleRowHeader,
	"scroll bar":        cupnode.RoleScrollbar,
	"scroll pane":       cupnode.RoleRegion,
	"separator":         cupnode.RoleSeparator,
	"tool bar":          cupnode.RoleToolbar,
	"tool tip":          cupnode.RoleTooltip,
	"menu":              cupnode.RoleMenu,
	"menu bar":          cupnode.RoleMenuBar,
	"menu item":         cupnode.RoleMenuItem,
	"check menu item":   cupnode.RoleMenuItemCheckbox,
	"radio menu item":   cupnode.RoleMenuItemRadio,
	"page tab":          cupnode.RoleTab,
	"page tab list":     cupnode.RoleTabList,
	"status bar":        cupnode.RoleStatus,
	"document frame":    cupnode.RoleDocument,
	"document web":      cupnode.RoleDocument,
	"section":           cupnode.RoleGroup,
	"paragraph":         cupnode.RoleParagraph,
	"form":              cupnode.RoleForm,
	"notification":      cupnode.RoleAlert,
	"desktop frame":      cupnode.RoleWindow,
	"unknown":           cupnode.RoleGeneric,
	"redundant object":  cupnode.RoleGeneric,
}

// textInputRoles marks roles that accept typed text.
var textInputRoles = map[cupnode.Role]bool{
	cupnode.RoleTextbox:   true,
	cupnode.RoleSearchBox: true,
	cupnode.RoleCombobox:  true,
}

// toggleRoles marks roles whose "checked"/"pressed" AT-SPI state maps to
// CUP's toggle action/state pair.
var toggleRoles = map[string]bool{
	"check box":       true,
	"toggle button":   true,
	"radio button":    true,
	"check menu item": true,
	"radio menu item": true,
}

// resolveRole refines the raw AT-SPI role name: a panel with grouping
// semantics becomes a region when it carries a name, and a generic
// element that exposes a click action is promoted to a button.
func resolveRole(roleName string, hasName bool, actionNames []string) cupnode.Role {
	if r, ok := cupRoles[roleName]; ok {
		if r == cupnode.RoleGroup && hasName {
			return cupnode.RoleRegion
		}
		return r
	}
	for _, a := range actionNames {
		if a == "click" || a == "press" {
			return cupnode.RoleButton
		}
	}
	return cupnode.RoleGeneric
}
