//go:build darwin

package macosadapter

import "github.com/cup-project/cup/internal/cupnode"

// cupRoles maps an AXUIElement's AXRole string to a CUP role.
var cupRoles = map[string]cupnode.Role{
	"AXApplication":      cupnode.RoleApplication,
	"AXWindow":           cupnode.RoleWindow,
	"AXSheet":            cupnode.RoleDialog,
	"AXDrawer":           cupnode.RoleDialog,
	"AXButton":           cupnode.RoleButton,
	"AXPopUpButton":      cupnode.RoleCombobox,
	"AXMenuButton":       cupnode.RoleButton,
	"AXCheckBox":         cupnode.RoleCheckbox,
	"AXRadioButton":      cupnode.RoleRadio,
	"AXRadioGroup":       cupnode.RoleGroup,
	"AXSlider":           cupnode.RoleSlider,
	"AXIncrementor":      cupnode.RoleSpinButton,
	"AXProgressIndicator": cupnode.RoleProgressBar,
	"AXBusyIndicator":    cupnode.RoleProgressBar,
	"AXTextField":        cupnode.RoleTextbox,
	"AXTextArea":         cupnode.RoleTextbox,
	"AXSearchField":      cupnode.RoleSearchBox,
	"AXComboBox":         cupnode.RoleCombobox,
	"AXStaticText":       cupnode.RoleText,
	"AXHeading":          cupnode.RoleHeading,
	"AXLink":             cupnode.RoleLink,
	"AXImage":            cupnode.RoleImg,
	"AXList":             cupnode.RoleList,
	"AXOutline":          cupnode.RoleTree,
	"AXOutlineRow":       cupnode.RoleTreeItem,
	"AXRow":              cupnode.RoleRow,
	"AXColumn":           cupnode.RoleGroup,
	"AXTable":            cupnode.RoleTable,
	"AXCell":             cupnode.RoleCell,
	"AXColumnHeader":     cupnode.RoleColumnHeader,
	"AXGrid":             cupnode.RoleGrid,
	"AXGroup":            cupnode.RoleGroup,
	"AXScrollArea":       cupnode.RoleRegion,
	"AXScrollBar":        cupnode.RoleScrollbar,
	"AXSplitGroup":       cupnode.RoleGroup,
	"AXSplitter":         cupnode.RoleSeparator,
	"AXToolbar":          cupnode.RoleToolbar,
	"AXTabGroup":         cupnode.RoleTabList,
	"AXMenu":             cupnode.RoleMenu,
	"AXMenuBar":          cupnode.RoleMenuBar,
	"AXMenuItem":         cupnode.RoleMenuItem,
	"AXMenuBarItem":      cupnode.RoleMenuItem,
	"AXTabButton":        cupnode.RoleTab,
	"AXDisclosureTriangle": cupnode.RoleButton,
	"AXValueIndicator":   cupnode.RoleSlider,
	"AXUnknown":          cupnode.RoleGeneric,
	"AXGenericElement":   cupnode.RoleGeneric,
	"AXLayoutArea":       cupnode.RoleGeneric,
	"AXHelpTag":          cupnode.RoleTooltip,
	"AXColorWell":        cupnode.RoleButton,
	"AXDateField":        cupnode.RoleTextbox,
	"AXRelevanceIndicator": cupnode.RoleStatus,
	"AXLevelIndicator":   cupnode.RoleStatus,
	"AXRuler":            cupnode.RoleSeparator,
	"AXWebArea":          cupnode.RoleDocument,
}

// cupSubroleOverrides refines a small set of AXSubrole values that carry
// more precise role information than their AXRole alone.
var cupSubroleOverrides = map[string]cupnode.Role{
	"AXSearchField":     cupnode.RoleSearchBox,
	"AXSwitch":          cupnode.RoleSwitch,
	"AXCloseButton":     cupnode.RoleButton,
	"AXToolbarButton":   cupnode.RoleButton,
	"AXSecureTextField": cupnode.RoleTextbox,
	"AXContentList":     cupnode.RoleList,
	"AXDefinitionList":  cupnode.RoleList,
	"AXDescriptionList": cupnode.RoleList,
}

// textInputRoles marks roles that accept typed text, mirroring the other
// platform adapters' textInputRoles sets.
var textInputRoles = map[cupnode.Role]bool{
	cupnode.RoleTextbox:   true,
	cupnode.RoleSearchBox: true,
	cupnode.RoleCombobox:  true,
}

// toggleAXRoles are roles whose AXValue of 0/1 means unchecked/checked
// rather than a plain string value.
var toggleAXRoles = map[string]bool{
	"AXCheckBox":    true,
	"AXRadioButton": true,
	"AXMenuItem":    true,
}

// expandableAXRoles are roles that expose AXExpanded.
var expandableAXRoles = map[string]bool{
	"AXDisclosureTriangle": true,
	"AXOutlineRow":         true,
	"AXRow":                true,
}

// skipActionsAXRoles are container and decorative roles whose
// AXUIElementCopyActionNames output is noise; their reported actions are
// not mapped into the CUP action list.
var skipActionsAXRoles = map[string]bool{
	"AXGroup":      true,
	"AXScrollArea": true,
	"AXSplitGroup": true,
	"AXToolbar":    true,
	"AXWindow":     true,
	"AXApplication": true,
}

// resolveRole combines AXRole/AXSubrole: a subrole override wins when
// present, otherwise the role table, falling back to generic for
// anything unrecognised.
func resolveRole(role, subrole string) cupnode.Role {
	if subrole != "" {
		if r, ok := cupSubroleOverrides[subrole]; ok {
			return r
		}
	}
	if r, ok := cupRoles[role]; ok {
		return r
	}
	return cupnode.RoleGeneric
}
