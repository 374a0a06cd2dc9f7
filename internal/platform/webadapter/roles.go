package webadapter

import "github.com/cup-project/cup/internal/cupnode"

// skipRoles are CDP AX roles that never produce a CUP node — internal
// browser bookkeeping nodes. Their children are still walked and promoted in place.
var skipRoles = map[string]bool{
	"InlineTextBox":        true,
	"LineBreak":            true,
	"IframePresentational": true,
	"none":                 true,
	"Ignored":              true,
	"IgnoredRole":          true,
}

// cdpRoleMap is the explicit CDP-role → CUP-role table for roles whose
// spelling does not match a CUP role directly.
var cdpRoleMap = map[string]cupnode.Role{
	"RootWebArea": cupnode.RoleDocument,
	"WebArea":     cupnode.RoleDocument,

	"GenericContainer": cupnode.RoleGeneric,
	"Iframe":           cupnode.RoleGeneric,
	"Div":              cupnode.RoleGeneric,
	"Span":             cupnode.RoleGeneric,
	"Paragraph":        cupnode.RoleGeneric,
	"Pre":              cupnode.RoleGeneric,
	"Mark":             cupnode.RoleGeneric,
	"Abbr":             cupnode.RoleGeneric,
	"Ruby":             cupnode.RoleGeneric,
	"Time":             cupnode.RoleGeneric,
	"Subscript":        cupnode.RoleGeneric,
	"Superscript":      cupnode.RoleGeneric,
	"LabelText":        cupnode.RoleGeneric,
	"Legend":           cupnode.RoleGeneric,

	"StaticText": cupnode.RoleText,

	"Blockquote":             cupnode.RoleGroup,
	"Figcaption":             cupnode.RoleGroup,
	"DescriptionListDetail":  cupnode.RoleGroup,
	"Details":                cupnode.RoleGroup,
	"DescriptionList":        cupnode.RoleList,
	"DescriptionListTerm":    cupnode.RoleListItem,
	"progressIndicator":      cupnode.RoleProgressBar,
	"spinButton":             cupnode.RoleSpinButton,
	"tabList":                cupnode.RoleTabList,
	"tabPanel":               cupnode.RoleTabPanel,
	"menuItem":               cupnode.RoleMenuItem,
	"menuItemCheckBox":       cupnode.RoleMenuItemCheckbox,
	"menuItemRadio":          cupnode.RoleMenuItemRadio,
	"menuBar":                cupnode.RoleMenuBar,
	"listItem":               cupnode.RoleListItem,
	"treeItem":               cupnode.RoleTreeItem,
	"columnHeader":           cupnode.RoleColumnHeader,
	"rowHeader":              cupnode.RoleRowHeader,
	"comboBoxGrouping":       cupnode.RoleCombobox,
	"comboBoxMenuButton":     cupnode.RoleCombobox,
	"comboBoxSelect":         cupnode.RoleCombobox,
	"alertDialog":            cupnode.RoleAlertDialog,
	"contentInfo":            cupnode.RoleContentInfo,
	"radioButton":            cupnode.RoleRadio,
	"scrollBar":              cupnode.RoleScrollbar,
	"Summary":                cupnode.RoleButton,
	"Meter":                  cupnode.RoleProgressBar,
	"Output":                 cupnode.RoleStatus,
	"Figure":                 cupnode.RoleFigure,
	"Canvas":                 cupnode.RoleImg,
	"Video":                  cupnode.RoleGeneric,
	"Audio":                  cupnode.RoleGeneric,
	"Section":                cupnode.RoleGeneric, // refined to region if named
}

// textInputRoles are CUP roles where text entry is expected.
var textInputRoles = map[cupnode.Role]bool{
	cupnode.RoleTextbox:   true,
	cupnode.RoleSearchBox: true,
	cupnode.RoleCombobox:  true,
}

// clickableRoles are inherently clickable CUP roles.
var clickableRoles = map[cupnode.Role]bool{
	cupnode.RoleButton:           true,
	cupnode.RoleLink:             true,
	cupnode.RoleMenuItem:         true,
	cupnode.RoleMenuItemCheckbox: true,
	cupnode.RoleMenuItemRadio:    true,
	cupnode.RoleOption:           true,
	cupnode.RoleTab:              true,
}

// selectableRoles support the select action.
var selectableRoles = map[cupnode.Role]bool{
	cupnode.RoleOption:   true,
	cupnode.RoleTab:      true,
	cupnode.RoleTreeItem: true,
	cupnode.RoleListItem: true,
	cupnode.RoleRow:      true,
	cupnode.RoleCell:     true,
}

// toggleRoles are toggle-like CUP roles.
var toggleRoles = map[cupnode.Role]bool{
	cupnode.RoleCheckbox:         true,
	cupnode.RoleSwitch:           true,
	cupnode.RoleMenuItemCheckbox: true,
}

// rangeRoles are range-widget CUP roles that carry valueMin/Max/Now.
var rangeRoles = map[cupnode.Role]bool{
	cupnode.RoleSlider:      true,
	cupnode.RoleSpinButton:  true,
	cupnode.RoleProgressBar: true,
	cupnode.RoleScrollbar:   true,
}

// valueCarryingRoles are the roles whose AX "value" string is copied
// onto the CUP node's Value field.
var valueCarryingRoles = map[cupnode.Role]bool{
	cupnode.RoleTextbox:     true,
	cupnode.RoleSearchBox:   true,
	cupnode.RoleCombobox:    true,
	cupnode.RoleSpinButton:  true,
	cupnode.RoleSlider:      true,
	cupnode.RoleProgressBar: true,
	cupnode.RoleDocument:    true,
}

// mapCDPRole maps a CDP AX role string to a CUP role, or ("", false) to
// skip the node entirely.
func mapCDPRole(cdpRole, name string) (cupnode.Role, bool) {
	if skipRoles[cdpRole] {
		return "", false
	}
	if role, ok := cdpRoleMap[cdpRole]; ok {
		if cdpRole == "Section" && name != "" {
			return cupnode.RoleRegion, true
		}
		return role, true
	}
	// Identity check: CDP role lowercased might already be a valid CUP role.
	lower := cupnode.Role(lowerASCII(cdpRole))
	if cupnode.AllRoles[lower] {
		return lower, true
	}
	return cupnode.RoleGeneric, true
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
