package search

import (
	"strings"

	"github.com/cup-project/cup/internal/cupnode"
)

// RoleSynonyms maps a natural-language or exact-role query string to the
// set of CUP roles it should match. Identity entries (every
// CUP role mapping to itself) are added by init.
var RoleSynonyms = map[string]map[cupnode.Role]bool{
	"input":        roleSet(cupnode.RoleTextbox, cupnode.RoleCombobox, cupnode.RoleSearchBox, cupnode.RoleSpinButton, cupnode.RoleSlider),
	"text input":   roleSet(cupnode.RoleTextbox, cupnode.RoleSearchBox, cupnode.RoleCombobox),
	"text field":   roleSet(cupnode.RoleTextbox, cupnode.RoleSearchBox, cupnode.RoleCombobox),
	"text box":     roleSet(cupnode.RoleTextbox, cupnode.RoleSearchBox),
	"textarea":     roleSet(cupnode.RoleTextbox, cupnode.RoleDocument),
	"edit":         roleSet(cupnode.RoleTextbox, cupnode.RoleSearchBox, cupnode.RoleCombobox, cupnode.RoleDocument),
	"editor":       roleSet(cupnode.RoleTextbox, cupnode.RoleDocument),
	"search":       roleSet(cupnode.RoleSearch, cupnode.RoleSearchBox, cupnode.RoleTextbox, cupnode.RoleCombobox),
	"search bar":   roleSet(cupnode.RoleSearch, cupnode.RoleSearchBox, cupnode.RoleTextbox, cupnode.RoleCombobox),
	"search box":   roleSet(cupnode.RoleSearch, cupnode.RoleSearchBox, cupnode.RoleTextbox, cupnode.RoleCombobox),
	"search field": roleSet(cupnode.RoleSearch, cupnode.RoleSearchBox, cupnode.RoleTextbox, cupnode.RoleCombobox),
	"search input": roleSet(cupnode.RoleSearch, cupnode.RoleSearchBox, cupnode.RoleTextbox, cupnode.RoleCombobox),
	"btn":          roleSet(cupnode.RoleButton),
	"clickable":    roleSet(cupnode.RoleButton, cupnode.RoleLink, cupnode.RoleMenuItem, cupnode.RoleTab, cupnode.RoleTreeItem, cupnode.RoleListItem),
	"hyperlink":    roleSet(cupnode.RoleLink),
	"anchor":       roleSet(cupnode.RoleLink),
	"dropdown":     roleSet(cupnode.RoleCombobox, cupnode.RoleMenu, cupnode.RoleList),
	"select":       roleSet(cupnode.RoleCombobox, cupnode.RoleList, cupnode.RoleListItem),
	"combo":        roleSet(cupnode.RoleCombobox),
	"combo box":    roleSet(cupnode.RoleCombobox),
	"check":        roleSet(cupnode.RoleCheckbox, cupnode.RoleSwitch, cupnode.RoleMenuItemCheckbox),
	"toggle":       roleSet(cupnode.RoleSwitch, cupnode.RoleCheckbox),
	"radio button": roleSet(cupnode.RoleRadio, cupnode.RoleMenuItemRadio),
	"option":       roleSet(cupnode.RoleOption, cupnode.RoleRadio, cupnode.RoleListItem, cupnode.RoleMenuItemRadio),
	"range":        roleSet(cupnode.RoleSlider, cupnode.RoleProgressBar, cupnode.RoleSpinButton),
	"progress":     roleSet(cupnode.RoleProgressBar),
	"progress bar": roleSet(cupnode.RoleProgressBar),
	"spinner":      roleSet(cupnode.RoleSpinButton),
	"tab bar":      roleSet(cupnode.RoleTabList),
	"tab list":     roleSet(cupnode.RoleTabList),
	"tabs":         roleSet(cupnode.RoleTabList, cupnode.RoleTab),
	"tab panel":    roleSet(cupnode.RoleTabPanel),
	"menu bar":     roleSet(cupnode.RoleMenuBar),
	"menu item":    roleSet(cupnode.RoleMenuItem, cupnode.RoleMenuItemCheckbox, cupnode.RoleMenuItemRadio),
	"modal":        roleSet(cupnode.RoleDialog, cupnode.RoleAlertDialog),
	"popup":        roleSet(cupnode.RoleDialog, cupnode.RoleAlertDialog, cupnode.RoleTooltip, cupnode.RoleMenu),
	"notification": roleSet(cupnode.RoleAlert, cupnode.RoleStatus, cupnode.RoleLog),
	"message":      roleSet(cupnode.RoleAlert, cupnode.RoleStatus, cupnode.RoleLog),
	"title":        roleSet(cupnode.RoleHeading, cupnode.RoleTitlebar),
	"header":       roleSet(cupnode.RoleHeading, cupnode.RoleBanner, cupnode.RoleColumnHeader, cupnode.RoleRowHeader),
	"image":        roleSet(cupnode.RoleImg),
	"picture":      roleSet(cupnode.RoleImg),
	"icon":         roleSet(cupnode.RoleImg, cupnode.RoleButton),
	"tree item":    roleSet(cupnode.RoleTreeItem),
	"list item":    roleSet(cupnode.RoleListItem),
	"table":        roleSet(cupnode.RoleTable, cupnode.RoleGrid),
	"nav":          roleSet(cupnode.RoleNavigation),
	"sidebar":      roleSet(cupnode.RoleComplementary, cupnode.RoleNavigation),
	"panel":        roleSet(cupnode.RoleRegion, cupnode.RoleGroup, cupnode.RoleTabPanel),
	"section":      roleSet(cupnode.RoleRegion, cupnode.RoleGroup, cupnode.RoleMain),
	"container":    roleSet(cupnode.RoleRegion, cupnode.RoleGroup, cupnode.RoleGeneric),
	"divider":      roleSet(cupnode.RoleSeparator),
	"scroll":       roleSet(cupnode.RoleScrollbar),
	"status bar":   roleSet(cupnode.RoleStatus),
	"tool bar":     roleSet(cupnode.RoleToolbar),
}

func roleSet(roles ...cupnode.Role) map[cupnode.Role]bool {
	m := make(map[cupnode.Role]bool, len(roles))
	for _, r := range roles {
		m[r] = true
	}
	return m
}

func init() {
	for r := range cupnode.AllRoles {
		key := string(r)
		if _, exists := RoleSynonyms[key]; !exists {
			RoleSynonyms[key] = roleSet(r)
		}
	}
}

// ResolveRoles resolves a role query to the set of CUP roles it should
// match, or nil if the query should not constrain roles at all.
func ResolveRoles(roleQuery string) map[cupnode.Role]bool {
	q := strings.ToLower(strings.TrimSpace(roleQuery))

	if set, ok := RoleSynonyms[q]; ok {
		return set
	}

	for _, tok := range Tokenize(q) {
		if set, ok := RoleSynonyms[tok]; ok {
			return set
		}
	}

	if len(q) >= 3 {
		matches := make(map[cupnode.Role]bool)
		for r := range cupnode.AllRoles {
			if strings.Contains(string(r), q) {
				matches[r] = true
			}
		}
		if len(matches) > 0 {
			return matches
		}
	}

	return nil
}
