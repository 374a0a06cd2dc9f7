//go:build windows

package windowsadapter

import "github.com/cup-project/cup/internal/cupnode"

// UIA ControlType ids (winuser.h / UIAutomationClient.h), named for the
// handful this adapter's role mapping actually branches on.
const (
	ctButton    = 50000
	ctCalendar  = 50001
	ctCheckBox  = 50002
	ctComboBox  = 50003
	ctEdit      = 50004
	ctHyperlink = 50005
	ctImage     = 50006
	ctListItem  = 50007
	ctList      = 50008
	ctMenu      = 50009
	ctMenuBar   = 50010
	ctMenuItem  = 50011
	ctProgress  = 50012
	ctRadio     = 50013
	ctScrollBar = 50014
	ctSlider    = 50015
	ctSpinner   = 50016
	ctStatusBar = 50017
	ctTab       = 50018
	ctTabItem   = 50019
	ctText      = 50020
	ctToolBar   = 50021
	ctToolTip   = 50022
	ctTree      = 50023
	ctTreeItem  = 50024
	ctCustom    = 50025
	ctGroup     = 50026
	ctThumb     = 50027
	ctDataGrid  = 50028
	ctDataItem  = 50029
	ctDocument  = 50030
	ctSplitBtn  = 50031
	ctWindow    = 50032
	ctPane      = 50033
	ctHeader    = 50034
	ctHeaderItm = 50035
	ctTable     = 50036
	ctTitleBar  = 50037
	ctSeparator = 50038
	ctSemZoom   = 50039
	ctAppBar    = 50040
)

// controlTypeNames drives the capture stats keyed by UIA display name —
// the same keys the sparse-tree heuristic checks ("ToolBar"/"TabItem"
// present, "Document" absent).
var controlTypeNames = map[int]string{
	ctButton: "Button", ctCalendar: "Calendar", ctCheckBox: "CheckBox",
	ctComboBox: "ComboBox", ctEdit: "Edit", ctHyperlink: "Hyperlink",
	ctImage: "Image", ctListItem: "ListItem", ctList: "List", ctMenu: "Menu",
	ctMenuBar: "MenuBar", ctMenuItem: "MenuItem", ctProgress: "ProgressBar",
	ctRadio: "RadioButton", ctScrollBar: "ScrollBar", ctSlider: "Slider",
	ctSpinner: "Spinner", ctStatusBar: "StatusBar", ctTab: "Tab",
	ctTabItem: "TabItem", ctText: "Text", ctToolBar: "ToolBar",
	ctToolTip: "ToolTip", ctTree: "Tree", ctTreeItem: "TreeItem",
	ctCustom: "Custom", ctGroup: "Group", ctThumb: "Thumb",
	ctDataGrid: "DataGrid", ctDataItem: "DataItem", ctDocument: "Document",
	ctSplitBtn: "SplitButton", ctWindow: "Window", ctPane: "Pane",
	ctHeader: "Header", ctHeaderItm: "HeaderItem", ctTable: "Table",
	ctTitleBar: "TitleBar", ctSeparator: "Separator", ctSemZoom: "SemanticZoom",
	ctAppBar: "AppBar",
}

// cupRoles maps a UIA ControlType id to its default CUP role.
var cupRoles = map[int]cupnode.Role{
	ctButton:    cupnode.RoleButton,
	ctCalendar:  cupnode.RoleGrid,
	ctCheckBox:  cupnode.RoleCheckbox,
	ctComboBox:  cupnode.RoleCombobox,
	ctEdit:      cupnode.RoleTextbox,
	ctHyperlink: cupnode.RoleLink,
	ctImage:     cupnode.RoleImg,
	ctListItem:  cupnode.RoleListItem,
	ctList:      cupnode.RoleList,
	ctMenu:      cupnode.RoleMenu,
	ctMenuBar:   cupnode.RoleMenuBar,
	ctMenuItem:  cupnode.RoleMenuItem,
	ctProgress:  cupnode.RoleProgressBar,
	ctRadio:     cupnode.RoleRadio,
	ctScrollBar: cupnode.RoleScrollbar,
	ctSlider:    cupnode.RoleSlider,
	ctSpinner:   cupnode.RoleSpinButton,
	ctStatusBar: cupnode.RoleStatus,
	ctTab:       cupnode.RoleTabList,
	ctTabItem:   cupnode.RoleTab,
	ctText:      cupnode.RoleText,
	ctToolBar:   cupnode.RoleToolbar,
	ctToolTip:   cupnode.RoleTooltip,
	ctTree:      cupnode.RoleTree,
	ctTreeItem:  cupnode.RoleTreeItem,
	ctCustom:    cupnode.RoleGeneric,
	ctGroup:     cupnode.RoleGroup,
	ctThumb:     cupnode.RoleGeneric,
	ctDataGrid:  cupnode.RoleGrid,
	ctDataItem:  cupnode.RoleRow,
	ctDocument:  cupnode.RoleDocument,
	ctSplitBtn:  cupnode.RoleButton,
	ctWindow:    cupnode.RoleWindow,
	ctPane:      cupnode.RoleGeneric,
	ctHeader:    cupnode.RoleGroup,
	ctHeaderItm: cupnode.RoleColumnHeader,
	ctTable:     cupnode.RoleTable,
	ctTitleBar:  cupnode.RoleTitlebar,
	ctSeparator: cupnode.RoleSeparator,
	ctSemZoom:   cupnode.RoleGeneric,
	ctAppBar:    cupnode.RoleToolbar,
}

// textInputRoles accept "type" in addition to "setvalue" when the Value
// pattern is writable.
var textInputRoles = map[cupnode.Role]bool{
	cupnode.RoleTextbox:   true,
	cupnode.RoleSearchBox: true,
	cupnode.RoleCombobox:  true,
	cupnode.RoleDocument:  true,
}

// ariaRoleMap refines an ambiguous ControlType role using the ARIA role
// string UIA exposes for web content hosted inside it (Edge WebView/older
// Electron shells).
var ariaRoleMap = map[string]cupnode.Role{
	"heading":      cupnode.RoleHeading,
	"dialog":       cupnode.RoleDialog,
	"alert":        cupnode.RoleAlert,
	"alertdialog":  cupnode.RoleAlertDialog,
	"searchbox":    cupnode.RoleSearchBox,
	"navigation":   cupnode.RoleNavigation,
	"main":         cupnode.RoleMain,
	"search":       cupnode.RoleSearch,
	"banner":       cupnode.RoleBanner,
	"contentinfo":  cupnode.RoleContentInfo,
	"complementary": cupnode.RoleComplementary,
	"region":       cupnode.RoleRegion,
	"form":         cupnode.RoleForm,
	"cell":         cupnode.RoleCell,
	"gridcell":     cupnode.RoleCell,
	"switch":       cupnode.RoleSwitch,
	"tab":          cupnode.RoleTab,
	"tabpanel":     cupnode.RoleTabPanel,
	"log":          cupnode.RoleLog,
	"status":       cupnode.RoleStatus,
	"timer":        cupnode.RoleTimer,
	"marquee":      cupnode.RoleMarquee,
}

var ambiguousRoles = map[cupnode.Role]bool{
	cupnode.RoleGeneric: true, cupnode.RoleGroup: true,
	cupnode.RoleText: true, cupnode.RoleRegion: true,
}

// resolveRole applies the role-refinement order: base ControlType
// mapping, Pane-with-name promotion to region, ARIA override on
// ambiguous roles, then MenuItem subrole refinement.
func resolveRole(controlType int, name, ariaRole string, hasToggle, hasSelItem bool) cupnode.Role {
	role, ok := cupRoles[controlType]
	if !ok {
		role = cupnode.RoleGeneric
	}
	if controlType == ctPane && name != "" {
		role = cupnode.RoleRegion
	}
	if ariaRole != "" && ambiguousRoles[role] {
		if mapped, ok := ariaRoleMap[ariaRole]; ok {
			role = mapped
		}
	}
	if controlType == ctMenuItem {
		if hasToggle {
			role = cupnode.RoleMenuItemCheckbox
		} else if hasSelItem {
			role = cupnode.RoleMenuItemRadio
		}
	}
	return role
}

// sparseTreeThreshold: a capture with fewer live nodes than this, or with
// browser-chrome roles (ToolBar/TabItem) but no Document node, is treated
// as uninitialised and retried once after nudging the window foreground.
const sparseTreeThreshold = 30

func needsPoke(stats *cupnode.Stats) bool {
	if stats.Nodes < sparseTreeThreshold {
		return true
	}
	hasChrome := stats.Roles["ToolBar"] > 0 || stats.Roles["TabItem"] > 0
	hasDocument := stats.Roles["Document"] > 0
	return hasChrome && !hasDocument
}
