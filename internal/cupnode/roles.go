package cupnode

// Role is the closed set of CUP roles every platform adapter normalises
// native roles into. The short codes are the frozen
// abbreviations used by the compact serializer.
type Role string

const (
	RoleAlert            Role = "alert"
	RoleAlertDialog      Role = "alertdialog"
	RoleApplication      Role = "application"
	RoleBanner           Role = "banner"
	RoleBlockquote       Role = "blockquote"
	RoleButton           Role = "button"
	RoleCaption          Role = "caption"
	RoleCell             Role = "cell"
	RoleCheckbox         Role = "checkbox"
	RoleCode             Role = "code"
	RoleColumnHeader     Role = "columnheader"
	RoleCombobox         Role = "combobox"
	RoleComplementary    Role = "complementary"
	RoleContentInfo      Role = "contentinfo"
	RoleDeletion         Role = "deletion"
	RoleDialog           Role = "dialog"
	RoleDocument         Role = "document"
	RoleEmphasis         Role = "emphasis"
	RoleFigure           Role = "figure"
	RoleForm             Role = "form"
	RoleGeneric          Role = "generic"
	RoleGrid             Role = "grid"
	RoleGroup            Role = "group"
	RoleHeading          Role = "heading"
	RoleImg              Role = "img"
	RoleInsertion        Role = "insertion"
	RoleLink             Role = "link"
	RoleList             Role = "list"
	RoleListItem         Role = "listitem"
	RoleLog              Role = "log"
	RoleMain             Role = "main"
	RoleMarquee          Role = "marquee"
	RoleMath             Role = "math"
	RoleMenu             Role = "menu"
	RoleMenuBar          Role = "menubar"
	RoleMenuItem         Role = "menuitem"
	RoleMenuItemCheckbox Role = "menuitemcheckbox"
	RoleMenuItemRadio    Role = "menuitemradio"
	RoleNavigation       Role = "navigation"
	RoleNone             Role = "none"
	RoleNote             Role = "note"
	RoleOption           Role = "option"
	RoleParagraph        Role = "paragraph"
	RoleProgressBar      Role = "progressbar"
	RoleRadio            Role = "radio"
	RoleRegion           Role = "region"
	RoleRow              Role = "row"
	RoleRowHeader        Role = "rowheader"
	RoleScrollbar        Role = "scrollbar"
	RoleSearch           Role = "search"
	RoleSearchBox        Role = "searchbox"
	RoleSeparator        Role = "separator"
	RoleSlider           Role = "slider"
	RoleSpinButton       Role = "spinbutton"
	RoleStatus           Role = "status"
	RoleStrong           Role = "strong"
	RoleSubscript        Role = "subscript"
	RoleSuperscript      Role = "superscript"
	RoleSwitch           Role = "switch"
	RoleTab              Role = "tab"
	RoleTable            Role = "table"
	RoleTabList          Role = "tablist"
	RoleTabPanel         Role = "tabpanel"
	RoleText             Role = "text"
	RoleTextbox          Role = "textbox"
	RoleTimer            Role = "timer"
	RoleTitlebar         Role = "titlebar"
	RoleToolbar          Role = "toolbar"
	RoleTooltip          Role = "tooltip"
	RoleTree             Role = "tree"
	RoleTreeItem         Role = "treeitem"
	RoleWindow           Role = "window"
)

// AllRoles is the complete closed set of CUP roles recognised by the
// search engine — a superset of the roles that
// carry a compact short code, since inline text-semantic roles
// (blockquote, emphasis, strong, ...) are web/document content markers
// that never need abbreviation in practice.
var AllRoles = map[Role]bool{
	RoleAlert: true, RoleAlertDialog: true, RoleApplication: true, RoleBanner: true,
	RoleBlockquote: true, RoleButton: true, RoleCaption: true, RoleCell: true,
	RoleCheckbox: true, RoleCode: true, RoleColumnHeader: true, RoleCombobox: true,
	RoleComplementary: true, RoleContentInfo: true, RoleDeletion: true, RoleDialog: true,
	RoleDocument: true, RoleEmphasis: true, RoleFigure: true, RoleForm: true,
	RoleGeneric: true, RoleGrid: true, RoleGroup: true, RoleHeading: true,
	RoleImg: true, RoleInsertion: true, RoleLink: true, RoleList: true,
	RoleListItem: true, RoleLog: true, RoleMain: true, RoleMarquee: true,
	RoleMath: true, RoleMenu: true, RoleMenuBar: true, RoleMenuItem: true,
	RoleMenuItemCheckbox: true, RoleMenuItemRadio: true, RoleNavigation: true, RoleNone: true,
	RoleNote: true, RoleOption: true, RoleParagraph: true, RoleProgressBar: true,
	RoleRadio: true, RoleRegion: true, RoleRow: true, RoleRowHeader: true,
	RoleScrollbar: true, RoleSearch: true, RoleSearchBox: true, RoleSeparator: true,
	RoleSlider: true, RoleSpinButton: true, RoleStatus: true, RoleStrong: true,
	RoleSubscript: true, RoleSuperscript: true, RoleSwitch: true, RoleTab: true,
	RoleTable: true, RoleTabList: true, RoleTabPanel: true, RoleText: true,
	RoleTextbox: true, RoleTimer: true, RoleTitlebar: true, RoleToolbar: true,
	RoleTooltip: true, RoleTree: true, RoleTreeItem: true, RoleWindow: true,
}

// RoleCodes is the frozen role→short-code table used by the compact
// serializer.
var RoleCodes = map[Role]string{
	RoleAlert:            "alrt",
	RoleAlertDialog:      "adlg",
	RoleApplication:      "app",
	RoleBanner:           "bnr",
	RoleButton:           "btn",
	RoleCell:             "cel",
	RoleCheckbox:         "chk",
	RoleColumnHeader:     "colh",
	RoleCombobox:         "cmb",
	RoleComplementary:    "cmp",
	RoleContentInfo:      "ci",
	RoleDialog:           "dlg",
	RoleDocument:         "doc",
	RoleForm:             "frm",
	RoleGeneric:          "gen",
	RoleGrid:             "grd",
	RoleGroup:            "grp",
	RoleHeading:          "hdg",
	RoleImg:              "img",
	RoleLink:             "lnk",
	RoleList:             "lst",
	RoleListItem:         "li",
	RoleLog:              "log",
	RoleMain:             "main",
	RoleMarquee:          "mrq",
	RoleMenu:             "mnu",
	RoleMenuBar:          "mnub",
	RoleMenuItem:         "mi",
	RoleMenuItemCheckbox: "mic",
	RoleMenuItemRadio:    "mir",
	RoleNavigation:       "nav",
	RoleNone:             "none",
	RoleOption:           "opt",
	RoleProgressBar:      "pbar",
	RoleRadio:            "rad",
	RoleRegion:           "rgn",
	RoleRow:              "row",
	RoleRowHeader:        "rowh",
	RoleScrollbar:        "sb",
	RoleSearch:           "srch",
	RoleSearchBox:        "sbx",
	RoleSeparator:        "sep",
	RoleSlider:           "sld",
	RoleSpinButton:       "spn",
	RoleStatus:           "sts",
	RoleSwitch:           "sw",
	RoleTab:              "tab",
	RoleTable:            "tbl",
	RoleTabList:          "tabs",
	RoleTabPanel:         "tpnl",
	RoleText:             "txt",
	RoleTextbox:          "tbx",
	RoleTimer:            "tmr",
	RoleTitlebar:         "ttlb",
	RoleToolbar:          "tlbr",
	RoleTooltip:          "ttp",
	RoleTree:             "tre",
	RoleTreeItem:         "ti",
	RoleWindow:           "win",
}

// State is the closed set of CUP states.
type State string

const (
	StateBusy            State = "busy"
	StateChecked         State = "checked"
	StateCollapsed       State = "collapsed"
	StateDisabled        State = "disabled"
	StateEditable        State = "editable"
	StateExpanded        State = "expanded"
	StateFocused         State = "focused"
	StateHidden          State = "hidden"
	StateMixed           State = "mixed"
	StateModal           State = "modal"
	StateMultiselectable State = "multiselectable"
	StateOffscreen       State = "offscreen"
	StatePressed         State = "pressed"
	StateReadonly        State = "readonly"
	StateRequired        State = "required"
	StateSelected        State = "selected"
)

// StateCodes is the frozen state→short-code table.
var StateCodes = map[State]string{
	StateBusy:            "bsy",
	StateChecked:         "chk",
	StateCollapsed:       "col",
	StateDisabled:        "dis",
	StateEditable:        "edt",
	StateExpanded:        "exp",
	StateFocused:         "foc",
	StateHidden:          "hid",
	StateMixed:           "mix",
	StateModal:           "mod",
	StateMultiselectable: "msel",
	StateOffscreen:       "off",
	StatePressed:         "prs",
	StateReadonly:        "ro",
	StateRequired:        "req",
	StateSelected:        "sel",
}

// Action is the closed set of CUP actions.
type Action string

const (
	ActionClick       Action = "click"
	ActionCollapse    Action = "collapse"
	ActionDecrement   Action = "decrement"
	ActionDismiss     Action = "dismiss"
	ActionDoubleClick Action = "doubleclick"
	ActionExpand      Action = "expand"
	ActionFocus       Action = "focus"
	ActionIncrement   Action = "increment"
	ActionLongPress   Action = "longpress"
	ActionRightClick  Action = "rightclick"
	ActionScroll      Action = "scroll"
	ActionSelect      Action = "select"
	ActionSetValue    Action = "setvalue"
	ActionToggle      Action = "toggle"
	ActionType        Action = "type"
	ActionPress       Action = "press"
	ActionOpenApp     Action = "open_app"
)

// ActionCodes is the frozen action→short-code table.
// press/open_app are pseudo-actions dispatched directly by the session and
// never appear on a node, so they carry no short code.
var ActionCodes = map[Action]string{
	ActionClick:       "clk",
	ActionCollapse:    "col",
	ActionDecrement:   "dec",
	ActionDismiss:     "dsm",
	ActionDoubleClick: "dbl",
	ActionExpand:      "exp",
	ActionFocus:       "foc",
	ActionIncrement:   "inc",
	ActionLongPress:   "lp",
	ActionRightClick:  "rclk",
	ActionScroll:      "scr",
	ActionSelect:      "sel",
	ActionSetValue:    "sv",
	ActionToggle:      "tog",
	ActionType:        "typ",
}

// ValueBearingRoles is the set of roles whose value is surfaced in the
// compact serializer.
var ValueBearingRoles = map[Role]bool{
	RoleTextbox:    true,
	RoleSearchBox:  true,
	RoleCombobox:   true,
	RoleSpinButton: true,
	RoleSlider:     true,
}
