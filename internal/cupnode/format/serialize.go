package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/cup-project/cup/internal/cupnode"
)

// MaxOutputChars is the hard character ceiling for compact output,
// preventing token-limit explosions on accidentally huge trees.
const MaxOutputChars = 40_000

// CountNodes returns the total node count across a forest, used both for
// capture stats and for the "N nodes (M before pruning)" compact header.
func CountNodes(nodes []*cupnode.Node) int { return countNodes(nodes) }

// BuildEnvelope wraps a captured tree in the CUP envelope shape.
// nowMillis is injected by the caller rather than read from the clock
// here, keeping this package deterministic for tests.
func BuildEnvelope(
	tree []*cupnode.Node,
	platform cupnode.Platform,
	scope cupnode.Scope,
	screen cupnode.Screen,
	app *cupnode.AppInfo,
	tools []cupnode.Tool,
	nowMillis int64,
) cupnode.Envelope {
	return cupnode.Envelope{
		Version:   cupnode.ProtocolVersion,
		Platform:  platform,
		Timestamp: nowMillis,
		Screen:    screen,
		Scope:     scope,
		App:       app,
		Tree:      tree,
		Tools:     tools,
	}
}

// NowMillis is a convenience wrapper for callers that don't need
// deterministic timestamps (CLI/session code, not this package's tests).
func NowMillis() int64 { return time.Now().UnixMilli() }

func truncateRunes(s string, n int) (string, bool) {
	r := []rune(s)
	if len(r) <= n {
		return s, false
	}
	return string(r[:n]), true
}

func escapeQuoted(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

func formatLine(node *cupnode.Node) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] ", node.ID)

	code, ok := cupnode.RoleCodes[node.Role]
	if !ok {
		code = string(node.Role)
	}
	b.WriteString(code)

	if node.Name != "" {
		name, truncated := truncateRunes(node.Name, 80)
		name = escapeQuoted(name)
		if truncated {
			name += "..."
		}
		fmt.Fprintf(&b, ` "%s"`, name)
	}

	var actions []cupnode.Action
	for _, a := range node.Actions {
		if a != cupnode.ActionFocus {
			actions = append(actions, a)
		}
	}

	if node.Bounds != nil && len(actions) > 0 {
		fmt.Fprintf(&b, " %d,%d %dx%d", node.Bounds.X, node.Bounds.Y, node.Bounds.W, node.Bounds.H)
	}

	if len(node.States) > 0 {
		b.WriteString(" {")
		for i, s := range node.States {
			if i > 0 {
				b.WriteByte(',')
			}
			if code, ok := cupnode.StateCodes[s]; ok {
				b.WriteString(code)
			} else {
				b.WriteString(string(s))
			}
		}
		b.WriteByte('}')
	}

	if len(actions) > 0 {
		b.WriteString(" [")
		for i, a := range actions {
			if i > 0 {
				b.WriteByte(',')
			}
			if code, ok := cupnode.ActionCodes[a]; ok {
				b.WriteString(code)
			} else {
				b.WriteString(string(a))
			}
		}
		b.WriteByte(']')
	}

	if node.Value != "" && cupnode.ValueBearingRoles[node.Role] {
		val, truncated := truncateRunes(node.Value, 120)
		val = strings.ReplaceAll(val, "\"", "\\\"")
		val = strings.ReplaceAll(val, "\n", " ")
		if truncated {
			val += "..."
		}
		fmt.Fprintf(&b, ` val="%s"`, val)
	}

	if attr := formatAttrs(node); attr != "" {
		b.WriteString(" (")
		b.WriteString(attr)
		b.WriteByte(')')
	}

	return b.String()
}

func formatAttrs(node *cupnode.Node) string {
	a := node.Attributes
	if a == nil {
		return ""
	}
	var parts []string
	if a.Level != nil {
		parts = append(parts, fmt.Sprintf("L%d", *a.Level))
	}
	if a.Placeholder != "" {
		ph, _ := truncateRunes(a.Placeholder, 30)
		ph = strings.ReplaceAll(ph, "\"", "\\\"")
		ph = strings.ReplaceAll(ph, "\n", " ")
		parts = append(parts, fmt.Sprintf(`ph="%s"`, ph))
	}
	if a.Orientation != "" {
		parts = append(parts, a.Orientation[:1])
	}
	if a.ValueMin != nil || a.ValueMax != nil {
		vmin, vmax := "", ""
		if a.ValueMin != nil {
			vmin = fmt.Sprintf("%g", *a.ValueMin)
		}
		if a.ValueMax != nil {
			vmax = fmt.Sprintf("%g", *a.ValueMax)
		}
		parts = append(parts, fmt.Sprintf("range=%s..%s", vmin, vmax))
	}
	return strings.Join(parts, " ")
}

func emitCompact(node *cupnode.Node, depth int, lines *[]string, counter *int, clipped map[string]clippedHint) {
	*counter++
	indent := strings.Repeat("  ", depth)
	*lines = append(*lines, indent+formatLine(node))

	for _, child := range node.Children {
		emitCompact(child, depth+1, lines, counter, clipped)
	}

	if hint, ok := clipped[node.ID]; ok && hint.total() > 0 {
		var directions []string
		if hint.Above > 0 {
			directions = append(directions, "up")
		}
		if hint.Below > 0 {
			directions = append(directions, "down")
		}
		if hint.Left > 0 {
			directions = append(directions, "left")
		}
		if hint.Right > 0 {
			directions = append(directions, "right")
		}
		hintIndent := strings.Repeat("  ", depth+1)
		*lines = append(*lines, fmt.Sprintf("%s# %d more items — scroll %s to see",
			hintIndent, hint.total(), strings.Join(directions, "/")))
	}
}

// SerializeCompact renders a CUP envelope to compact LLM-friendly text.
// windowList, when non-nil, is rendered in the header for
// foreground-scope situational awareness.
func SerializeCompact(envelope cupnode.Envelope, windowList []cupnode.WindowOverview, detail Detail, maxChars int) string {
	totalBefore := CountNodes(envelope.Tree)
	pruned, clipped := Prune(envelope.Tree, detail, envelope.Screen.W, envelope.Screen.H)

	var lines []string
	counter := 0
	for _, root := range pruned {
		emitCompact(root, 0, &lines, &counter, clipped)
	}

	var header []string
	header = append(header, fmt.Sprintf("# CUP %s | %s | %dx%d", envelope.Version, envelope.Platform, envelope.Screen.W, envelope.Screen.H))
	if envelope.App != nil {
		header = append(header, fmt.Sprintf("# app: %s", envelope.App.Name))
	}
	header = append(header, fmt.Sprintf("# %d nodes (%d before pruning)", counter, totalBefore))
	if n := len(envelope.Tools); n > 0 {
		plural := "s"
		if n == 1 {
			plural = ""
		}
		header = append(header, fmt.Sprintf("# %d WebMCP tool%s available", n, plural))
	}

	if len(windowList) > 0 {
		header = append(header, fmt.Sprintf("# --- %d open windows ---", len(windowList)))
		for _, win := range windowList {
			title, _ := truncateRunes(win.Title, 50)
			marker := ""
			if win.Foreground {
				marker = " [fg]"
			}
			header = append(header, fmt.Sprintf("#   %s%s", title, marker))
		}
	}
	header = append(header, "")

	output := strings.Join(append(header, lines...), "\n") + "\n"

	if maxChars > 0 && len(output) > maxChars {
		truncated := output[:maxChars]
		if lastNL := strings.LastIndexByte(truncated, '\n'); lastNL > 0 {
			truncated = truncated[:lastNL]
		}
		truncated += "\n\n# OUTPUT TRUNCATED — exceeded character limit.\n" +
			"# Use find(name=...) to locate specific elements instead.\n" +
			"# Or use snapshot_app(app='<title>') to target a specific window.\n"
		return truncated
	}

	return output
}

// SerializeOverview renders a window list to compact overview text with
// no tree walk and no element ids.
func SerializeOverview(windows []cupnode.WindowOverview, platform cupnode.Platform, screenW, screenH int) string {
	lines := []string{
		fmt.Sprintf("# CUP %s | %s | %dx%d", cupnode.ProtocolVersion, platform, screenW, screenH),
		fmt.Sprintf("# overview | %d windows", len(windows)),
		"",
	}
	for _, win := range windows {
		title := win.Title
		if title == "" {
			title = "(untitled)"
		}
		prefix, marker := "  ", ""
		if win.Foreground {
			prefix, marker = "* ", "[fg] "
		}
		parts := []string{prefix + marker + title}
		if win.PID != nil {
			parts = append(parts, fmt.Sprintf("(pid:%d)", *win.PID))
		}
		if win.Bounds != nil {
			parts = append(parts, fmt.Sprintf("@%d,%d %dx%d", win.Bounds.X, win.Bounds.Y, win.Bounds.W, win.Bounds.H))
		}
		if win.URL != "" {
			url, truncated := truncateRunes(win.URL, 80)
			if truncated {
				url += "..."
			}
			parts = append(parts, "url:"+url)
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	return strings.Join(lines, "\n") + "\n"
}

// Fingerprint returns a content hash of a serialized compact tree, used by
// idempotence tests to check Prune(Prune(t)) == Prune(t) without a
// string-equality diff of the whole rendering.
func Fingerprint(serialized string) uint64 {
	return xxhash.Sum64String(serialized)
}
