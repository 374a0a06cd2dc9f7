package webadapter

import (
	"encoding/json"
	"time"

	"github.com/cup-project/cup/internal/cupnode"
	"github.com/cup-project/cup/internal/platform/webadapter/cdp"
)

// webMCPProbe is evaluated in the page context to discover WebMCP tools
// exposed via navigator.modelContext.
const webMCPProbe = `(() => {
    try {
        const mc = navigator.modelContext;
        if (!mc) return JSON.stringify([]);
        let tools = [];
        if (typeof mc.getTools === 'function') {
            tools = mc.getTools();
        } else if (mc.tools) {
            tools = Array.from(mc.tools);
        } else if (mc._tools) {
            tools = Array.from(mc._tools);
        }
        return JSON.stringify(
            tools.map(t => ({
                name: t.name || '',
                description: t.description || '',
                inputSchema: t.inputSchema || null,
            })).filter(t => t.name)
        );
    } catch (e) {
        return JSON.stringify([]);
    }
})()`

// extractWebMCPTools discovers WebMCP tools via Runtime.evaluate. Never
// returns an error to the caller — a page without WebMCP support yields an
// empty slice.
func extractWebMCPTools(conn *cdp.Conn) []cupnode.Tool {
	raw, err := conn.Send("Runtime.evaluate", map[string]any{
		"expression":    webMCPProbe,
		"returnByValue": true,
		"awaitPromise":  false,
	}, 5*time.Second)
	if err != nil {
		return nil
	}

	var resp struct {
		Result struct {
			Value string `json:"value"`
		} `json:"result"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil
	}

	var tools []cupnode.Tool
	if err := json.Unmarshal([]byte(resp.Result.Value), &tools); err != nil {
		return nil
	}

	out := tools[:0]
	for _, t := range tools {
		if t.Name != "" {
			out = append(out, t)
		}
	}
	return out
}

func parseViewportResult(raw json.RawMessage) (int, int, float64, error) {
	var resp struct {
		Result struct {
			Value string `json:"value"`
		} `json:"result"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return 1920, 1080, 1.0, err
	}
	var info struct {
		W float64 `json:"w"`
		H float64 `json:"h"`
		S float64 `json:"s"`
	}
	if resp.Result.Value == "" {
		return 1920, 1080, 1.0, nil
	}
	if err := json.Unmarshal([]byte(resp.Result.Value), &info); err != nil {
		return 1920, 1080, 1.0, err
	}
	w, h, s := int(info.W), int(info.H), info.S
	if w == 0 {
		w = 1920
	}
	if h == 0 {
		h = 1080
	}
	if s == 0 {
		s = 1.0
	}
	return w, h, s, nil
}
