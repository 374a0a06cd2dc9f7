// Package cdp implements a minimal synchronous Chrome DevTools Protocol
// transport: target discovery over HTTP and a request/response websocket
// client that discards interleaved event notifications while waiting for
// a command's matching reply.
package cdp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Target is one entry from the browser's /json target list.
type Target struct {
	ID                   string `json:"id"`
	Type                 string `json:"type"`
	Title                string `json:"title"`
	URL                  string `json:"url"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
}

// GetTargets fetches the list of CDP targets (browser tabs) via HTTP.
func GetTargets(ctx context.Context, host string, port int) ([]Target, error) {
	u := fmt.Sprintf("http://%s:%d/json", host, port)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var targets []Target
	if err := json.NewDecoder(resp.Body).Decode(&targets); err != nil {
		return nil, fmt.Errorf("decoding CDP target list: %w", err)
	}
	return targets, nil
}

// PageTargets filters GetTargets down to page (tab) targets.
func PageTargets(ctx context.Context, host string, port int) ([]Target, error) {
	targets, err := GetTargets(ctx, host, port)
	if err != nil {
		return nil, err
	}
	pages := make([]Target, 0, len(targets))
	for _, t := range targets {
		if t.Type == "page" {
			pages = append(pages, t)
		}
	}
	return pages, nil
}

var msgID int64

// Conn is a single CDP websocket session.
type Conn struct {
	ws *websocket.Conn
}

// Connect opens a synchronous websocket connection to a CDP target. If host
// is non-empty, the hostname in wsURL is replaced so the connection always
// goes through the same address used for target discovery (avoids slow
// localhost DNS lookups on some systems).
func Connect(wsURL, host string) (*Conn, error) {
	if host != "" {
		parsed, err := url.Parse(wsURL)
		if err != nil {
			return nil, fmt.Errorf("parsing CDP websocket url: %w", err)
		}
		parsed.Host = fmt.Sprintf("%s:%s", host, parsed.Port())
		wsURL = parsed.String()
	}
	dialer := websocket.Dialer{HandshakeTimeout: 30 * time.Second}
	ws, _, err := dialer.Dial(wsURL, nil)
	if err != nil {
		return nil, err
	}
	return &Conn{ws: ws}, nil
}

// Close closes the websocket connection. Safe to call more than once.
func (c *Conn) Close() {
	_ = c.ws.Close()
}

type request struct {
	ID     int64          `json:"id"`
	Method string         `json:"method"`
	Params map[string]any `json:"params,omitempty"`
}

type response struct {
	ID     int64           `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Send issues a CDP command and waits for its matching response, discarding
// interleaved event messages in between.
func (c *Conn) Send(method string, params map[string]any, timeout time.Duration) (json.RawMessage, error) {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	id := atomic.AddInt64(&msgID, 1)
	if err := c.ws.WriteJSON(request{ID: id, Method: method, Params: params}); err != nil {
		return nil, err
	}

	deadline := time.Now().Add(timeout)
	for {
		_ = c.ws.SetReadDeadline(deadline)
		var resp response
		if err := c.ws.ReadJSON(&resp); err != nil {
			return nil, err
		}
		if resp.ID != id {
			continue // event notification, not our reply
		}
		if resp.Error != nil {
			return nil, fmt.Errorf("CDP error %d: %s", resp.Error.Code, resp.Error.Message)
		}
		return resp.Result, nil
	}
}
