package dev

import (
	"net/http"
	"path/filepath"
	"sync"

	"github.com/gorilla/websocket"
)

// reloadPath is the WebSocket endpoint the injected client connects to.
const reloadPath = "/_veldt/reload"

// ReloadMessage is the wire format pushed to connected browsers. Type
// is "reload", "css", "error" or "clear"; File accompanies css
// messages, Error carries the build output for the overlay.
type ReloadMessage struct {
	Type  string `json:"type"`
	File  string `json:"file,omitempty"`
	Error string `json:"error,omitempty"`
}

// ReloadServer pushes rebuild and hot-swap notifications to connected
// browsers. Messages are derived from watcher change classifications:
// Go changes become full reloads after the rebuild, stylesheet changes
// swap CSS in place without losing page state, and build failures
// drive the error overlay.
type ReloadServer struct {
	mu       sync.Mutex
	conns    map[*websocket.Conn]struct{}
	upgrader websocket.Upgrader
}

// NewReloadServer creates a reload server with no connected browsers.
func NewReloadServer() *ReloadServer {
	return &ReloadServer{
		conns: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			// dev only, any origin
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// HandleWebSocket upgrades the connection and holds it open until the
// browser navigates away or the server closes.
func (rs *ReloadServer) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := rs.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return
	}
	rs.track(conn)
	defer rs.drop(conn)

	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

func (rs *ReloadServer) track(conn *websocket.Conn) {
	rs.mu.Lock()
	rs.conns[conn] = struct{}{}
	rs.mu.Unlock()
}

func (rs *ReloadServer) drop(conn *websocket.Conn) {
	rs.mu.Lock()
	delete(rs.conns, conn)
	rs.mu.Unlock()
	conn.Close()
}

// NotifyChange translates a watched-file change into the message
// browsers act on. Stylesheet changes list each file so the client can
// refresh links in place; everything else reloads the page.
func (rs *ReloadServer) NotifyChange(change Change) {
	if change.Kind == ChangeCSS {
		for _, f := range change.Files {
			rs.send(ReloadMessage{Type: "css", File: filepath.Base(f)})
		}
		return
	}
	rs.send(ReloadMessage{Type: "reload"})
}

// NotifyReload forces a full page reload in every connected browser.
func (rs *ReloadServer) NotifyReload() {
	rs.send(ReloadMessage{Type: "reload"})
}

// NotifyError shows the build error overlay with the given text.
func (rs *ReloadServer) NotifyError(text string) {
	rs.send(ReloadMessage{Type: "error", Error: text})
}

// ClearError dismisses the error overlay.
func (rs *ReloadServer) ClearError() {
	rs.send(ReloadMessage{Type: "clear"})
}

func (rs *ReloadServer) send(msg ReloadMessage) {
	rs.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(rs.conns))
	for c := range rs.conns {
		conns = append(conns, c)
	}
	rs.mu.Unlock()

	for _, c := range conns {
		if err := c.WriteJSON(msg); err != nil {
			rs.drop(c)
		}
	}
}

// ClientCount returns the number of connected browsers.
func (rs *ReloadServer) ClientCount() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return len(rs.conns)
}

// Close disconnects every browser.
func (rs *ReloadServer) Close() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	for c := range rs.conns {
		c.Close()
		delete(rs.conns, c)
	}
}

// DevClientScript is the hot reload client, injected before </body> in
// every HTML response the dev server proxies.
const DevClientScript = `
<script>
(() => {
  let delay = 1000;

  const handlers = {
    reload: () => location.reload(),
    css: () => refreshStylesheets(),
    error: (msg) => showOverlay(msg.error),
    clear: () => hideOverlay(),
  };

  function connect() {
    const proto = location.protocol === 'https:' ? 'wss:' : 'ws:';
    const ws = new WebSocket(proto + '//' + location.host + '` + reloadPath + `');

    ws.onopen = () => {
      delay = 1000;
      hideOverlay();
    };
    ws.onmessage = (e) => {
      let msg;
      try {
        msg = JSON.parse(e.data);
      } catch {
        return;
      }
      const handle = handlers[msg.type];
      if (handle) handle(msg);
    };
    ws.onclose = () => {
      setTimeout(connect, delay);
      delay = Math.min(delay * 2, 30000);
    };
    ws.onerror = () => ws.close();
  }

  function refreshStylesheets() {
    document.querySelectorAll('link[rel="stylesheet"]').forEach((link) => {
      const url = new URL(link.href);
      url.searchParams.set('v', Date.now());
      link.href = url.toString();
    });
  }

  function showOverlay(text) {
    hideOverlay();
    const overlay = document.createElement('div');
    overlay.id = 'veldt-error-overlay';
    overlay.style.cssText = 'position:fixed;inset:0;background:rgba(12,12,12,0.94);color:#eee;font:14px/1.5 monospace;padding:32px;overflow:auto;z-index:999999;';

    const heading = document.createElement('h2');
    heading.style.cssText = 'color:#f66;margin:0 0 16px;font-size:18px;';
    heading.textContent = 'Build failed';

    const pre = document.createElement('pre');
    pre.style.cssText = 'white-space:pre-wrap;background:#1b1b1b;padding:16px;border-radius:6px;border:1px solid #333;';
    pre.textContent = text;

    const hint = document.createElement('p');
    hint.style.cssText = 'margin-top:16px;color:#888;';
    hint.textContent = 'Fix the error and save to reload.';

    overlay.append(heading, pre, hint);
    document.body.appendChild(overlay);
  }

  function hideOverlay() {
    const overlay = document.getElementById('veldt-error-overlay');
    if (overlay) overlay.remove();
  }

  connect();
})();
</script>
`
