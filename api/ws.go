package api

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"docbuilder/debounce"
	"docbuilder/draft"
	"docbuilder/editor"
	"docbuilder/notify"
	"docbuilder/ui"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsMessage is used in both directions; each type only sets its own fields.
type wsMessage struct {
	Type string `json:"type"`

	// Page to server.
	State     *editor.State     `json:"state,omitempty"`
	Key       string            `json:"key,omitempty"`
	Ctrl      bool              `json:"ctrl,omitempty"`
	Meta      bool              `json:"meta,omitempty"`
	Action    editor.Action     `json:"action,omitempty"`
	Selection *editor.Selection `json:"selection,omitempty"`
	Message   string            `json:"message,omitempty"`

	// Server to page.
	View    *editor.View   `json:"view,omitempty"`
	Toast   *notify.Toast  `json:"toast,omitempty"`
	Draft   *draft.Record  `json:"draft,omitempty"`
	Prompt  string         `json:"prompt,omitempty"`
	Command editor.Command `json:"command,omitempty"`
	Edit    *editor.Edit   `json:"edit,omitempty"`
}

// editorSession is the form behind one editor page.
type editorSession struct {
	mu      sync.Mutex
	state   *editor.State
	touched bool // the page has sent its form at least once
	offered *draft.Record
}

func (h *handler) handleWS(w http.ResponseWriter, r *http.Request) {
	client := clientID(r)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Serialise all WebSocket writes: gorilla/websocket forbids concurrent writes.
	var writeMu sync.Mutex
	writeMsg := func(msg wsMessage) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(msg)
	}

	// Subscribe before the first write: toasts raised once the page has its
	// view must reach it.
	events, unsubscribe := h.svc.Notify.Subscribe(client)
	defer unsubscribe()

	sess := &editorSession{state: editor.NewState()}
	limit := h.fieldLimit()
	sendView := func() {
		sess.mu.Lock()
		v := sess.state.View(limit)
		sess.mu.Unlock()
		writeMsg(wsMessage{Type: "view", View: &v}) //nolint:errcheck
	}
	sendView()

	// Goroutine: pump the client's toasts to the page.
	// Exits when unsubscribe closes the channel.
	go func() {
		for ev := range events {
			t := ev.Toast
			typ := "toast"
			if ev.Type == notify.Hidden {
				typ = "toast_hidden"
			}
			if err := writeMsg(wsMessage{Type: typ, Toast: &t}); err != nil {
				return
			}
		}
	}()

	autosaver := &draft.Autosaver{
		Store:     h.svc.Drafts,
		Namespace: client,
		Interval:  h.svc.Editor.AutosaveInterval,
		Snapshot: func() (draft.Record, bool) {
			sess.mu.Lock()
			defer sess.mu.Unlock()
			return draft.FromState(sess.state, h.svc.Drafts.Now()), sess.touched
		},
		OnSaved: func(draft.Record) {
			h.svc.Notify.Notify(client, "Brouillon sauvegardé automatiquement", notify.Info, autosavedToastDuration)
		},
	}
	go autosaver.Run(ctx)

	delay := h.svc.Editor.RestoreDelay
	if delay <= 0 {
		delay = draft.DefaultRestoreDelay
	}
	go h.svc.Drafts.Offer(ctx, client, delay, func(rec draft.Record) {
		sess.mu.Lock()
		sess.offered = &rec
		sess.mu.Unlock()
		writeMsg(wsMessage{Type: "draft_offer", Draft: &rec, Prompt: draft.RestorePrompt}) //nolint:errcheck
	})

	preview := debounce.New(h.svc.Editor.PreviewDebounce)
	defer preview.Stop()

	// Main loop: read page messages.
	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "input":
			if msg.State == nil {
				continue
			}
			sess.mu.Lock()
			st := sess.state
			st.Title = msg.State.Title
			st.Description = msg.State.Description
			st.Category = msg.State.Category
			st.IsPublic = msg.State.IsPublic
			if msg.State.Step > 0 {
				st.Step = msg.State.Step
			}
			st.SetContent(msg.State.Content)
			sess.touched = true
			sess.mu.Unlock()
			preview.Do(sendView)

		case "shortcut":
			if cmd, ok := editor.Shortcut(msg.Key, msg.Ctrl, msg.Meta); ok {
				writeMsg(wsMessage{Type: "command", Command: cmd}) //nolint:errcheck
			}

		case "format":
			if msg.Selection == nil {
				continue
			}
			sess.mu.Lock()
			edit, err := editor.Format(sess.state.Content, *msg.Selection, msg.Action)
			if err == nil {
				sess.state.SetContent(edit.Text)
			}
			sess.mu.Unlock()
			if err != nil {
				h.notifyError(client, err)
				continue
			}
			writeMsg(wsMessage{Type: "edit", Edit: &edit}) //nolint:errcheck
			h.svc.Notify.Notify(client, "Formatage appliqué", notify.Success, h.svc.ToastDuration)
			sendView()

		case "draft_accept":
			sess.mu.Lock()
			rec := sess.offered
			sess.offered = nil
			var st editor.State
			if rec != nil {
				rec.Apply(sess.state)
				st = *sess.state
				sess.touched = true
			}
			sess.mu.Unlock()
			if rec == nil {
				continue
			}
			writeMsg(wsMessage{Type: "state", State: &st}) //nolint:errcheck
			sendView()
			h.svc.Notify.Notify(client, "Brouillon chargé", notify.Success, h.svc.ToastDuration)

		case "draft_decline":
			sess.mu.Lock()
			sess.offered = nil
			sess.mu.Unlock()

		case "online":
			h.svc.Notify.Notify(client, ui.MsgOnline, notify.Success, h.svc.ToastDuration)
		case "offline":
			h.svc.Notify.Notify(client, ui.MsgOffline, notify.Warning, h.svc.ToastDuration)

		case "error":
			h.log.Warn("page error", "client", client, "message", msg.Message)
			h.svc.Notify.Notify(client, ui.MsgUnexpected, notify.Error, h.svc.ToastDuration)
		}
	}
}

// notifyError shows a validation error to the client and logs anything else.
func (h *handler) notifyError(client string, err error) {
	var verr *editor.ValidationError
	if errors.As(err, &verr) {
		h.svc.Notify.Notify(client, verr.Message, validationSeverity(verr), h.svc.ToastDuration)
		return
	}
	h.log.Warn("editor command failed", "client", client, "error", err)
}
