package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"markcheck/internal/autoclose"
	"markcheck/internal/diagfmt"
	"markcheck/internal/score"
	"markcheck/internal/session"
)

const (
	liveWriteWait = 10 * time.Second
	livePongWait  = 60 * time.Second
	livePingEvery = livePongWait * 9 / 10
)

// Live message types.
const (
	msgUpdate    = "update"
	msgAutoClose = "autoclose"
	msgFormat    = "format"
	msgUndo      = "undo"
	msgSave      = "save"

	msgAnalysis  = "analysis"
	msgFormatted = "formatted"
	msgText      = "text"
	msgSaved     = "saved"
	msgStale     = "stale"
	msgError     = "error"
)

// liveRequest is a message from the editor. Seq grows with every keystroke;
// requests older than the newest one seen are answered with "stale".
type liveRequest struct {
	Type   string `json:"type"`
	Seq    uint64 `json:"seq"`
	Text   string `json:"text,omitempty"`
	Prefix string `json:"prefix,omitempty"`
}

type liveResponse struct {
	Type        string                   `json:"type"`
	Seq         uint64                   `json:"seq"`
	Text        *string                  `json:"text,omitempty"`
	Dirty       bool                     `json:"dirty"`
	Diagnostics []diagfmt.DiagnosticJSON `json:"diagnostics,omitempty"`
	Metrics     *score.Metrics           `json:"metrics,omitempty"`
	Proposal    *autoclose.Proposal      `json:"proposal,omitempty"`
	Error       string                   `json:"error,omitempty"`
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		s.log.Warn("live upgrade failed", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(s.maxBody)
	_ = conn.SetReadDeadline(time.Now().Add(livePongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(livePongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go s.pingLoop(conn, done)

	sess := session.New(s.history)
	for {
		var req liveRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug("live read", "error", err)
			}
			return
		}
		resp := s.live(sess, req)
		_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
		if err := conn.WriteJSON(resp); err != nil {
			s.log.Debug("live write", "error", err)
			return
		}
	}
}

// pingLoop keeps the connection alive. gorilla allows one concurrent writer
// plus control frames via WriteControl.
func (s *Server) pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(livePingEvery)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(liveWriteWait)); err != nil {
				return
			}
		}
	}
}

// live handles one editor message against the connection's session.
func (s *Server) live(sess *session.Session, req liveRequest) liveResponse {
	resp := liveResponse{Seq: req.Seq}
	fail := func(err error) liveResponse {
		if errors.Is(err, session.ErrStale) {
			return liveResponse{Type: msgStale, Seq: req.Seq, Dirty: sess.Dirty()}
		}
		resp.Type = msgError
		resp.Error = err.Error()
		resp.Dirty = sess.Dirty()
		return resp
	}

	switch req.Type {
	case msgUpdate:
		if err := sess.Update(req.Seq, req.Text); err != nil {
			return fail(err)
		}
		fs, f := buffer(req.Text)
		res := s.eng.AnalyzeFile(f)
		resp.Type = msgAnalysis
		resp.Diagnostics = diagnosticsJSON(fs, res.Diagnostics)
		resp.Metrics = &res.Metrics

	case msgAutoClose:
		if err := sess.Check(req.Seq); err != nil {
			return fail(err)
		}
		resp.Type = msgAutoClose
		if p, ok := s.eng.ProposeAutoClose(req.Prefix); ok {
			resp.Proposal = &p
		}

	case msgFormat:
		if err := sess.Check(req.Seq); err != nil {
			return fail(err)
		}
		formatted := s.eng.Format(sess.Text())
		if err := sess.Update(req.Seq, formatted); err != nil {
			return fail(err)
		}
		resp.Type = msgFormatted
		resp.Text = &formatted

	case msgUndo:
		text, err := sess.Undo(req.Seq)
		if err != nil {
			return fail(err)
		}
		resp.Type = msgText
		resp.Text = &text

	case msgSave:
		if err := sess.Check(req.Seq); err != nil {
			return fail(err)
		}
		sess.MarkSaved()
		resp.Type = msgSaved

	default:
		resp.Type = msgError
		resp.Error = "unknown message type " + req.Type
	}
	resp.Dirty = sess.Dirty()
	return resp
}
