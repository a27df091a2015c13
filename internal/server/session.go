package server

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"

	"github.com/conecourse/editor/internal/config"
	"github.com/conecourse/editor/internal/dispatcher"
	"github.com/conecourse/editor/internal/editor"
	"github.com/conecourse/editor/pkg/streaming"
)

// session is one editing connection. The read loop owns the editor; the
// write loop only ever sees marshalled frames.
type session struct {
	id        string
	conn      *ws.Conn
	sendCh    chan []byte
	done      chan struct{}
	closeOnce sync.Once
	writeWait time.Duration

	editor     *editor.Editor
	dispatcher *dispatcher.Dispatcher
	logger     *slog.Logger
}

func newSession(conn *ws.Conn, cfg config.ServerConfig, tmpl editor.Deps, logger *slog.Logger) (*session, error) {
	s := &session{
		id:        uuid.NewString(),
		conn:      conn,
		sendCh:    make(chan []byte, cfg.SendBuffer),
		done:      make(chan struct{}),
		writeWait: cfg.WriteWait,
	}
	s.logger = logger.With("session", s.id)

	r := &remote{send: s.send, logger: s.logger}
	tmpl.Surface = r
	tmpl.Hooks = r
	tmpl.Logger = s.logger
	s.editor = editor.New(tmpl)

	d, err := dispatcher.New(s.logger)
	if err != nil {
		return nil, err
	}
	s.editor.Bind(d)
	s.dispatcher = d
	return s, nil
}

// run serves the session until the peer goes away.
func (s *session) run() {
	s.logger.Info("Session opened", "remote", s.conn.RemoteAddr().String())
	go s.writeLoop()
	s.readLoop()
	s.close()
	s.logger.Info("Session closed")
}

// writeLoop drains sendCh and writes frames to the WebSocket.
func (s *session) writeLoop() {
	for {
		select {
		case <-s.done:
			return
		case data := <-s.sendCh:
			if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeWait)); err != nil {
				s.logger.Warn("WebSocket SetWriteDeadline error", "error", err)
				s.close()
				return
			}
			if err := s.conn.WriteMessage(ws.TextMessage, data); err != nil {
				s.logger.Warn("WebSocket write error", "error", err)
				s.close()
				return
			}
		}
	}
}

// readLoop decodes client envelopes and dispatches them one at a time.
func (s *session) readLoop() {
	s.conn.SetReadLimit(maxMessageSize)
	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			select {
			case <-s.done:
			default:
				if ws.IsUnexpectedCloseError(err, ws.CloseNormalClosure, ws.CloseGoingAway) {
					s.logger.Warn("WebSocket read error", "error", err)
				}
			}
			return
		}

		var env streaming.Envelope
		if err := json.Unmarshal(message, &env); err != nil || env.Type == "" {
			s.logger.Debug("Non-envelope message received", "raw", string(message))
			s.reply(streaming.ErrorMessage{Type: streaming.TypeError, Error: "malformed envelope"})
			continue
		}

		result, err := s.dispatcher.Dispatch(dispatcher.Event{
			Name:      env.Type,
			Payload:   env.Payload,
			Timestamp: time.Now(),
		})
		if err != nil {
			s.reply(streaming.ErrorMessage{Type: streaming.TypeError, For: env.Type, Error: err.Error()})
			continue
		}
		s.reply(streaming.AckMessage{Type: streaming.TypeAck, For: env.Type, Result: result})
	}
}

func (s *session) reply(msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("Failed to marshal reply", "error", err)
		return
	}
	s.send(data)
}

// send pushes data to the write loop. Frames are the client's only view of
// the course, so a full channel blocks for up to writeWait and then closes
// the session instead of dropping.
func (s *session) send(data []byte) {
	select {
	case <-s.done:
		return
	case s.sendCh <- data:
		return
	default:
	}

	timer := time.NewTimer(s.writeWait)
	defer timer.Stop()
	select {
	case <-s.done:
	case s.sendCh <- data:
	case <-timer.C:
		s.logger.Warn("WebSocket send channel full, closing session", "buffer", cap(s.sendCh))
		s.close()
	}
}

// close sends a WebSocket close frame and stops the write loop.
func (s *session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.conn.WriteControl(
			ws.CloseMessage,
			ws.FormatCloseMessage(ws.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		_ = s.conn.Close()
	})
}
