package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/san-kum/orbitsim/internal/control"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/experiment"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 25 * time.Second
	sendBuffer = 16
)

type Options struct {
	// Interval is the wall-clock period of the simulation loop.
	Interval time.Duration
	// TimeScale is simulated seconds per real second.
	TimeScale float64
	// CommandRate and CommandBurst bound the actions a single client may send.
	CommandRate  rate.Limit
	CommandBurst int
}

func DefaultOptions() Options {
	return Options{
		Interval:     time.Second / 60,
		TimeScale:    1,
		CommandRate:  10,
		CommandBurst: 5,
	}
}

// Command is what a client sends.
type Command struct {
	Action string `json:"action"`
}

// Message is what the server sends. Frame is set for "frame" messages,
// Error for "error".
type Message struct {
	Type  string        `json:"type"`
	Frame *dynamo.Frame `json:"frame,omitempty"`
	Error string        `json:"error,omitempty"`
}

type client struct {
	conn    *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter
}

// Server advances an experiment in real time and feeds its frames to
// websocket clients. Only Run touches the system; client actions go
// through the experiment's queue.
type Server struct {
	exp      *experiment.Experiment
	opts     Options
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

func NewServer(exp *experiment.Experiment, opts Options) *Server {
	def := DefaultOptions()
	if opts.Interval <= 0 {
		opts.Interval = def.Interval
	}
	if opts.TimeScale <= 0 {
		opts.TimeScale = def.TimeScale
	}
	if opts.CommandRate <= 0 {
		opts.CommandRate = def.CommandRate
	}
	if opts.CommandBurst <= 0 {
		opts.CommandBurst = def.CommandBurst
	}
	return &Server{
		exp:  exp,
		opts: opts,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// Run drives the simulation until ctx is done or the system goes unstable.
func (s *Server) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			return nil
		case now := <-ticker.C:
			elapsed := now.Sub(last).Seconds() * s.opts.TimeScale
			last = now

			sys := s.exp.System()
			n, err := sys.Advance(elapsed)
			if err != nil {
				s.broadcast(Message{Type: "error", Error: err.Error()})
				s.closeAll()
				return err
			}
			if n > 0 {
				f := sys.Frame()
				s.broadcast(Message{Type: "frame", Frame: &f})
			}
		}
	}
}

func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error("encode message", "err", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			// slow client, drop the frame
		}
	}
}

func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		close(c.send)
		delete(s.clients, c)
	}
}

func (s *Server) register(c *client) {
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) unregister(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; ok {
		close(c.send)
		delete(s.clients, c)
	}
}

func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(s.serveWS)
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("upgrade failed", "err", err)
		return
	}

	c := &client{
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		limiter: rate.NewLimiter(s.opts.CommandRate, s.opts.CommandBurst),
	}
	s.register(c)
	log.Debug("client connected", "remote", r.RemoteAddr)

	go s.writeLoop(c)
	s.readLoop(c)

	s.unregister(c)
	log.Debug("client disconnected", "remote", r.RemoteAddr)
}

func (s *Server) readLoop(c *client) {
	c.conn.SetReadLimit(1 << 16)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var cmd Command
		if err := c.conn.ReadJSON(&cmd); err != nil {
			return
		}
		if !c.limiter.Allow() {
			s.reply(c, Message{Type: "error", Error: "rate limit exceeded"})
			continue
		}
		action, err := control.ParseAction(cmd.Action)
		if err != nil {
			s.reply(c, Message{Type: "error", Error: err.Error()})
			continue
		}
		s.exp.Queue().Push(action)
	}
}

func (s *Server) reply(c *client, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (s *Server) writeLoop(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
