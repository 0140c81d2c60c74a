package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/http"
	"sort"

	"github.com/coder/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/peterkuimelis/gloomdeck/internal/combat"
	gloomnet "github.com/peterkuimelis/gloomdeck/internal/net"
)

//go:embed static
var staticFiles embed.FS

// CardInfo is the JSON representation of a card for the /api/cards endpoint.
type CardInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CardType    string `json:"cardType"`
	Speed       string `json:"speed,omitempty"`
	Targeting   string `json:"targeting,omitempty"`
	Cooldown    int    `json:"cooldown,omitempty"`
	Duration    int    `json:"duration,omitempty"`
	Exhausts    bool   `json:"exhausts,omitempty"`
	Slot        string `json:"slot,omitempty"`
	Rarity      string `json:"rarity,omitempty"`
	Veiled      bool   `json:"veiled,omitempty"`
	Tags        string `json:"tags,omitempty"`
}

// EnemyInfo is the JSON representation of an enemy for the /api/cards endpoint.
type EnemyInfo struct {
	Name       string  `json:"name"`
	MaxHP      int     `json:"maxHp"`
	PowerLevel float64 `json:"powerLevel"`
}

// Catalogue is the /api/cards response.
type Catalogue struct {
	Cards   []CardInfo  `json:"cards"`
	Enemies []EnemyInfo `json:"enemies"`
}

// LoadoutInfo is the JSON representation of a loadout for the /api/loadouts endpoint.
type LoadoutInfo struct {
	Number    int      `json:"number"`
	Name      string   `json:"name"`
	HP        int      `json:"hp"`
	Actions   []string `json:"actions"`
	Equipment []string `json:"equipment"`
}

// EncounterInfo lists an encounter's enemies and events.
type EncounterInfo struct {
	Name    string   `json:"name"`
	Enemies []string `json:"enemies"`
	Events  []string `json:"events"`
}

// LoadoutsResponse is the /api/loadouts response.
type LoadoutsResponse struct {
	Loadouts   []LoadoutInfo   `json:"loadouts"`
	Encounters []EncounterInfo `json:"encounters"`
}

// Server is the gloom web UI server.
type Server struct {
	loadouts *combat.LoadoutFile
	logger   *zap.Logger
	mux      *http.ServeMux
}

// NewServer creates a new web server. A nil loadout file selects the
// built-in one.
func NewServer(lf *combat.LoadoutFile, logger *zap.Logger) (*Server, error) {
	if lf == nil {
		lf = combat.DefaultLoadoutFile()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		loadouts: lf,
		logger:   logger,
		mux:      http.NewServeMux(),
	}
	if err := s.setupRoutes(); err != nil {
		return nil, err
	}
	return s, nil
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) setupRoutes() error {
	// Embedded static files
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return fmt.Errorf("static files: %w", err)
	}

	// Serve index.html at root
	s.mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		f, err := staticFS.Open("index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()
		io.Copy(w, f.(io.Reader))
	})

	// Static CSS/JS
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// API endpoints
	s.mux.HandleFunc("GET /api/cards", s.handleCards)
	s.mux.HandleFunc("GET /api/loadouts", s.handleLoadouts)

	// WebSocket proxy
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
	return nil
}

// BuildCatalogue lists every registered card and enemy, sorted by name.
func BuildCatalogue() Catalogue {
	var cat Catalogue
	for _, name := range combat.ActionNames() {
		a := combat.LookupAction(name)
		cat.Cards = append(cat.Cards, CardInfo{
			Name:        name,
			Description: a.Description,
			CardType:    a.Type().String(),
			Speed:       a.Speed.String(),
			Targeting:   a.Targeting.String(),
			Cooldown:    a.CooldownRounds,
			Duration:    a.DurationTurns,
			Exhausts:    a.Exhausts == combat.ExhaustEncounter,
		})
	}
	for _, name := range combat.EquipmentNames() {
		eq := combat.LookupEquipment(name)
		cat.Cards = append(cat.Cards, CardInfo{
			Name:        name,
			Description: eq.Description,
			CardType:    eq.Type().String(),
			Slot:        eq.Slot.String(),
			Rarity:      eq.Rarity.String(),
			Veiled:      eq.Veiled,
		})
	}
	for _, name := range combat.EventNames() {
		ev := combat.LookupEvent(name, nil)
		cat.Cards = append(cat.Cards, CardInfo{
			Name:        name,
			Description: ev.Description,
			CardType:    ev.Type().String(),
			Tags:        ev.Tags.String(),
		})
	}
	for _, name := range combat.EnemyNames() {
		e := combat.LookupEnemy(name, 0)
		cat.Enemies = append(cat.Enemies, EnemyInfo{
			Name:       name,
			MaxHP:      e.MaxHP(),
			PowerLevel: e.PowerLevel,
		})
	}
	return cat
}

// BuildLoadouts describes the numbered loadouts and the encounters of lf.
func BuildLoadouts(lf *combat.LoadoutFile) LoadoutsResponse {
	resp := LoadoutsResponse{
		Loadouts:   []LoadoutInfo{},
		Encounters: []EncounterInfo{},
	}
	for i, l := range lf.Loadouts {
		li := LoadoutInfo{
			Number:    i + 1,
			Name:      l.Name,
			HP:        l.HP,
			Equipment: l.Equipment,
		}
		// Unique card names for display
		seen := make(map[string]bool)
		for _, c := range l.Actions {
			if !seen[c.Name] {
				li.Actions = append(li.Actions, c.Name)
				seen[c.Name] = true
			}
		}
		sort.Strings(li.Actions)
		resp.Loadouts = append(resp.Loadouts, li)
	}
	for _, e := range lf.Encounters {
		ei := EncounterInfo{Name: e.Name, Events: e.Events}
		for _, en := range e.Enemies {
			ei.Enemies = append(ei.Enemies, en.Name)
		}
		resp.Encounters = append(resp.Encounters, ei)
	}
	return resp
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, BuildCatalogue())
}

func (s *Server) handleLoadouts(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, BuildLoadouts(s.loadouts))
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode response", zap.Error(err))
	}
}

// connectMessage is the first message a browser sends on /ws.
type connectMessage struct {
	Type          string `json:"type"`
	Addr          string `json:"addr"`
	LoadoutNumber int    `json:"loadout_number"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		s.logger.Warn("websocket accept", zap.Error(err))
		return
	}
	defer wsConn.CloseNow()

	ctx := r.Context()

	// Read initial connect message from browser
	_, connectData, err := wsConn.Read(ctx)
	if err != nil {
		s.logger.Debug("websocket read connect", zap.Error(err))
		return
	}

	var connectMsg connectMessage
	if err := json.Unmarshal(connectData, &connectMsg); err != nil || connectMsg.Type != "connect" {
		wsConn.Close(websocket.StatusPolicyViolation, "expected connect message")
		return
	}

	// Open TCP connection to the encounter host
	var d net.Dialer
	tcpConn, err := d.DialContext(ctx, "tcp", connectMsg.Addr)
	if err != nil {
		errMsg, _ := json.Marshal(gloomnet.ServerMessage{
			Type:   "error",
			Result: fmt.Sprintf("Could not connect to encounter host at %s: %v", connectMsg.Addr, err),
		})
		wsConn.Write(ctx, websocket.MessageText, errMsg)
		wsConn.Close(websocket.StatusNormalClosure, "connection failed")
		return
	}
	defer tcpConn.Close()

	// Send join message over TCP
	if err := json.NewEncoder(tcpConn).Encode(gloomnet.ClientMessage{
		Type:          "join",
		LoadoutNumber: connectMsg.LoadoutNumber,
	}); err != nil {
		s.logger.Warn("tcp write join", zap.Error(err))
		return
	}
	s.logger.Info("browser joined encounter",
		zap.String("addr", connectMsg.Addr),
		zap.Int("loadout", connectMsg.LoadoutNumber))

	if err := proxy(ctx, wsConn, tcpConn); err != nil {
		s.logger.Debug("proxy closed", zap.Error(err))
	}
	wsConn.Close(websocket.StatusNormalClosure, "encounter ended")
}

// proxy copies newline-delimited JSON between the TCP connection and the
// browser until the host closes the connection.
func proxy(ctx context.Context, ws *websocket.Conn, tcpConn net.Conn) error {
	g, gctx := errgroup.WithContext(ctx)
	stop := context.AfterFunc(gctx, func() { tcpConn.Close() })
	defer stop()

	// TCP → WebSocket (server messages to browser)
	g.Go(func() error {
		dec := json.NewDecoder(tcpConn)
		for {
			var msg json.RawMessage
			if err := dec.Decode(&msg); err != nil {
				if errors.Is(err, io.EOF) {
					return errHostClosed
				}
				return fmt.Errorf("tcp read: %w", err)
			}
			if err := ws.Write(gctx, websocket.MessageText, msg); err != nil {
				return fmt.Errorf("websocket write: %w", err)
			}
		}
	})

	// WebSocket → TCP (browser responses to server)
	g.Go(func() error {
		for {
			_, data, err := ws.Read(gctx)
			if err != nil {
				return fmt.Errorf("websocket read: %w", err)
			}
			data = append(data, '\n')
			if _, err := tcpConn.Write(data); err != nil {
				return fmt.Errorf("tcp write: %w", err)
			}
		}
	})

	err := g.Wait()
	if errors.Is(err, errHostClosed) {
		return nil
	}
	return err
}

var errHostClosed = errors.New("host closed connection")

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}
