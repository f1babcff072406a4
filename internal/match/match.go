package match

import (
	"context"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/Suraj-070/worduel/internal/client"
	"github.com/Suraj-070/worduel/internal/engine"
	"github.com/Suraj-070/worduel/internal/sched"
	"github.com/Suraj-070/worduel/internal/words"
	"github.com/Suraj-070/worduel/pkg/types"
)

type Msg interface{ isMatchMsg() }

// Start announces the match and arms the first round.
type Start struct{}

func (Start) isMatchMsg() {}

type FromClient struct {
	ClientID string
	Req      types.RoomRequest
}

func (FromClient) isMatchMsg() {}

type Disconnect struct{ ClientID string }

func (Disconnect) isMatchMsg() {}

type Rejoin struct {
	Client   *client.Client
	Username string
}

func (Rejoin) isMatchMsg() {}

type Shutdown struct{}

func (Shutdown) isMatchMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isMatchMsg() {}

type timerFired struct{ sched.Fired }

func (timerFired) isMatchMsg() {}

type Phase string

const (
	PhaseStarting             Phase = "starting"
	PhaseInRound              Phase = "in_round"
	PhaseRoundEnd             Phase = "round_end"
	PhaseSuddenDeathCountdown Phase = "sudden_death_countdown"
	PhaseSuddenDeath          Phase = "sudden_death"
	PhaseConcluded            Phase = "concluded"
)

type Outcome string

const (
	OutcomeWinner      Outcome = "winner"
	OutcomeSuddenDeath Outcome = "sudden_death"
	OutcomeDraw        Outcome = "draw"
	OutcomeForfeit     Outcome = "forfeit"
	OutcomeAborted     Outcome = "aborted"
)

type Words interface {
	PickRandom(length int) words.Entry
	IsValidGuess(word string) bool
}

type Timings struct {
	StartDelay           time.Duration
	RoundEndDelay        time.Duration
	RoundSlack           time.Duration
	Tick                 time.Duration
	Grace                time.Duration
	SuddenDeathCountdown time.Duration
	SuddenDeathCap       time.Duration
}

func DefaultTimings() Timings {
	return Timings{
		StartDelay:           3 * time.Second,
		RoundEndDelay:        5 * time.Second,
		RoundSlack:           3 * time.Second,
		Tick:                 time.Second,
		Grace:                30 * time.Second,
		SuddenDeathCountdown: 10 * time.Second,
		SuddenDeathCap:       engine.SuddenDeathConfig.TimeLimit,
	}
}

func (t Timings) ticks(d time.Duration) int {
	if t.Tick <= 0 {
		return 0
	}
	return int(d / t.Tick)
}

// Hooks are called from the match goroutine and must not block.
type Hooks struct {
	OnEnd          func(Result)
	OnRebind       func(roomID, playerID, oldClientID, newClientID string)
	// OnRejoinFailed, when set, owns telling c why its rejoin was refused.
	OnRejoinFailed func(roomID string, c *client.Client, reason string)
}

type Participant struct {
	Player types.Player
	Client *client.Client
}

type Config struct {
	ID           string
	Participants []Participant
	Private      bool
	Words        Words
	Timings      Timings
	Hooks        Hooks
	Logger       *zap.Logger
	Now          func() time.Time
	Rand         engine.Rand
}

type SeatResult struct {
	Player   types.Player
	ClientID string
	Score    int
	Online   bool
}

type Result struct {
	RoomID      string
	Private     bool
	Outcome     Outcome
	Winner      *types.Player
	Seats       []SeatResult
	Rounds      int
	SuddenDeath bool
	EndedAt     time.Time
}

type SeatView struct {
	Player       types.Player
	ClientID     string
	Score        int
	Streak       int
	Disconnected bool
	GraceLeft    int
}

type View struct {
	ID            string
	Phase         Phase
	Round         int
	TotalRounds   int
	Seats         []SeatView
	Word          string
	Hint          string
	Letters       []string
	RoundPhase    engine.Phase
	Guesses       map[string][]engine.GuessRecord
	Finished      map[string]bool
	HintUsed      map[string]bool
	SuddenDeath   []string
	PendingTimers int
}

// seat is the single per-player record: score, streak and presence live
// here, keyed by the logical player id, so a reconnect only swaps client.
type seat struct {
	types.Player
	client       *client.Client
	score        int
	streak       int
	disconnected bool
	graceLeft    int
}

type Match struct {
	id      string
	private bool
	inbox   chan Msg
	ctx     context.Context
	cancel  context.CancelFunc

	seats       []*seat
	phase       Phase
	roundIndex  int
	totalRounds int
	round       *engine.Round
	tied        []engine.PlayerID
	sdLeft      int
	sdPlayed    bool

	words   Words
	timings Timings
	timers  *sched.Timers
	hooks   Hooks
	now     func() time.Time
	rand    engine.Rand
	log     *zap.Logger
}

func New(parent context.Context, cfg Config) *Match {
	ctx, cancel := context.WithCancel(parent)

	m := &Match{
		id:          cfg.ID,
		private:     cfg.Private,
		inbox:       make(chan Msg, 64),
		ctx:         ctx,
		cancel:      cancel,
		phase:       PhaseStarting,
		totalRounds: engine.TotalRounds,
		words:       cfg.Words,
		timings:     cfg.Timings,
		hooks:       cfg.Hooks,
		now:         cfg.Now,
		rand:        cfg.Rand,
		log:         cfg.Logger,
	}
	if m.timings == (Timings{}) {
		m.timings = DefaultTimings()
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.rand == nil {
		m.rand = engine.DefaultRand
	}
	if m.log == nil {
		m.log = zap.NewNop()
	}
	m.log = m.log.With(zap.String("room", m.id))
	for _, p := range cfg.Participants {
		m.seats = append(m.seats, &seat{Player: p.Player, client: p.Client})
	}
	m.timers = sched.New(func(f sched.Fired) { m.Send(timerFired{f}) })

	go m.loop()
	return m
}

func (m *Match) ID() string { return m.id }

// Expose the inbox so tests or the hub can send messages.
func (m *Match) Inbox() chan<- Msg { return m.inbox }

// Done is closed once the match has concluded or been shut down.
func (m *Match) Done() <-chan struct{} { return m.ctx.Done() }

// Send delivers msg unless the match has already stopped.
func (m *Match) Send(msg Msg) bool {
	if m.ctx.Err() != nil {
		return false
	}
	select {
	case m.inbox <- msg:
		return true
	case <-m.ctx.Done():
		return false
	}
}

func (m *Match) loop() {
	for {
		select {
		case <-m.ctx.Done():
			m.timers.CancelAll()
			return

		case msg := <-m.inbox:
			m.dispatch(msg)
		}
	}
}

// dispatch runs one message to completion. A panic aborts this match only.
func (m *Match) dispatch(msg Msg) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("match handler panicked", zap.Any("panic", r), zap.Stack("stack"))
			m.broadcast(types.EvtError, types.ErrorMessage{Message: "Match aborted due to a server error."})
			m.conclude(OutcomeAborted, nil)
		}
	}()

	// Messages already queued when the match concluded are dropped.
	if m.phase == PhaseConcluded {
		return
	}

	switch msg := msg.(type) {
	case Start:
		m.start()

	case FromClient:
		m.fromClient(msg)

	case Disconnect:
		m.disconnect(msg.ClientID)

	case Rejoin:
		m.rejoin(msg.Client, msg.Username)

	case timerFired:
		if m.timers.Take(msg.Fired) {
			m.fire(msg.Key)
		}

	case GetState:
		// test-only: reflect internal state without data races
		msg.Reply <- m.view()

	case Shutdown:
		m.timers.CancelAll()
		m.cancel()
	}
}

func (m *Match) start() {
	if m.phase != PhaseStarting || m.timers.Pending(keyAdvance) {
		return
	}
	players := m.players()
	for _, s := range m.seats {
		s.client.Send(types.EvtMatchFound, types.MatchFound{
			RoomID:      m.id,
			Players:     players,
			TotalRounds: m.totalRounds,
			IsPrivate:   m.private,
			YouID:       s.ID,
		})
	}
	m.log.Info("match started", zap.Int("players", len(m.seats)), zap.Bool("private", m.private))
	m.timers.After(keyAdvance, m.timings.StartDelay)
}

const (
	keyAdvance     = "advance"
	keyDeadline    = "deadline"
	keySuddenTick  = "sudden-death-tick"
	keySuddenCap   = "sudden-death-cap"
	keyGracePrefix = "grace:"
)

func (m *Match) fire(key string) {
	switch {
	case key == keyAdvance:
		m.advance()
	case key == keyDeadline:
		m.expireRound()
	case key == keySuddenTick:
		m.suddenDeathTick()
	case key == keySuddenCap:
		m.suddenDeathTimeout()
	case len(key) > len(keyGracePrefix) && key[:len(keyGracePrefix)] == keyGracePrefix:
		m.graceTick(engine.PlayerID(key[len(keyGracePrefix):]))
	}
}

func (m *Match) conclude(outcome Outcome, winner *types.Player) {
	if m.phase == PhaseConcluded {
		return
	}
	m.phase = PhaseConcluded
	m.timers.CancelAll()

	res := Result{
		RoomID:      m.id,
		Private:     m.private,
		Outcome:     outcome,
		Winner:      winner,
		Rounds:      m.roundIndex,
		SuddenDeath: m.sdPlayed,
		EndedAt:     m.now(),
	}
	for _, s := range m.seats {
		sr := SeatResult{Player: s.Player, Score: s.score, Online: !s.disconnected}
		if s.client != nil {
			sr.ClientID = s.client.ID
		}
		res.Seats = append(res.Seats, sr)
	}

	fields := []zap.Field{zap.String("outcome", string(outcome)), zap.Int("rounds", m.roundIndex)}
	if winner != nil {
		fields = append(fields, zap.String("winner", winner.Username))
	}
	m.log.Info("match concluded", fields...)

	if m.hooks.OnEnd != nil {
		m.hooks.OnEnd(res)
	}
	m.cancel()
}

func (m *Match) seatByClient(clientID string) *seat {
	for _, s := range m.seats {
		if s.client != nil && !s.disconnected && s.client.ID == clientID {
			return s
		}
	}
	return nil
}

func (m *Match) seatByID(id engine.PlayerID) *seat {
	for _, s := range m.seats {
		if s.ID == string(id) {
			return s
		}
	}
	return nil
}

// seatByUsername prefers a seat that is away, so a rejoin never takes over
// a live seat while a namesake is waiting out its grace period.
func (m *Match) seatByUsername(username string) *seat {
	username = types.NormalizeUsername(username)
	var live *seat
	for _, s := range m.seats {
		if s.Username != username {
			continue
		}
		if s.disconnected {
			return s
		}
		if live == nil {
			live = s
		}
	}
	return live
}

func (m *Match) players() []types.Player {
	return lo.Map(m.seats, func(s *seat, _ int) types.Player { return s.Player })
}

func (m *Match) playerIDs() []engine.PlayerID {
	return lo.Map(m.seats, func(s *seat, _ int) engine.PlayerID { return engine.PlayerID(s.ID) })
}

func (m *Match) scores() types.Scores {
	out := make(types.Scores, len(m.seats))
	for _, s := range m.seats {
		out[s.ID] = s.score
	}
	return out
}

func (m *Match) streaks() types.Scores {
	out := make(types.Scores, len(m.seats))
	for _, s := range m.seats {
		out[s.ID] = s.streak
	}
	return out
}

func (m *Match) broadcast(event string, data any) {
	for _, s := range m.seats {
		m.deliver(s, event, data)
	}
}

func (m *Match) broadcastExcept(skip *seat, event string, data any) {
	for _, s := range m.seats {
		if s != skip {
			m.deliver(s, event, data)
		}
	}
}

func (m *Match) deliver(s *seat, event string, data any) {
	if s.disconnected || s.client == nil {
		return
	}
	if !s.client.Send(event, data) {
		m.log.Debug("dropped push to slow client", zap.String("player", s.ID), zap.String("event", event))
	}
}

func (m *Match) view() View {
	v := View{
		ID:            m.id,
		Phase:         m.phase,
		Round:         m.roundIndex,
		TotalRounds:   m.totalRounds,
		SuddenDeath:   lo.Map(m.tied, func(id engine.PlayerID, _ int) string { return string(id) }),
		PendingTimers: m.timers.Len(),
	}
	for _, s := range m.seats {
		sv := SeatView{
			Player:       s.Player,
			Score:        s.score,
			Streak:       s.streak,
			Disconnected: s.disconnected,
			GraceLeft:    s.graceLeft,
		}
		if s.client != nil {
			sv.ClientID = s.client.ID
		}
		v.Seats = append(v.Seats, sv)
	}
	if r := m.round; r != nil {
		v.Word = r.Word
		v.Hint = r.Hint
		v.Letters = append([]string(nil), r.Letters...)
		v.RoundPhase = r.Phase
		v.Guesses = make(map[string][]engine.GuessRecord, len(r.Players))
		v.Finished = make(map[string]bool, len(r.Players))
		v.HintUsed = make(map[string]bool, len(r.Players))
		for id, pr := range r.Players {
			v.Guesses[string(id)] = append([]engine.GuessRecord(nil), pr.Guesses...)
			v.Finished[string(id)] = pr.Finished
			v.HintUsed[string(id)] = pr.HintUsed
		}
	}
	return v
}
