package poker

import (
	"math/rand"

	"github.com/decred/slog"
)

// Dealer is the betting engine of one table: pure state-transition logic
// over the roster, betting state and deck. It never blocks and never
// touches the network; the run loop feeds it one decoded event at a time.
type Dealer struct {
	lobbyID int64
	log     slog.Logger
	eval    Evaluator
	rng     *rand.Rand
}

// NewDealer creates the betting engine for one lobby. The rng seeds every
// shuffle; pass a fixed-seed rng for deterministic tests.
func NewDealer(lobbyID int64, log slog.Logger, eval Evaluator, rng *rand.Rand) *Dealer {
	return &Dealer{
		lobbyID: lobbyID,
		log:     log,
		eval:    eval,
		rng:     rng,
	}
}

// UpdateResult reports what a state transition did.
type UpdateResult struct {
	// Rejected is the sentinel error of a refused user action. The
	// table state is untouched and the acting seat stays on turn.
	Rejected error
	// HandDone is set when the hand resolved (showdown or fold-out)
	// and the showdown outcome is pending broadcast.
	HandDone bool
	// AutoCompleted is set alongside HandDone when the board was dealt
	// out without further betting.
	AutoCompleted bool
}

// StartNewGame activates the table and runs the first hand setup with a
// random button seat. The returned autoComplete is set when blinds alone
// already ended the betting (all short stacks), in which case the caller
// must follow up with CompleteHandAutomatically.
func (d *Dealer) StartNewGame(gs *GameState, ps *PlayerState, ds *DeckState) (autoComplete bool, err error) {
	if gs.Status == GameActive {
		return false, protocolErrorf("lobby %d: game already active", d.lobbyID)
	}
	if ps.Len() < 2 {
		return false, protocolErrorf("lobby %d: cannot start with %d players", d.lobbyID, ps.Len())
	}
	for _, p := range ps.Players {
		p.Status = StatusReady
	}
	gs.Status = GameActive
	d.log.Infof("lobby %d: game started with %d players", d.lobbyID, ps.Len())
	return d.startHand(gs, ps, ds, d.rng.Intn(ps.Len()))
}

// SetupNextHand prunes eliminated and disconnected seats, rotates the
// button by one live seat and deals the next hand. started is false when
// fewer than two seats remain, in which case the table reverts to
// waiting.
func (d *Dealer) SetupNextHand(gs *GameState, ps *PlayerState, ds *DeckState) (started, autoComplete bool, err error) {
	oldButton := gs.Positions.Button
	n := ps.Len()

	// Resolve the next button occupant before pruning shifts indices:
	// the first surviving seat after the old button, wrapping.
	var buttonPlayer *Player
	if oldButton != noSeat && n > 0 {
		for i := 1; i <= n; i++ {
			cand := ps.Players[(oldButton+i)%n]
			if cand.Status != StatusEliminated && cand.Status != StatusDisconnected {
				buttonPlayer = cand
				break
			}
		}
	}

	kept := make([]*Player, 0, n)
	for _, p := range ps.Players {
		if p.Status == StatusEliminated || p.Status == StatusDisconnected {
			d.log.Infof("lobby %d: removing player %d (%s)", d.lobbyID, p.ID, p.Status)
			continue
		}
		kept = append(kept, p)
	}
	ps.Players = kept

	if len(kept) < 2 {
		d.log.Infof("lobby %d: %d players left, back to waiting", d.lobbyID, len(kept))
		gs.Status = GameWaitingForPlayers
		gs.Positions = unsetPositions()
		gs.Showdown = nil
		return false, false, nil
	}

	button := 0
	if buttonPlayer != nil {
		if _, seat := ps.Find(buttonPlayer.ID); seat != noSeat {
			button = seat
		}
	}
	autoComplete, err = d.startHand(gs, ps, ds, button)
	return err == nil, autoComplete, err
}

// startHand resets all per-hand state, deals hole cards, assigns key
// positions for the given button seat and posts blinds.
func (d *Dealer) startHand(gs *GameState, ps *PlayerState, ds *DeckState, button int) (bool, error) {
	gs.Street = Street{Status: Preflop, Cards: make([]Card, 0, 5)}
	gs.Pot = 0
	gs.RaiseIncrement = 0
	gs.Aggressor = noSeat
	gs.History = nil
	gs.Showdown = nil
	ds.Reset(d.rng)

	for _, p := range ps.Players {
		p.resetForNewHand()
	}
	for _, p := range ps.Players {
		first, ok1 := ds.Deck.Draw()
		second, ok2 := ds.Deck.Draw()
		if !ok1 || !ok2 {
			return false, protocolErrorf("lobby %d: deck exhausted while dealing hole cards", d.lobbyID)
		}
		p.Cards = &CardPair{First: first, Second: second}
	}

	gs.Positions = keyPositions(button, ps.Len())
	d.postBlind(gs, ps, gs.Positions.SmallBlind, gs.BigBlind/2)
	d.postBlind(gs, ps, gs.Positions.BigBlind, gs.BigBlind)
	gs.BiggestBet = gs.BigBlind

	d.log.Debugf("lobby %d: new hand, button seat %d, acting seat %d",
		d.lobbyID, gs.Positions.Button, gs.Positions.Acting)
	return d.shouldAutoComplete(ps), nil
}

// keyPositions assigns the per-hand seat pointers. Heads-up the button is
// the small blind and acts first preflop; with more seats the blinds sit
// after the button and the seat after the big blind opens.
func keyPositions(button, n int) KeyPositions {
	if n == 2 {
		return KeyPositions{
			Button:     button,
			SmallBlind: button,
			BigBlind:   (button + 1) % n,
			Acting:     button,
		}
	}
	return KeyPositions{
		Button:     button,
		SmallBlind: (button + 1) % n,
		BigBlind:   (button + 2) % n,
		Acting:     (button + 3) % n,
	}
}

// postBlind commits min(size, stack) for the seat, so short stacks post
// all-in.
func (d *Dealer) postBlind(gs *GameState, ps *PlayerState, seat int, size int64) {
	p := ps.Players[seat]
	if size > p.Stack {
		size = p.Stack
	}
	p.commit(size)
	d.recordAction(gs, p, ActionBlind, size)
}

func (d *Dealer) recordAction(gs *GameState, p *Player, t ActionType, amount int64) {
	act := &Action{Type: t, Amount: amount, PlayerID: p.ID, Street: gs.Street.Status}
	p.LastAction = act
	gs.History = append(gs.History, act)
}

// UpdateGameState validates and applies one player action. User-level
// illegal actions come back in UpdateResult.Rejected with no state
// mutation; the returned error is reserved for protocol violations that
// must abort the table.
func (d *Dealer) UpdateGameState(req *ActionRequest, gs *GameState, ps *PlayerState, ds *DeckState) (*UpdateResult, error) {
	if req == nil || req.Action == nil {
		return nil, protocolErrorf("lobby %d: malformed action request", d.lobbyID)
	}
	if req.LobbyID != d.lobbyID {
		return nil, protocolErrorf("lobby %d: action addressed to lobby %d", d.lobbyID, req.LobbyID)
	}
	p, seat := ps.Find(req.PlayerID)
	if p == nil {
		return nil, protocolErrorf("lobby %d: action from unknown player %d", d.lobbyID, req.PlayerID)
	}
	if gs.Status != GameActive {
		return d.reject(p, req.Action, ErrGameNotActive), nil
	}
	if seat != gs.Positions.Acting {
		return d.reject(p, req.Action, ErrNotYourTurn), nil
	}

	var rejected error
	switch req.Action.Type {
	case ActionFold:
		rejected = d.applyFold(gs, p)
	case ActionCheck:
		rejected = d.applyCheck(gs, ps, p, seat, req.Action.Amount)
	case ActionCall:
		rejected = d.applyCall(gs, ps, p, seat, req.Action.Amount)
	case ActionRaise:
		rejected = d.applyRaise(gs, ps, p, seat, req.Action.Amount)
	case ActionBlind:
		rejected = ErrInvalidAction
	default:
		return nil, protocolErrorf("lobby %d: unknown action type %d from player %d",
			d.lobbyID, req.Action.Type, req.PlayerID)
	}
	if rejected != nil {
		return d.reject(p, req.Action, rejected), nil
	}
	return d.advance(gs, ps, ds)
}

func (d *Dealer) reject(p *Player, act *Action, cause error) *UpdateResult {
	d.log.Debugf("lobby %d: rejected %s(%d) from player %d: %v",
		d.lobbyID, act.Type, act.Amount, p.ID, cause)
	return &UpdateResult{Rejected: cause}
}

// ForceFold folds a seat out-of-band on disconnect or idle timeout and
// records the new status. Safe to call for any seat, on turn or not.
func (d *Dealer) ForceFold(playerID int64, status PlayerStatus, gs *GameState, ps *PlayerState, ds *DeckState) (*UpdateResult, error) {
	p, seat := ps.Find(playerID)
	if p == nil {
		return &UpdateResult{}, nil
	}
	d.log.Infof("lobby %d: forcing fold for player %d (%s)", d.lobbyID, playerID, status)
	p.Status = status
	if gs.Status != GameActive || gs.Positions.Acting == noSeat {
		// No hand in progress; the status change is enough.
		return &UpdateResult{}, nil
	}
	if p.folded() {
		return &UpdateResult{}, nil
	}
	d.recordAction(gs, p, ActionFold, 0)
	if seat == gs.Positions.Acting {
		return d.advance(gs, ps, ds)
	}
	if res, done := d.maybeFinishFoldOut(gs, ps); done {
		return res, nil
	}
	return &UpdateResult{}, nil
}

// ValidCallAmount returns the chips the seat owes to stay in: the
// difference to the aggressor's street bet (or the biggest standing bet
// when no aggressor), floored at zero and capped at the seat's stack so a
// short stack calls all-in for less.
func (d *Dealer) ValidCallAmount(gs *GameState, ps *PlayerState, seat int) int64 {
	p := ps.Players[seat]
	var owed int64
	if gs.Aggressor != noSeat {
		owed = ps.Players[gs.Aggressor].StreetBet - p.StreetBet
	} else {
		owed = gs.BiggestBet - p.StreetBet
	}
	if owed < 0 {
		owed = 0
	}
	if owed > p.Stack {
		owed = p.Stack
	}
	return owed
}

// MinRaiseTo returns the lowest legal total street bet for a raise: the
// standing bet plus the last raise size, or the opening minimum (two big
// blinds preflop, one postflop) when nobody raised yet.
func (d *Dealer) MinRaiseTo(gs *GameState) int64 {
	if gs.Aggressor != noSeat {
		return gs.BiggestBet + gs.RaiseIncrement
	}
	if gs.Street.Status == Preflop {
		return gs.BigBlind * 2
	}
	return gs.BigBlind
}

// CanRaise reports whether the seat may raise. Raising is closed only for
// seats that already acted this street once the aggressor is all-in: an
// under-sized all-in does not reopen the betting.
func (d *Dealer) CanRaise(gs *GameState, ps *PlayerState, seat int) bool {
	p := ps.Players[seat]
	if p.Stack == 0 || p.folded() {
		return false
	}
	if gs.Aggressor == noSeat {
		return true
	}
	if ps.Players[gs.Aggressor].Stack > 0 {
		return true
	}
	return p.LastAction == nil
}

func (d *Dealer) applyFold(gs *GameState, p *Player) error {
	if p.folded() {
		return ErrAlreadyFolded
	}
	d.recordAction(gs, p, ActionFold, 0)
	return nil
}

func (d *Dealer) applyCheck(gs *GameState, ps *PlayerState, p *Player, seat int, amount int64) error {
	if p.folded() {
		return ErrAlreadyFolded
	}
	if amount != 0 || d.ValidCallAmount(gs, ps, seat) != 0 {
		return ErrInvalidCheck
	}
	d.recordAction(gs, p, ActionCheck, 0)
	return nil
}

func (d *Dealer) applyCall(gs *GameState, ps *PlayerState, p *Player, seat int, amount int64) error {
	if p.folded() {
		return ErrAlreadyFolded
	}
	if amount != d.ValidCallAmount(gs, ps, seat) {
		return ErrInvalidCall
	}
	p.commit(amount)
	d.recordAction(gs, p, ActionCall, amount)
	return nil
}

// applyRaise validates a raise to the given total street bet. A raise
// below the minimum is accepted only when it is the seat's whole stack
// and still beats the standing bet.
func (d *Dealer) applyRaise(gs *GameState, ps *PlayerState, p *Player, seat int, raiseTo int64) error {
	if p.folded() {
		return ErrAlreadyFolded
	}
	if !d.CanRaise(gs, ps, seat) {
		return ErrCannotRaise
	}
	addition := raiseTo - p.StreetBet
	if addition <= 0 || addition > p.Stack {
		return ErrRaiseTooSmall
	}
	allIn := addition == p.Stack
	if raiseTo < d.MinRaiseTo(gs) && !(allIn && raiseTo > gs.BiggestBet) {
		return ErrRaiseTooSmall
	}
	p.commit(addition)
	gs.Aggressor = seat
	if raiseTo > gs.BiggestBet {
		gs.RaiseIncrement = raiseTo - gs.BiggestBet
		gs.BiggestBet = raiseTo
	}
	d.recordAction(gs, p, ActionRaise, raiseTo)
	return nil
}

// advance runs everything that follows a legal action: fold-out
// detection, round-closure detection, street advancement or showdown,
// and otherwise passing the turn to the next non-folded seat.
func (d *Dealer) advance(gs *GameState, ps *PlayerState, ds *DeckState) (*UpdateResult, error) {
	if res, done := d.maybeFinishFoldOut(gs, ps); done {
		return res, nil
	}

	acting := gs.Positions.Acting
	last, err := d.lastActiveSeat(gs, ps)
	if err != nil {
		return nil, err
	}
	if acting != last {
		next, err := d.nextActiveSeat(ps, acting)
		if err != nil {
			return nil, err
		}
		gs.Positions.Acting = next
		return &UpdateResult{}, nil
	}

	// Betting round closed.
	d.sweepStreetBets(gs, ps)
	if gs.Street.Status == River {
		if err := d.settleShowdown(gs, ps, false); err != nil {
			return nil, err
		}
		return &UpdateResult{HandDone: true}, nil
	}
	if d.shouldAutoComplete(ps) {
		if err := d.CompleteHandAutomatically(gs, ps, ds); err != nil {
			return nil, err
		}
		return &UpdateResult{HandDone: true, AutoCompleted: true}, nil
	}
	if err := d.nextStreet(gs, ps, ds); err != nil {
		return nil, err
	}
	return &UpdateResult{}, nil
}

// lastActiveSeat finds the seat whose action closes the current round:
// the seat before the aggressor, or the street default when nobody raised
// (big blind preflop, button postflop), skipping folded seats backward.
func (d *Dealer) lastActiveSeat(gs *GameState, ps *PlayerState) (int, error) {
	n := ps.Len()
	var start int
	switch {
	case gs.Aggressor != noSeat:
		start = (gs.Aggressor - 1 + n) % n
	case gs.Street.Status == Preflop:
		start = gs.Positions.BigBlind
	default:
		start = gs.Positions.Button
	}
	for i := 0; i < n; i++ {
		seat := (start - i + n) % n
		if !ps.Players[seat].folded() {
			return seat, nil
		}
	}
	return 0, protocolErrorf("lobby %d: no active seat left in turn order", d.lobbyID)
}

// nextActiveSeat returns the first non-folded seat after from, wrapping.
func (d *Dealer) nextActiveSeat(ps *PlayerState, from int) (int, error) {
	n := ps.Len()
	for i := 1; i <= n; i++ {
		seat := (from + i) % n
		if !ps.Players[seat].folded() {
			return seat, nil
		}
	}
	return 0, protocolErrorf("lobby %d: no eligible next seat from %d", d.lobbyID, from)
}

// sweepStreetBets moves all standing street bets into the pot.
func (d *Dealer) sweepStreetBets(gs *GameState, ps *PlayerState) {
	for _, p := range ps.Players {
		gs.Pot += p.StreetBet
		p.StreetBet = 0
	}
}

// nextStreet opens the following betting round: resets the street betting
// state, deals the community cards and hands the turn to the first
// non-folded seat after the button.
func (d *Dealer) nextStreet(gs *GameState, ps *PlayerState, ds *DeckState) error {
	gs.BiggestBet = 0
	gs.RaiseIncrement = 0
	gs.Aggressor = noSeat
	for _, p := range ps.Players {
		if !p.folded() {
			p.LastAction = nil
		}
	}

	switch gs.Street.Status {
	case Preflop:
		if err := d.dealCommunity(gs, ds, 3); err != nil {
			return err
		}
		gs.Street.Status = Flop
	case Flop:
		if err := d.dealCommunity(gs, ds, 1); err != nil {
			return err
		}
		gs.Street.Status = Turn
	case Turn:
		if err := d.dealCommunity(gs, ds, 1); err != nil {
			return err
		}
		gs.Street.Status = River
	default:
		return protocolErrorf("lobby %d: cannot advance past %s", d.lobbyID, gs.Street.Status)
	}

	next, err := d.nextActiveSeat(ps, gs.Positions.Button)
	if err != nil {
		return err
	}
	gs.Positions.Acting = next
	d.log.Debugf("lobby %d: %s, acting seat %d", d.lobbyID, gs.Street.Status, next)
	return nil
}

func (d *Dealer) dealCommunity(gs *GameState, ds *DeckState, count int) error {
	for i := 0; i < count; i++ {
		card, ok := ds.Deck.Draw()
		if !ok {
			return protocolErrorf("lobby %d: deck exhausted while dealing the board", d.lobbyID)
		}
		gs.Street.Cards = append(gs.Street.Cards, card)
	}
	return nil
}

// shouldAutoComplete reports whether betting became pointless: fewer than
// two seats keep both a live hand and chips behind.
func (d *Dealer) shouldAutoComplete(ps *PlayerState) bool {
	n := 0
	for _, p := range ps.Players {
		if !p.folded() && p.Stack > 0 {
			n++
		}
	}
	return n < 2
}

// CurrentPlayer returns the seat on turn, or nil when no hand is in
// progress.
func (d *Dealer) CurrentPlayer(gs *GameState, ps *PlayerState) *Player {
	if gs.Positions.Acting == noSeat || gs.Positions.Acting >= ps.Len() {
		return nil
	}
	return ps.Players[gs.Positions.Acting]
}

// AddPlayer seats a new player or reactivates a returning one. Callers
// must apply joins only between hands; seat indices are frozen while a
// hand runs.
func (d *Dealer) AddPlayer(gs *GameState, ps *PlayerState, id int64, name string, isBot bool, stack int64) *Player {
	if p, _ := ps.Find(id); p != nil {
		d.log.Debugf("lobby %d: player %d rejoined", d.lobbyID, id)
		p.Status = StatusReady
		return p
	}
	p := NewPlayer(id, name, isBot, stack)
	if gs.Status != GameWaitingForPlayers {
		p.Status = StatusReady
	}
	ps.Add(p)
	d.log.Infof("lobby %d: seated player %d (%s), %d seats", d.lobbyID, id, name, ps.Len())
	return p
}

// LobbyID returns the lobby this dealer serves.
func (d *Dealer) LobbyID() int64 {
	return d.lobbyID
}
