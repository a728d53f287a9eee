package poker

// ClientState is the per-recipient table snapshot broadcast after every
// applied event. It carries the recipient's own hole cards only; every
// other seat appears through its public view. The derived betting fields
// are computed relative to the recipient.
type ClientState struct {
	PlayerID     int64            `protobuf:"1"`
	LobbyID      int64            `protobuf:"2"`
	CurrPlayerID *int64           `protobuf:"3"`
	ButtonID     *int64           `protobuf:"4"`
	SmallBlindID *int64           `protobuf:"5"`
	BigBlindID   *int64           `protobuf:"6"`
	Cards        *CardPair        `protobuf:"7"`
	Street       *Street          `protobuf:"8"`
	GameStatus   GameStatus       `protobuf:"9"`
	Players      []*Player        `protobuf:"10"`
	Showdown     *ShowdownOutcome `protobuf:"11"`
	AmountToCall *int64           `protobuf:"12"`
	MinRaiseTo   *int64           `protobuf:"13"`
	CanRaise     *bool            `protobuf:"14"`
	History      []*Action        `protobuf:"15"`
	Pot          int64            `protobuf:"16"`
	BigBlind     int64            `protobuf:"17"`
}

// ClientStateFor builds the snapshot for one recipient.
func (d *Dealer) ClientStateFor(gs *GameState, ps *PlayerState, recipient *Player) *ClientState {
	cs := &ClientState{
		PlayerID:   recipient.ID,
		LobbyID:    d.lobbyID,
		GameStatus: gs.Status,
		BigBlind:   gs.BigBlind,
		Pot:        gs.Pot,
	}

	for _, p := range ps.Players {
		cs.Pot += p.StreetBet
		if p.ID == recipient.ID {
			view := *p
			cs.Players = append(cs.Players, &view)
		} else {
			cs.Players = append(cs.Players, p.PublicView())
		}
	}

	cs.Street = &Street{
		Status: gs.Street.Status,
		Cards:  append([]Card(nil), gs.Street.Cards...),
	}
	cs.Cards = recipient.Cards
	cs.History = append([]*Action(nil), gs.History...)
	cs.Showdown = gs.Showdown

	cs.ButtonID = d.seatID(gs.Positions.Button, ps)
	cs.SmallBlindID = d.seatID(gs.Positions.SmallBlind, ps)
	cs.BigBlindID = d.seatID(gs.Positions.BigBlind, ps)
	cs.CurrPlayerID = d.seatID(gs.Positions.Acting, ps)

	if _, seat := ps.Find(recipient.ID); seat != noSeat && gs.Positions.Acting != noSeat {
		owed := d.ValidCallAmount(gs, ps, seat)
		minRaise := d.MinRaiseTo(gs)
		can := d.CanRaise(gs, ps, seat)
		cs.AmountToCall = &owed
		cs.MinRaiseTo = &minRaise
		cs.CanRaise = &can
	}
	return cs
}

// CreateClientStates builds the broadcast set: one snapshot per seated,
// connected, non-bot player.
func (d *Dealer) CreateClientStates(gs *GameState, ps *PlayerState) []*ClientState {
	states := make([]*ClientState, 0, ps.Len())
	for _, p := range ps.Players {
		if p.IsBot || p.Status == StatusDisconnected {
			continue
		}
		states = append(states, d.ClientStateFor(gs, ps, p))
	}
	return states
}

func (d *Dealer) seatID(seat int, ps *PlayerState) *int64 {
	if seat == noSeat || seat >= ps.Len() {
		return nil
	}
	id := ps.Players[seat].ID
	return &id
}
