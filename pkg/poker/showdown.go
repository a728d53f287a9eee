package poker

import "sort"

// maybeFinishFoldOut awards the pot uncontested when exactly one
// non-folded seat remains. The hand evaluator is not consulted and no
// cards are revealed.
func (d *Dealer) maybeFinishFoldOut(gs *GameState, ps *PlayerState) (*UpdateResult, bool) {
	var survivor *Player
	count := 0
	for _, p := range ps.Players {
		if !p.folded() {
			survivor = p
			count++
		}
	}
	if count != 1 {
		return nil, false
	}

	d.sweepStreetBets(gs, ps)
	pot := gs.Pot
	survivor.Stack += pot
	gs.Pot = 0
	gs.Showdown = &ShowdownOutcome{
		Winners:     []Winner{{PlayerID: survivor.ID, Amount: pot}},
		Board:       append([]Card(nil), gs.Street.Cards...),
		Uncontested: true,
	}
	gs.Positions.Acting = noSeat
	d.markEliminated(ps)
	d.log.Infof("lobby %d: player %d wins %d uncontested", d.lobbyID, survivor.ID, pot)
	return &UpdateResult{HandDone: true}, true
}

// CompleteHandAutomatically deals the remaining community cards in one go
// and settles the pot. Used when fewer than two seats can still bet.
func (d *Dealer) CompleteHandAutomatically(gs *GameState, ps *PlayerState, ds *DeckState) error {
	d.sweepStreetBets(gs, ps)
	for gs.Street.Status != River {
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
		}
	}
	return d.settleShowdown(gs, ps, true)
}

// settleShowdown scores every non-folded seat, groups them into equal
// strength tiers (best first) and pays each tier until the pot is empty:
// tier members recover their own hand contribution plus an even share of
// what the pot holds beyond the tier's combined contribution. Any
// leftover chip from integer division goes to the first winner of the
// best tier so the payouts always sum to the pot.
func (d *Dealer) settleShowdown(gs *GameState, ps *PlayerState, auto bool) error {
	var eligible []*Player
	for _, p := range ps.Players {
		if !p.folded() {
			eligible = append(eligible, p)
		}
	}
	if len(eligible) == 0 {
		return protocolErrorf("lobby %d: showdown with no eligible players", d.lobbyID)
	}

	board := append([]Card(nil), gs.Street.Cards...)

	type scored struct {
		p     *Player
		score int32
	}
	ranked := make([]scored, 0, len(eligible))
	for _, p := range eligible {
		if p.Cards == nil {
			return protocolErrorf("lobby %d: player %d reached showdown without cards", d.lobbyID, p.ID)
		}
		ranked = append(ranked, scored{p: p, score: d.eval.Score(*p.Cards, board)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score < ranked[j].score
	})

	remaining := gs.Pot
	var winners []Winner
	var first *Player
	for i := 0; i < len(ranked) && remaining > 0; {
		j := i
		var tierContrib int64
		for j < len(ranked) && ranked[j].score == ranked[i].score {
			tierContrib += ranked[j].p.HandBet()
			j++
		}
		tier := ranked[i:j]

		surplus := remaining - tierContrib
		if surplus < 0 {
			surplus = 0
		}
		share := surplus / int64(len(tier))
		rem := surplus % int64(len(tier))
		for k, m := range tier {
			win := m.p.HandBet() + share
			if k == 0 {
				// Odd chip from the split goes to the tier's first
				// winner so payouts always sum to the pot.
				win += rem
			}
			if win > remaining {
				win = remaining
			}
			if win > 0 {
				m.p.Stack += win
				remaining -= win
				winners = append(winners, Winner{PlayerID: m.p.ID, Amount: win})
				if first == nil {
					first = m.p
				}
			}
		}
		i = j
	}
	if remaining > 0 && first != nil {
		first.Stack += remaining
		winners[0].Amount += remaining
		remaining = 0
	}
	gs.Pot = 0

	revealed := make([]RevealedCards, 0, len(eligible))
	for _, p := range eligible {
		revealed = append(revealed, RevealedCards{PlayerID: p.ID, Cards: p.Cards})
	}
	gs.Showdown = &ShowdownOutcome{
		Revealed:      revealed,
		Winners:       winners,
		Board:         board,
		AutoCompleted: auto,
	}
	gs.Positions.Acting = noSeat
	d.markEliminated(ps)
	for _, w := range winners {
		d.log.Infof("lobby %d: player %d wins %d", d.lobbyID, w.PlayerID, w.Amount)
	}
	return nil
}

// markEliminated flags every busted seat after settlement.
func (d *Dealer) markEliminated(ps *PlayerState) {
	for _, p := range ps.Players {
		if p.Stack == 0 && p.Status != StatusEliminated {
			p.Status = StatusEliminated
			d.log.Infof("lobby %d: player %d eliminated", d.lobbyID, p.ID)
		}
	}
}
