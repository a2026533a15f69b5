package rules

import "gwan-server/card"

// PlayerView is one player's state as shown to a specific viewer.
type PlayerView struct {
	Name       string                 `json:"name"`
	Hand       []card.Card            `json:"hand"`
	HandCount  int                    `json:"handCount"`
	Lanes      [LaneCount][]card.Card `json:"lanes"`
	LaneScores [LaneCount]int         `json:"laneScores"`
	Discard    []card.Card            `json:"discard"`
	Score      int                    `json:"score"`
	RoundsWon  int                    `json:"roundsWon"`
	Passed     bool                   `json:"passed"`
	Bonus      int                    `json:"bonus,omitempty"`
	Blights    []BlightSlot           `json:"blights"`
}

// View is the redacted per-viewer copy of a State handed to the transport.
type View struct {
	Viewer        int             `json:"viewer"`
	Phase         string          `json:"phase"`
	Round         int             `json:"round"`
	YourTurn      bool            `json:"yourTurn"`
	SelectBlight  bool            `json:"selectBlight"`
	DeckRemaining int             `json:"deckRemaining"`
	Weather       [LaneCount]bool `json:"weather"`
	LaneBonus     [LaneCount]int  `json:"laneBonus"`
	You           PlayerView      `json:"you"`
	Opponent      PlayerView      `json:"opponent"`
	Pending       *Pending        `json:"pending,omitempty"`
	CanUndo       bool            `json:"canUndo"`
	Rounds        []RoundOutcome  `json:"rounds"`
	Outcome       *MatchOutcome   `json:"outcome,omitempty"`
}

// Project builds viewer's view of s. The opponent's hand becomes opaque placeholders and the
// ids of their unused Blight cards are blanked; lanes, discard piles, scores and weather stay
// visible to both players.
func Project(s State, viewer int, canUndo bool) View {
	opp := 1 - viewer
	v := View{
		Viewer:        viewer,
		Phase:         s.Phase.String(),
		Round:         s.Round,
		DeckRemaining: s.Deck.Remaining(),
		Weather:       s.Weather,
		LaneBonus:     s.LaneBonus,
		You:           playerView(&s, viewer, false),
		Opponent:      playerView(&s, opp, true),
		Pending:       s.Pending,
		CanUndo:       canUndo,
		Rounds:        append([]RoundOutcome{}, s.Rounds...),
		Outcome:       s.Outcome,
	}
	switch s.Phase {
	case PhaseBlightSelection:
		v.SelectBlight = s.Selecting == viewer
	case PhaseInRound:
		v.YourTurn = s.Turn == viewer
		if s.Pending != nil && s.Pending.Kind == AwaitBlightSelection {
			v.SelectBlight = s.Pending.Player == viewer
		}
	}
	return v
}

func playerView(s *State, player int, redact bool) PlayerView {
	p := &s.Players[player]
	pv := PlayerView{
		Name:      p.Name,
		HandCount: len(p.Hand),
		Discard:   append([]card.Card{}, p.Discard...),
		Score:     p.Score,
		RoundsWon: p.RoundsWon,
		Passed:    p.Passed,
		Bonus:     p.Bonus,
		Blights:   append([]BlightSlot{}, p.Blights...),
	}
	for l := range p.Lanes {
		pv.Lanes[l] = append([]card.Card{}, p.Lanes[l]...)
		pv.LaneScores[l] = LaneScore(p.Lanes[l], s.Weather[l], s.LaneBonus[l])
	}
	if !redact {
		pv.Hand = append([]card.Card{}, p.Hand...)
		return pv
	}
	pv.Hand = make([]card.Card, len(p.Hand))
	for i := range pv.Hand {
		pv.Hand[i] = card.Placeholder()
	}
	for i := range pv.Blights {
		if !pv.Blights[i].Used {
			pv.Blights[i].ID = ""
		}
	}
	return pv
}
