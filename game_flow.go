package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

func (r *Room) handleStartGame(s *session, rawSettings json.RawMessage) {
	if !resolveHostAuthority(s.id, r.state, r.sessions) {
		s.sendError("Only the host can start the game")
		return
	}
	if r.state.Phase != PhaseLobby {
		s.sendError("Game already in progress")
		return
	}
	if len(r.state.Players) < 2 {
		s.sendError("Need at least 2 players to start")
		return
	}

	settings := GameSettings{}
	if len(rawSettings) > 0 {
		if err := json.Unmarshal(rawSettings, &settings); err != nil {
			s.sendError("Invalid game settings")
			return
		}
	}
	r.state.Settings = settings

	r.state.Phase = PhaseNight
	r.state.Day = 1
	r.state.Winner = ""
	r.state.RoleVoting.clear()
	r.state.DayVotes = nil
	r.state.GameLog = nil
	r.state.log(fmt.Sprintf("Game started with %d players", len(r.state.Players)))
	assignRoles(r.state, r.cfg.AngelDefaultMin)
	r.state.log("Night 1 begins. Special roles, make your choices.")

	if !r.persist(s) {
		return
	}
	log.Printf("room %s: game started with %d players (%s)",
		r.id, len(r.state.Players), roleDistribution(r.state.Players))

	r.sendRolesToPlayers()
	r.broadcastGameState()
	r.broadcastNightActionUpdate()
}

// sendRolesToPlayers delivers each bound player their private assignment.
func (r *Room) sendRolesToPlayers() {
	for _, p := range r.state.Players {
		if sess := r.sessions.get(p.SessionID); sess != nil {
			sess.sendJSON(roleAssignedPayload(r.state, p))
		}
	}
}

// broadcastNightActionUpdate refreshes each special-role player's night
// panel: rolemates, live targets, and only their own group's ballot.
func (r *Room) broadcastNightActionUpdate() {
	if r.state.Phase != PhaseNight {
		return
	}
	alive := alivePlayerRefs(r.state)
	for _, p := range r.state.Players {
		if !p.Alive {
			continue
		}
		var update nightActionUpdateMsg
		switch p.Role {
		case RoleMafia:
			update = nightActionUpdateMsg{
				Type:         "night_action_update",
				Role:         RoleMafia,
				Rolemates:    rolemates(r.state, RoleMafia, p.ID),
				AlivePlayers: alive,
				NightActionState: &nightActionState{
					MafiaVotes: r.state.RoleVoting.MafiaVotes,
				},
			}
		case RoleDetective:
			update = nightActionUpdateMsg{
				Type:         "night_action_update",
				Role:         RoleDetective,
				Rolemates:    rolemates(r.state, RoleDetective, p.ID),
				AlivePlayers: alive,
				NightActionState: &nightActionState{
					DetectiveVotes: r.state.RoleVoting.DetectiveVotes,
				},
			}
		case RoleAngel:
			update = nightActionUpdateMsg{
				Type:         "night_action_update",
				Role:         RoleAngel,
				Rolemates:    rolemates(r.state, RoleAngel, p.ID),
				AlivePlayers: alive,
				NightActionState: &nightActionState{
					AngelVotes: r.state.RoleVoting.AngelVotes,
				},
			}
		default:
			continue
		}
		if sess := r.sessions.get(p.SessionID); sess != nil {
			sess.sendJSON(update)
		}
	}
}

// evaluateWinner applies the end-of-game rule to the current roster.
// Village wins the moment no mafia breathes, even if a minion survives.
// Mafia wins when mafia plus minion can match the rest of the table.
func evaluateWinner(gs *GameState) string {
	aliveMafia := len(gs.aliveWithRole(RoleMafia))
	if aliveMafia == 0 {
		return WinnerVillage
	}
	aliveMinion := len(gs.aliveWithRole(RoleMinion))
	villageTeam := 0
	for _, p := range gs.Players {
		if !p.Alive {
			continue
		}
		switch p.Role {
		case RoleVillager, RoleDetective, RoleAngel, RoleSuicideBomber:
			villageTeam++
		}
	}
	if aliveMafia+aliveMinion >= villageTeam {
		return WinnerMafia
	}
	return ""
}

// checkWinConditions evaluates and, on a result, ends the game in place.
// Returns true when the game ended.
func (r *Room) checkWinConditions() bool {
	winner := evaluateWinner(r.state)
	if winner == "" {
		return false
	}
	switch winner {
	case WinnerVillage:
		r.state.log("Village wins! All Mafia have been eliminated.")
	case WinnerMafia:
		r.state.log("Mafia wins! They equal or outnumber the Village.")
	}
	r.endGame(winner)
	return true
}

func (r *Room) endGame(winner string) {
	r.state.Winner = winner
	r.state.Phase = PhaseEnded
	r.state.RoleVoting.clear()
	r.state.DayVotes = nil
	log.Printf("room %s: game over, winner=%s", r.id, winner)
}

// transitionToNight advances the day counter and reopens night actions.
// Callers persist and broadcast afterwards.
func (r *Room) transitionToNight() {
	r.state.Day++
	r.state.Phase = PhaseNight
	r.state.log(fmt.Sprintf("Night %d begins. Special roles, make your choices.", r.state.Day))
}

// narrate asks the narrator for a short scene based on the log so far and
// appends it once it arrives. Fire and forget; failures only log.
func (r *Room) narrate() {
	if r.narrator == nil {
		return
	}
	history := make([]string, len(r.state.GameLog))
	copy(history, r.state.GameLog)
	roomID := r.id
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		text, err := r.narrator.Tell(ctx, history)
		if err != nil {
			log.Printf("room %s: narrator error: %v", roomID, err)
			return
		}
		if text == "" {
			return
		}
		r.withState(func(gs *GameState) {
			gs.log(text)
			r.persist(nil)
			r.broadcastGameState()
		})
	}()
}
