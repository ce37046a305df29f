package main

import (
	"fmt"
	"log"
)

func (r *Room) handleDayVote(s *session, vote *DayVote) {
	if r.state.Phase != PhaseVoting {
		s.sendError("Voting is not open")
		return
	}
	if vote == nil {
		s.sendError("Missing vote")
		return
	}
	p := r.boundPlayer(s)
	if p == nil || !p.Alive {
		s.sendError("Only living players can vote")
		return
	}
	if vote.Target != NoMurderVote {
		target := r.state.player(vote.Target)
		if target == nil || !target.Alive {
			s.sendError("Invalid vote target")
			return
		}
	}

	r.state.DayVotes.set(p.ID, vote.Target)
	if !r.persist(s) {
		return
	}
	DebugLog("day", "room %s: %s voted for %s", r.id, p.Name, vote.Target)

	r.broadcastGameState()

	if r.allAliveVoted() {
		r.resolveDayVoting()
	}
}

// allAliveVoted reports whether every living player has a current vote.
func (r *Room) allAliveVoted() bool {
	for _, p := range r.state.alivePlayers() {
		if _, ok := r.state.DayVotes.get(p.ID); !ok {
			return false
		}
	}
	return len(r.state.alivePlayers()) > 0
}

// resolveDayVoting eliminates the plurality target and moves on. Votes from
// players who died since casting do not count.
func (r *Room) resolveDayVoting() {
	gs := r.state

	_, leader, n := gs.DayVotes.tally(func(voter string) bool {
		p := gs.player(voter)
		return p != nil && p.Alive
	})

	if n == 0 || leader == NoMurderVote {
		gs.log("No one was eliminated this round")
	} else if victim := gs.player(leader); victim != nil && victim.Alive {
		victim.Alive = false
		gs.log(fmt.Sprintf("%s was eliminated by village vote (%s)", victim.Name, victim.Role))

		// An eliminated suicide bomber wins alone, on the spot.
		if victim.Role == RoleSuicideBomber {
			gs.log(fmt.Sprintf("%s was the Suicide Bomber and wins by being eliminated!", victim.Name))
			r.endGame(WinnerSuicideBomber)
			if !r.persist(nil) {
				return
			}
			r.broadcastGameState()
			return
		}
	} else {
		gs.log("No one was eliminated this round")
	}

	gs.DayVotes = nil
	gs.RoleVoting.clear()

	if r.checkWinConditions() {
		r.persist(nil)
		r.broadcastGameState()
		return
	}

	r.transitionToNight()
	if !r.persist(nil) {
		return
	}
	log.Printf("room %s: day %d vote resolved, night %d begins", r.id, gs.Day-1, gs.Day)

	r.narrate()
	r.broadcastGameState()
	r.broadcastNightActionUpdate()
}
