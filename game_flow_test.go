package main

import "testing"

func statePlayers(specs ...struct {
	role  string
	alive bool
}) *GameState {
	gs := newGameState("WINEVL")
	for i, s := range specs {
		gs.Players = append(gs.Players, &Player{
			ID:    string(rune('a' + i)),
			Role:  s.role,
			Alive: s.alive,
		})
	}
	return gs
}

func TestEvaluateWinner(t *testing.T) {
	type ps = struct {
		role  string
		alive bool
	}
	cases := []struct {
		name string
		gs   *GameState
		want string
	}{
		{
			name: "ongoing game",
			gs: statePlayers(
				ps{RoleMafia, true},
				ps{RoleVillager, true},
				ps{RoleVillager, true},
				ps{RoleDetective, true},
			),
			want: "",
		},
		{
			name: "all mafia dead",
			gs: statePlayers(
				ps{RoleMafia, false},
				ps{RoleVillager, true},
				ps{RoleVillager, true},
			),
			want: WinnerVillage,
		},
		{
			name: "surviving minion does not block village win",
			gs: statePlayers(
				ps{RoleMafia, false},
				ps{RoleMinion, true},
				ps{RoleVillager, true},
			),
			want: WinnerVillage,
		},
		{
			name: "mafia equals village",
			gs: statePlayers(
				ps{RoleMafia, true},
				ps{RoleVillager, true},
			),
			want: WinnerMafia,
		},
		{
			name: "minion counts toward mafia parity",
			gs: statePlayers(
				ps{RoleMafia, true},
				ps{RoleMinion, true},
				ps{RoleVillager, true},
				ps{RoleDetective, true},
			),
			want: WinnerMafia,
		},
		{
			name: "angel and bomber count as village",
			gs: statePlayers(
				ps{RoleMafia, true},
				ps{RoleAngel, true},
				ps{RoleSuicideBomber, true},
				ps{RoleVillager, true},
			),
			want: "",
		},
		{
			name: "dead players excluded everywhere",
			gs: statePlayers(
				ps{RoleMafia, true},
				ps{RoleMafia, false},
				ps{RoleVillager, false},
				ps{RoleVillager, true},
			),
			want: WinnerMafia,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := evaluateWinner(tc.gs); got != tc.want {
				t.Errorf("evaluateWinner = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestProjectGameStateHidesLivingRoles(t *testing.T) {
	gs := newGameState("VIEW01")
	gs.Phase = PhaseDay
	gs.Players = []*Player{
		{ID: "p1", Name: "Alice", Role: RoleMafia, Alive: true},
		{ID: "p2", Name: "Bob", Role: RoleVillager, Alive: false},
	}

	public := projectGameState(gs, false)
	if public.Players[0].Role != "" {
		t.Error("living player's role leaked to non-host view")
	}
	if public.Players[1].Role != RoleVillager {
		t.Error("dead player's role should be visible")
	}

	host := projectGameState(gs, true)
	if host.Players[0].Role != RoleMafia {
		t.Error("host view should carry every role")
	}

	gs.Phase = PhaseEnded
	ended := projectGameState(gs, false)
	if ended.Players[0].Role != RoleMafia {
		t.Error("ended game should reveal all roles")
	}
}

func TestRolematesExcludesViewerAndDead(t *testing.T) {
	gs := newGameState("MATES1")
	gs.Players = []*Player{
		{ID: "p1", Name: "Alice", Role: RoleMafia, Alive: true},
		{ID: "p2", Name: "Bob", Role: RoleMafia, Alive: true},
		{ID: "p3", Name: "Carol", Role: RoleMafia, Alive: false},
		{ID: "p4", Name: "Dave", Role: RoleVillager, Alive: true},
	}
	mates := rolemates(gs, RoleMafia, "p1")
	if len(mates) != 1 || mates[0].ID != "p2" {
		t.Errorf("rolemates = %+v, want just Bob", mates)
	}
}

func TestMinionSeesMafiaRoster(t *testing.T) {
	gs := newGameState("MINION")
	gs.Players = []*Player{
		{ID: "p1", Name: "Alice", Role: RoleMafia, Alive: true},
		{ID: "p2", Name: "Bob", Role: RoleMinion, Alive: true},
	}
	msg := roleAssignedPayload(gs, gs.Players[1])
	if len(msg.MafiaMembers) != 1 || msg.MafiaMembers[0].ID != "p1" {
		t.Errorf("minion payload = %+v", msg)
	}
	// Mafia members themselves get rolemates, not the minion list.
	mafiaMsg := roleAssignedPayload(gs, gs.Players[0])
	if len(mafiaMsg.MafiaMembers) != 0 {
		t.Errorf("mafia payload should not carry mafiaMembers: %+v", mafiaMsg)
	}
}
