package table

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hterui/janban/internal/packets"
)

func TestDisconnectDuringGameSuspendsTheHand(t *testing.T) {
	table, clients, _ := seatedTable(t)

	table.RemoveClient(clients[2])

	if status := table.Status(); status.State != "RECONNECT" || status.Prompt != PromptSeatClaim {
		t.Fatalf("state/prompt = %s/%d", status.State, status.Prompt)
	}
	for _, i := range []int{0, 1, 3} {
		status, ok := clients[i].lastPacket(packets.ReconnectStatusType).(*packets.ReconnectStatus)
		if !ok {
			t.Fatalf("seat %d not told about the suspension", i)
		}
		if status.MissingWinds != 1<<2 {
			t.Errorf("seat %d missing winds = %#04b, want %#04b", i, status.MissingWinds, 1<<2)
		}
	}
}

func TestReconnectResumesGameWithSnapshot(t *testing.T) {
	table, clients, _ := seatedTable(t)
	table.HandlePacket(clients[1], &packets.Riichi{})

	table.RemoveClient(clients[2])

	replacement := &fakeClient{addr: "10.0.0.4:8000"}
	table.AddClient(replacement)
	offer, ok := replacement.lastPacket(packets.SeatOfferType).(*packets.SeatOffer)
	if !ok {
		t.Fatal("replacement connection was not offered the seat")
	}
	if offer.Wind != 2 {
		t.Errorf("offered wind %d, want 2", offer.Wind)
	}

	table.HandlePacket(replacement, &packets.ClaimSeat{Wind: 2})

	if status := table.Status(); status.State != "GAME" {
		t.Fatalf("state = %s, want GAME", status.State)
	}
	snapshot, ok := replacement.lastPacket(packets.LedgerSnapshotType).(*packets.LedgerSnapshot)
	if !ok {
		t.Fatal("reconnected seat never received the game state")
	}
	if snapshot.SeatIndex != 2 {
		t.Errorf("snapshot seat = %d, want 2", snapshot.SeatIndex)
	}
	if snapshot.Players[1].Riichi != 1 || snapshot.Players[1].Points != 240 {
		t.Error("snapshot lost the riichi declared before the disconnect")
	}
}

func TestReconnectMidRonPreservesSubmittedScores(t *testing.T) {
	table, clients, _ := seatedTable(t)

	table.HandlePacket(clients[1], &packets.RonWind{Seat: 0})
	table.HandlePacket(clients[1], &packets.RonScore{Han: 5, FuIndex: 0})
	table.HandlePacket(clients[2], &packets.RonScore{})

	promptsBefore := clients[1].countPackets(packets.RonPromptType)
	table.RemoveClient(clients[3])

	replacement := &fakeClient{addr: "10.0.0.4:8000"}
	table.AddClient(replacement)
	table.HandlePacket(replacement, &packets.ClaimSeat{Wind: 3})

	// Back in the collection state, with only the reconnected seat owing a
	// score: the seats that already answered are not asked again.
	if status := table.Status(); status.State != "RON" {
		t.Fatalf("state = %s, want RON", status.State)
	}
	if replacement.countPackets(packets.RonPromptType) != 1 {
		t.Error("reconnected seat was not re-prompted")
	}
	if clients[1].countPackets(packets.RonPromptType) != promptsBefore {
		t.Error("a settled seat was prompted again")
	}

	table.HandlePacket(replacement, &packets.RonScore{})

	resolved, ok := replacement.lastPacket(packets.RonResolvedType).(*packets.RonResolved)
	if !ok {
		t.Fatal("no resolution broadcast")
	}
	// Seat 1's score, submitted before the disconnect, still pays out.
	expected := [NumSeats]int16{-80, 80, 0, 0}
	if diff := cmp.Diff(expected, resolved.Deltas); diff != "" {
		t.Errorf("deltas mismatch; diff:\n%s", diff)
	}
}

func TestReconnectOffersMissingWindsInOrder(t *testing.T) {
	table, clients, _ := seatedTable(t)

	table.RemoveClient(clients[3])
	table.RemoveClient(clients[1])

	replacement := &fakeClient{addr: "10.0.0.4:8000"}
	table.AddClient(replacement)

	// South is the lowest missing wind and is offered first; a claim for
	// the other missing wind is ignored until its turn.
	offer := replacement.lastPacket(packets.SeatOfferType).(*packets.SeatOffer)
	if offer.Wind != 1 {
		t.Fatalf("offered wind %d, want 1", offer.Wind)
	}
	table.HandlePacket(replacement, &packets.ClaimSeat{Wind: 3})
	if replacement.countPackets(packets.SeatConfirmedType) != 0 {
		t.Fatal("out of turn claim was accepted")
	}

	table.HandlePacket(replacement, &packets.ClaimSeat{Wind: 1})
	if replacement.countPackets(packets.SeatConfirmedType) != 1 {
		t.Fatal("claim for the offered wind was rejected")
	}

	// Still one seat short.
	if status := table.Status(); status.State != "RECONNECT" {
		t.Fatalf("state = %s, want RECONNECT", status.State)
	}
	second := &fakeClient{addr: "10.0.0.4:8001"}
	table.AddClient(second)
	table.HandlePacket(second, &packets.ClaimSeat{Wind: 3})

	if status := table.Status(); status.State != "GAME" {
		t.Errorf("state = %s, want GAME", status.State)
	}
}

func TestSeatedClientsCannotClaimDuringReconnect(t *testing.T) {
	table, clients, _ := seatedTable(t)

	table.RemoveClient(clients[2])
	table.HandlePacket(clients[0], &packets.ClaimSeat{Wind: 2})

	if clients[0].countPackets(packets.SeatConfirmedType) != 1 {
		t.Error("a bound connection claimed a second seat")
	}
	if status := table.Status(); status.State != "RECONNECT" {
		t.Errorf("state = %s, want RECONNECT", status.State)
	}
}

func TestSpectatorDisconnectDoesNotSuspend(t *testing.T) {
	table, _, _ := seatedTable(t)

	spectator := &fakeClient{addr: "10.0.0.5:9000"}
	table.AddClient(spectator)
	table.RemoveClient(spectator)

	if status := table.Status(); status.State != "GAME" {
		t.Errorf("state = %s, want GAME", status.State)
	}
}
