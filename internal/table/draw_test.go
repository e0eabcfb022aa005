package table

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hterui/janban/internal/packets"
)

func TestDrawPromptsCarryTheDeclarersReadiness(t *testing.T) {
	table, clients, _ := seatedTable(t)

	table.HandlePacket(clients[2], &packets.Draw{Tenpai: 1})

	if status := table.Status(); status.State != "DRAW" || status.Prompt != PromptDrawTenpai {
		t.Fatalf("state/prompt = %s/%d", status.State, status.Prompt)
	}
	if clients[2].countPackets(packets.TenpaiPromptType) != 0 {
		t.Error("the declarer was prompted for its own readiness")
	}
	for _, i := range []int{0, 1, 3} {
		prompt, ok := clients[i].lastPacket(packets.TenpaiPromptType).(*packets.TenpaiPrompt)
		if !ok {
			t.Fatalf("seat %d was not prompted", i)
		}
		if prompt.Tenpai != 1 {
			t.Errorf("seat %d prompt tenpai = %d, want 1", i, prompt.Tenpai)
		}
	}
}

func TestDrawSplitsPotBetweenReadyAndUnready(t *testing.T) {
	tests := []struct {
		name           string
		tenpai         [NumSeats]uint8
		expectedDeltas [NumSeats]int16
		expectedBits   uint8
	}{
		{
			name:           "one ready three unready",
			tenpai:         [NumSeats]uint8{1, 0, 0, 0},
			expectedDeltas: [NumSeats]int16{10, -4, -3, -3},
			expectedBits:   0b0001,
		},
		{
			name:           "two ready two unready",
			tenpai:         [NumSeats]uint8{0, 1, 1, 0},
			expectedDeltas: [NumSeats]int16{-5, 5, 5, -5},
			expectedBits:   0b0110,
		},
		{
			name:           "three ready one unready",
			tenpai:         [NumSeats]uint8{1, 1, 0, 1},
			expectedDeltas: [NumSeats]int16{4, 3, -10, 3},
			expectedBits:   0b1011,
		},
		{
			name:           "all ready exchanges nothing",
			tenpai:         [NumSeats]uint8{1, 1, 1, 1},
			expectedDeltas: [NumSeats]int16{},
			expectedBits:   0b1111,
		},
		{
			name:           "none ready exchanges nothing",
			tenpai:         [NumSeats]uint8{0, 0, 0, 0},
			expectedDeltas: [NumSeats]int16{},
			expectedBits:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, clients, _ := seatedTable(t)

			table.HandlePacket(clients[0], &packets.Draw{Tenpai: tt.tenpai[0]})
			for i := 1; i < NumSeats; i++ {
				table.HandlePacket(clients[i], &packets.Draw{Tenpai: tt.tenpai[i]})
			}

			resolved, ok := clients[0].lastPacket(packets.DrawResolvedType).(*packets.DrawResolved)
			if !ok {
				t.Fatal("no resolution broadcast")
			}
			if diff := cmp.Diff(tt.expectedDeltas, resolved.Deltas); diff != "" {
				t.Errorf("deltas mismatch; diff:\n%s", diff)
			}
			assertDeltasConserve(t, resolved.Deltas)
			if resolved.TenpaiBits != tt.expectedBits {
				t.Errorf("tenpai bits = %#04b, want %#04b", resolved.TenpaiBits, tt.expectedBits)
			}
			if status := table.Status(); status.State != "GAME" {
				t.Errorf("state = %s, want GAME", status.State)
			}
		})
	}
}

func TestDrawAdvancesOnDealerReadiness(t *testing.T) {
	t.Run("ready dealer keeps the deal", func(t *testing.T) {
		table, clients, _ := seatedTable(t)
		table.HandlePacket(clients[0], &packets.Draw{Tenpai: 1})
		for i := 1; i < NumSeats; i++ {
			table.HandlePacket(clients[i], &packets.Draw{})
		}

		status := table.Status()
		if status.Hand != 0 || status.Repeat != 1 {
			t.Errorf("hand/repeat = %d/%d, want 0/1", status.Hand, status.Repeat)
		}
	})

	t.Run("unready dealer passes the deal", func(t *testing.T) {
		table, clients, _ := seatedTable(t)
		table.HandlePacket(clients[1], &packets.Draw{Tenpai: 1})
		table.HandlePacket(clients[0], &packets.Draw{})
		table.HandlePacket(clients[2], &packets.Draw{})
		table.HandlePacket(clients[3], &packets.Draw{})

		status := table.Status()
		if status.Hand != 1 || status.Repeat != 0 {
			t.Errorf("hand/repeat = %d/%d, want 1/0", status.Hand, status.Repeat)
		}
		if status.BonusHonba != 1 {
			t.Errorf("bonus honba = %d, want 1", status.BonusHonba)
		}
	})
}

func TestDrawCarriesRiichiSticks(t *testing.T) {
	table, clients, _ := seatedTable(t)

	table.HandlePacket(clients[1], &packets.Riichi{})
	table.HandlePacket(clients[0], &packets.Draw{})
	for i := 1; i < NumSeats; i++ {
		table.HandlePacket(clients[i], &packets.Draw{})
	}

	status := table.Status()
	if status.BonusRiichi != 1 {
		t.Errorf("carried sticks = %d, want 1", status.BonusRiichi)
	}
	if status.Riichi[1] {
		t.Error("riichi flag survived the draw")
	}
}
