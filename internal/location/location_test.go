package location

import "testing"

func TestDirectory_Cascade(t *testing.T) {
	d := Default()

	if !d.HasState("India", "Karnataka") {
		t.Error("Karnataka should belong to India")
	}
	if d.HasState("USA", "Karnataka") {
		t.Error("Karnataka should not belong to USA")
	}
	if !d.HasCity("USA", "Texas", "Austin") {
		t.Error("Austin should belong to Texas")
	}
	if d.HasCity("USA", "Texas", "Miami") {
		t.Error("Miami should not belong to Texas")
	}

	states := d.States("Germany")
	want := []string{"Bavaria", "Berlin", "Hamburg"}
	if len(states) != len(want) {
		t.Fatalf("States(Germany) = %v, want %v", states, want)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Errorf("States(Germany)[%d] = %s, want %s", i, states[i], want[i])
		}
	}

	if got := d.Cities("Nowhere", "Nothing"); len(got) != 0 {
		t.Errorf("Cities of unknown state = %v, want empty", got)
	}
}
