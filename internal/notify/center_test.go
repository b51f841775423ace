package notify

import (
	"testing"
	"time"
)

func TestCenter_ShowReplacesCurrent(t *testing.T) {
	c := NewCenter(time.Minute)

	first := c.Show("saved", KindSuccess)
	second := c.Show("failed", KindError)

	got, ok := c.Current()
	if !ok {
		t.Fatal("expected an active notification")
	}
	if got.ID != second.ID || got.Message != "failed" || got.Kind != KindError {
		t.Errorf("Current() = %+v, want the second notification", got)
	}
	if first.ID == second.ID {
		t.Error("notifications should get distinct ids")
	}
}

func TestCenter_Expires(t *testing.T) {
	c := NewCenter(time.Minute)

	c.ShowFor("short", KindInfo, 20*time.Millisecond)
	time.Sleep(80 * time.Millisecond)

	if _, ok := c.Current(); ok {
		t.Error("notification should have expired")
	}
}

func TestCenter_OldTimerDoesNotClearNewer(t *testing.T) {
	c := NewCenter(time.Minute)

	c.ShowFor("old", KindInfo, 20*time.Millisecond)
	c.ShowFor("new", KindInfo, time.Minute)
	time.Sleep(80 * time.Millisecond)

	got, ok := c.Current()
	if !ok || got.Message != "new" {
		t.Errorf("Current() = %+v, %v, want the newer notification", got, ok)
	}
}

func TestCenter_Hide(t *testing.T) {
	c := NewCenter(0)
	c.Show("bye", KindSuccess)
	c.Hide()

	if _, ok := c.Current(); ok {
		t.Error("Hide() should clear the slot")
	}
}
