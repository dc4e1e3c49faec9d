package event

import "testing"

func TestPublishOrder(t *testing.T) {
	var f Feed[int]
	var got []string
	f.Subscribe(func(v int) { got = append(got, "first") })
	f.Subscribe(func(v int) { got = append(got, "second") })
	f.Publish(1)
	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestUnsubscribe(t *testing.T) {
	var f Feed[string]
	var count int
	cancel := f.Subscribe(func(string) { count++ })
	f.Publish("a")
	cancel()
	cancel() // second call is harmless
	f.Publish("b")
	if count != 1 {
		t.Fatalf("expected 1 delivery, got %d", count)
	}
	if f.Len() != 0 {
		t.Fatalf("expected no subscribers, have %d", f.Len())
	}
}

func TestUnsubscribeDuringPublish(t *testing.T) {
	var f Feed[int]
	var cancel func()
	var calls []int
	cancel = f.Subscribe(func(v int) {
		calls = append(calls, 1)
		cancel()
	})
	f.Subscribe(func(v int) { calls = append(calls, 2) })
	f.Publish(0)
	if len(calls) != 2 {
		t.Fatalf("later subscriber skipped: %v", calls)
	}
}
