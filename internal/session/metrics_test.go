package session

import "testing"

func TestRecorder_SnapshotCounters(t *testing.T) {
	r := NewRecorder("metrics-session")

	r.Record(EventSessionStart)
	r.RecordLatency(EventConnected, 120)
	r.RecordText(EventSTTPartial, "hello")
	r.RecordFinal("hello there", 400)
	r.RecordFinal("second utterance", 600)
	r.RecordLatency(EventBargeIn, 12)
	r.RecordLatency(EventBargeIn, 45)
	r.Record(EventSessionClose)

	snap := r.Snapshot()

	if snap.SessionID != "metrics-session" {
		t.Errorf("Expected session id carried, got %q", snap.SessionID)
	}
	if snap.ConnectTimeMs != 120 {
		t.Errorf("Expected connect time 120, got %d", snap.ConnectTimeMs)
	}
	if snap.AvgSTTLatencyMs != 500 {
		t.Errorf("Expected avg STT latency 500, got %f", snap.AvgSTTLatencyMs)
	}
	if len(snap.BargeInLatenciesMs) != 2 {
		t.Fatalf("Expected 2 barge-in latencies, got %d", len(snap.BargeInLatenciesMs))
	}
	if snap.MaxBargeInLatencyMs != 45 {
		t.Errorf("Expected max barge-in latency 45, got %d", snap.MaxBargeInLatencyMs)
	}
	if snap.TotalEvents != 8 {
		t.Errorf("Expected 8 events, got %d", snap.TotalEvents)
	}
}

func TestRecorder_EventsAreCopied(t *testing.T) {
	r := NewRecorder("copy-session")
	r.Record(EventSessionStart)

	events := r.Events()
	events[0].Name = "mutated"

	if r.Events()[0].Name != EventSessionStart {
		t.Error("Expected recorder log unaffected by caller mutation")
	}
}

func TestRecorder_EmptySnapshot(t *testing.T) {
	snap := NewRecorder("fresh").Snapshot()

	if snap.TotalEvents != 0 {
		t.Errorf("Expected no events, got %d", snap.TotalEvents)
	}
	if snap.AvgSTTLatencyMs != 0 {
		t.Errorf("Expected zero avg latency, got %f", snap.AvgSTTLatencyMs)
	}
	if snap.MaxBargeInLatencyMs != 0 {
		t.Errorf("Expected zero max barge-in, got %d", snap.MaxBargeInLatencyMs)
	}
}

func TestResponder_NonEmptyReplies(t *testing.T) {
	r := NewResponder()

	inputs := []string{
		"hello there how can I help you today",
		"what time is it?",
		"turn on the lights",
		"",
	}
	for _, input := range inputs {
		if reply := r.Reply(input); reply == "" {
			t.Errorf("Expected non-empty reply for %q", input)
		}
	}
}

func TestResponder_EchoesTranscript(t *testing.T) {
	r := NewResponder()
	reply := r.Reply("turn on the lights")
	if reply != "I heard you say turn on the lights" {
		t.Errorf("Unexpected reply %q", reply)
	}
}
