package mqtt

import "testing"

func TestParseDeviceID(t *testing.T) {
	cases := []struct {
		topic   string
		want    string
		wantErr bool
	}{
		{"alice/device/speaker-1/announce", "speaker-1", false},
		{"alice/device/speaker-1/result/req-9", "speaker-1", false},
		{"alice/session/s1/bargein", "", true},
		{"other/device/speaker-1/announce", "", true},
		{"alice/device", "", true},
	}
	for _, c := range cases {
		got, err := ParseDeviceID(c.topic, "alice")
		if (err != nil) != c.wantErr {
			t.Fatalf("ParseDeviceID(%q) err=%v, wantErr=%v", c.topic, err, c.wantErr)
		}
		if got != c.want {
			t.Fatalf("ParseDeviceID(%q)=%q, want %q", c.topic, got, c.want)
		}
	}
}

func TestParseSessionID(t *testing.T) {
	got, err := ParseSessionID("alice/session/sess-42/bargein", "alice")
	if err != nil || got != "sess-42" {
		t.Fatalf("ParseSessionID=(%q,%v), want sess-42", got, err)
	}
}

func TestParseWithMultiLevelPrefix(t *testing.T) {
	got, err := ParseDeviceID("home/alice/device/speaker-1/heartbeat", "home/alice")
	if err != nil || got != "speaker-1" {
		t.Fatalf("ParseDeviceID=(%q,%v), want speaker-1", got, err)
	}
}

func TestParseRequestID(t *testing.T) {
	if got := ParseRequestID("alice/device/speaker-1/result/req-7"); got != "req-7" {
		t.Fatalf("ParseRequestID=%q, want req-7", got)
	}
}

func TestTopicRoundTrip(t *testing.T) {
	topic := TopicResult("alice", "speaker-1", "req-7")
	deviceID, err := ParseDeviceID(topic, "alice")
	if err != nil || deviceID != "speaker-1" {
		t.Fatalf("device=(%q,%v)", deviceID, err)
	}
	if got := ParseRequestID(topic); got != "req-7" {
		t.Fatalf("request=%q, want req-7", got)
	}
}
