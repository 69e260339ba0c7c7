package ipc

import "testing"

func TestParseEvent(t *testing.T) {
	ev := ParseEvent("movewindowv2>>55d0a1,special:minimized,-98")
	if ev.Kind != "movewindowv2" || ev.Payload != "55d0a1,special:minimized,-98" {
		t.Fatalf("unexpected event %+v", ev)
	}
	if got := ParseEvent("garbage"); got.Kind != "garbage" || got.Payload != "" {
		t.Fatalf("unexpected event %+v", got)
	}
}

func TestEventWindowAddress(t *testing.T) {
	tests := []struct {
		line string
		want string
		ok   bool
	}{
		{"closewindow>>55d0a1", "0x55d0a1", true},
		{"movewindow>>55D0A1,3", "0x55d0a1", true},
		{"movewindowv2>>abc,special:minimized,-98", "0xabc", true},
		{"workspace>>3", "", false},
		{"openwindow>>abc,1,kitty,shell", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseEvent(tt.line).WindowAddress()
		if got != tt.want || ok != tt.ok {
			t.Errorf("%q: got (%q,%v) want (%q,%v)", tt.line, got, ok, tt.want, tt.ok)
		}
	}
}
