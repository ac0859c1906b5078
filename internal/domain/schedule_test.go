package domain

import (
	"testing"
	"time"
)

func TestParseWeeklySchedule(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[time.Weekday][]WeeklyWindow
	}{
		{
			name: "iso day numbers",
			raw:  `{"1":[{"open":"11:00","close":"14:00"},{"open":"18:00","close":"22:00"}],"7":[{"open":"12:00","close":"20:00"}]}`,
			want: map[time.Weekday][]WeeklyWindow{
				time.Monday: {
					{Open: WallClock{11, 0}, Close: WallClock{14, 0}},
					{Open: WallClock{18, 0}, Close: WallClock{22, 0}},
				},
				time.Sunday: {
					{Open: WallClock{12, 0}, Close: WallClock{20, 0}},
				},
			},
		},
		{
			name: "english day names",
			raw:  `{"Friday":[{"open":"22:00","close":"02:00"}]}`,
			want: map[time.Weekday][]WeeklyWindow{
				time.Friday: {
					{Open: WallClock{22, 0}, Close: WallClock{2, 0}},
				},
			},
		},
		{
			name: "windows sorted by opening time",
			raw:  `{"2":[{"open":"18:00","close":"22:00"},{"open":"11:30","close":"14:00"}]}`,
			want: map[time.Weekday][]WeeklyWindow{
				time.Tuesday: {
					{Open: WallClock{11, 30}, Close: WallClock{14, 0}},
					{Open: WallClock{18, 0}, Close: WallClock{22, 0}},
				},
			},
		},
		{
			name: "bad day keys and entries skipped",
			raw:  `{"8":[{"open":"11:00","close":"14:00"}],"noday":[{"open":"11:00","close":"14:00"}],"3":[{"open":"25:00","close":"14:00"},{"open":"9:00","close":"17:00"}]}`,
			want: map[time.Weekday][]WeeklyWindow{
				time.Wednesday: {
					{Open: WallClock{9, 0}, Close: WallClock{17, 0}},
				},
			},
		},
		{
			name: "open equal to close skipped",
			raw:  `{"4":[{"open":"12:00","close":"12:00"}]}`,
			want: map[time.Weekday][]WeeklyWindow{},
		},
		{
			name: "malformed document yields empty schedule",
			raw:  `{"1": "not a list"`,
			want: map[time.Weekday][]WeeklyWindow{},
		},
		{
			name: "empty input yields empty schedule",
			raw:  "",
			want: map[time.Weekday][]WeeklyWindow{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseWeeklySchedule([]byte(tt.raw))
			if len(got) != len(tt.want) {
				t.Fatalf("got %d days, want %d (%v)", len(got), len(tt.want), got)
			}
			for day, wantWindows := range tt.want {
				gotWindows := got.WindowsOn(day)
				if len(gotWindows) != len(wantWindows) {
					t.Fatalf("%s: got %d windows, want %d", day, len(gotWindows), len(wantWindows))
				}
				for i, w := range wantWindows {
					if gotWindows[i] != w {
						t.Errorf("%s[%d]: got %+v, want %+v", day, i, gotWindows[i], w)
					}
				}
			}
		})
	}
}

func TestParseWallClock(t *testing.T) {
	tests := []struct {
		in   string
		want WallClock
		ok   bool
	}{
		{"11:00", WallClock{11, 0}, true},
		{"9:05", WallClock{9, 5}, true},
		{" 23:59 ", WallClock{23, 59}, true},
		{"00:00", WallClock{0, 0}, true},
		{"24:00", WallClock{}, false},
		{"12:60", WallClock{}, false},
		{"-1:30", WallClock{}, false},
		{"noon", WallClock{}, false},
		{"12", WallClock{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseWallClock(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseWallClock(%q) = %+v, %v; want %+v, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestWeeklyWindowOvernight(t *testing.T) {
	if (WeeklyWindow{Open: WallClock{11, 0}, Close: WallClock{14, 0}}).Overnight() {
		t.Error("daytime window reported overnight")
	}
	if !(WeeklyWindow{Open: WallClock{22, 0}, Close: WallClock{2, 0}}).Overnight() {
		t.Error("window closing past midnight not reported overnight")
	}
}

func TestWeeklyScheduleEmpty(t *testing.T) {
	if !(WeeklySchedule{}).Empty() {
		t.Error("empty schedule not reported empty")
	}
	s := WeeklySchedule{time.Monday: {{Open: WallClock{11, 0}, Close: WallClock{14, 0}}}}
	if s.Empty() {
		t.Error("populated schedule reported empty")
	}
}
