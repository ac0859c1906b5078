package domain

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"
)

// WallClock is a local wall-clock time of day.
type WallClock struct {
	Hour   int
	Minute int
}

// MinutesOfDay returns minutes since midnight.
func (w WallClock) MinutesOfDay() int { return w.Hour*60 + w.Minute }

// String renders the time as "HH:mm".
func (w WallClock) String() string {
	return strconv.Itoa(w.Hour/10) + strconv.Itoa(w.Hour%10) + ":" + strconv.Itoa(w.Minute/10) + strconv.Itoa(w.Minute%10)
}

// WeeklyWindow is a recurring open interval on one weekday. A window whose
// close precedes its open spans midnight into the next calendar day.
type WeeklyWindow struct {
	Open  WallClock
	Close WallClock
}

// Overnight reports whether the window crosses midnight.
func (w WeeklyWindow) Overnight() bool {
	return w.Close.MinutesOfDay() < w.Open.MinutesOfDay()
}

// WeeklySchedule maps weekdays to their open windows, sorted by opening time.
// An empty schedule means the restaurant is never open, which is also how
// malformed schedule data degrades.
type WeeklySchedule map[time.Weekday][]WeeklyWindow

// WindowsOn returns the windows recurring on the given weekday.
func (s WeeklySchedule) WindowsOn(day time.Weekday) []WeeklyWindow {
	if s == nil {
		return nil
	}
	return s[day]
}

// Empty reports whether the schedule has no windows at all.
func (s WeeklySchedule) Empty() bool {
	for _, windows := range s {
		if len(windows) > 0 {
			return false
		}
	}
	return true
}

type rawWindow struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// ParseWeeklySchedule decodes the schedule store representation. Days may be
// keyed by ISO weekday number ("1" Monday through "7" Sunday) or by English
// day name. Anything unparsable degrades: a bad document yields an empty
// schedule, a bad day key or window entry is skipped.
func ParseWeeklySchedule(raw []byte) WeeklySchedule {
	if len(raw) == 0 {
		return WeeklySchedule{}
	}
	var doc map[string][]rawWindow
	if err := json.Unmarshal(raw, &doc); err != nil {
		return WeeklySchedule{}
	}

	schedule := WeeklySchedule{}
	for key, entries := range doc {
		day, ok := parseDayKey(key)
		if !ok {
			continue
		}
		for _, entry := range entries {
			open, okOpen := ParseWallClock(entry.Open)
			close, okClose := ParseWallClock(entry.Close)
			if !okOpen || !okClose {
				continue
			}
			if open.MinutesOfDay() == close.MinutesOfDay() {
				continue
			}
			schedule[day] = append(schedule[day], WeeklyWindow{Open: open, Close: close})
		}
	}
	for day := range schedule {
		windows := schedule[day]
		sort.Slice(windows, func(i, j int) bool {
			return windows[i].Open.MinutesOfDay() < windows[j].Open.MinutesOfDay()
		})
		schedule[day] = windows
	}
	return schedule
}

// ParseWallClock parses "H:mm" or "HH:mm" strings.
func ParseWallClock(value string) (WallClock, bool) {
	value = strings.TrimSpace(value)
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return WallClock{}, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return WallClock{}, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return WallClock{}, false
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return WallClock{}, false
	}
	return WallClock{Hour: hour, Minute: minute}, true
}

var dayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

func parseDayKey(key string) (time.Weekday, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	if n, err := strconv.Atoi(key); err == nil {
		if n < 1 || n > 7 {
			return 0, false
		}
		// ISO numbering: 1 is Monday, 7 is Sunday.
		return time.Weekday(n % 7), true
	}
	day, ok := dayNames[key]
	return day, ok
}
