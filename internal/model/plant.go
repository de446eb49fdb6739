package model

import "time"

// EnvironmentAll is the synthetic environment key meaning "no filter".
const EnvironmentAll = "all"

// EnvironmentAllTitle is the display title of the synthetic "all" tag.
const EnvironmentAllTitle = "Todos"

type RepeatUnit string

const (
	RepeatEveryDay  RepeatUnit = "day"
	RepeatEveryWeek RepeatUnit = "week"
)

type Frequency struct {
	Times       int        `json:"times"`
	RepeatEvery RepeatUnit `json:"repeat_every"`
}

// Interval returns how long to wait between waterings. Weekly frequencies
// spread the waterings over seven days; anything else waters daily.
func (f Frequency) Interval() time.Duration {
	day := 24 * time.Hour
	if f.RepeatEvery != RepeatEveryWeek || f.Times <= 0 {
		return day
	}
	days := 7 / f.Times
	if days < 1 {
		days = 1
	}
	return time.Duration(days) * day
}

type Plant struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	About        string    `json:"about"`
	WaterTips    string    `json:"water_tips"`
	Photo        string    `json:"photo"`
	Environments []string  `json:"environments"`
	Frequency    Frequency `json:"frequency"`
}

// InEnvironment reports whether the plant is tagged with the given key.
func (p Plant) InEnvironment(key string) bool {
	for _, env := range p.Environments {
		if env == key {
			return true
		}
	}
	return false
}

type EnvironmentTag struct {
	Key   string `json:"key"`
	Title string `json:"title"`
}

// AllEnvironments returns the synthetic tag placed in front of the fetched tags.
func AllEnvironments() EnvironmentTag {
	return EnvironmentTag{Key: EnvironmentAll, Title: EnvironmentAllTitle}
}
