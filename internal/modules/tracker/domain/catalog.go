package domain

import (
	"fmt"
	"strconv"
	"strings"
)

var Palette = []string{
	"#FF9500",
	"#FF2D55",
	"#5856D6",
	"#007AFF",
	"#4CD964",
	"#FFCC00",
	"#FF3B30",
	"#5AC8FA",
	"#34C759",
	"#AF52DE",
}

type Icon struct {
	ID    string
	Label string
}

var Icons = []Icon{
	{ID: "utensils", Label: "Eating"},
	{ID: "bed", Label: "Sleeping"},
	{ID: "running", Label: "Exercise"},
	{ID: "book", Label: "Reading"},
	{ID: "tv", Label: "TV/Movies"},
	{ID: "laptop", Label: "Work"},
	{ID: "coffee", Label: "Coffee/Tea"},
	{ID: "pill", Label: "Medication"},
	{ID: "shower", Label: "Shower"},
	{ID: "heart", Label: "Health"},
	{ID: "music", Label: "Music"},
	{ID: "gamepad", Label: "Gaming"},
}

func IsPaletteColor(color string) bool {
	for _, c := range Palette {
		if strings.EqualFold(c, color) {
			return true
		}
	}
	return false
}

func IsKnownIcon(id string) bool {
	_, ok := IconLabel(id)
	return ok
}

func IconLabel(id string) (string, bool) {
	for _, icon := range Icons {
		if icon.ID == id {
			return icon.Label, true
		}
	}
	return "", false
}

// LightColor mixes a #RRGGBB color 70% toward white.
func LightColor(color string) string {
	if len(color) != 7 || color[0] != '#' {
		return color
	}
	channels := [3]int64{}
	for i := range channels {
		v, err := strconv.ParseInt(color[1+2*i:3+2*i], 16, 64)
		if err != nil {
			return color
		}
		channels[i] = v + (255-v)*7/10
	}
	return fmt.Sprintf("#%02x%02x%02x", channels[0], channels[1], channels[2])
}
