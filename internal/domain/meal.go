package domain

import (
	"strings"
	"time"

	"github.com/Eursukkul/dormmate-service/internal/models"
)

// Days are ordered monday first, the order menus are listed in.
var Days = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// MealTypes are ordered by serving time.
var MealTypes = []models.MealType{models.MealBreakfast, models.MealLunch, models.MealSnacks, models.MealDinner}

type MealWindow struct {
	Meal  models.MealType
	Start time.Duration // offset from midnight
	End   time.Duration
}

var MealWindows = []MealWindow{
	{models.MealBreakfast, 7 * time.Hour, 10 * time.Hour},
	{models.MealLunch, 12 * time.Hour, 15 * time.Hour},
	{models.MealSnacks, 16 * time.Hour, 18 * time.Hour},
	{models.MealDinner, 19 * time.Hour, 22 * time.Hour},
}

func NormalizeDay(day string) string {
	return strings.ToLower(strings.TrimSpace(day))
}

func ValidDay(day string) bool {
	return DayIndex(day) >= 0
}

// DayIndex returns the position of day in Days, or -1.
func DayIndex(day string) int {
	day = NormalizeDay(day)
	for i, d := range Days {
		if d == day {
			return i
		}
	}
	return -1
}

func ValidMealType(m models.MealType) bool {
	return MealIndex(m) >= 0
}

func MealIndex(m models.MealType) int {
	for i, known := range MealTypes {
		if known == m {
			return i
		}
	}
	return -1
}

// DayOf returns the lower-case weekday name of t.
func DayOf(t time.Time) string {
	return strings.ToLower(t.Weekday().String())
}

// CurrentMeal returns the meal being served at t, or "" between windows.
func CurrentMeal(t time.Time) models.MealType {
	offset := time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute
	for _, w := range MealWindows {
		if offset >= w.Start && offset < w.End {
			return w.Meal
		}
	}
	return ""
}
