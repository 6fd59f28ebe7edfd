package domain

import (
	"testing"
	"time"

	"github.com/Eursukkul/dormmate-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCommissionRate(t *testing.T) {
	cases := []struct {
		size models.HostelSize
		tier models.LocationTier
		want float64
	}{
		{models.HostelSmall, models.Tier1, 0.14},
		{models.HostelMedium, models.Tier2, 0.10},
		{models.HostelLarge, models.Tier3, 0.08},
		{models.HostelSmall, models.Tier3, 0.11},
		{models.HostelLarge, models.Tier1, 0.11},
		{models.HostelMedium, models.Tier1, 0.12},
	}
	for _, tc := range cases {
		t.Run(string(tc.size)+"_"+string(tc.tier), func(t *testing.T) {
			got := CommissionRate(tc.size, tc.tier)
			assert.InDelta(t, tc.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, MinCommission)
		})
	}
}

func TestValidHostelSizeAndTier(t *testing.T) {
	assert.True(t, ValidHostelSize(models.HostelLarge))
	assert.False(t, ValidHostelSize("huge"))
	assert.True(t, ValidLocationTier(models.Tier2))
	assert.False(t, ValidLocationTier("tier4"))
}

func TestOccupancyRate(t *testing.T) {
	assert.Equal(t, 67, OccupancyRate(32, 48))
	assert.Equal(t, 0, OccupancyRate(0, 0))
	assert.Equal(t, 100, OccupancyRate(10, 10))
	assert.Equal(t, 0, OccupancyRate(0, 12))
}

func TestTotals_CapsOverfullRooms(t *testing.T) {
	capacity, occupied := Totals([]RoomLoad{
		{Capacity: 2, Active: 2},
		{Capacity: 3, Active: 5},
		{Capacity: 4, Active: 0},
	})
	assert.Equal(t, 9, capacity)
	assert.Equal(t, 5, occupied)
	assert.LessOrEqual(t, OccupancyRate(occupied, capacity), 100)
}

func TestCurrentlyOutside(t *testing.T) {
	assert.Equal(t, 128, CurrentlyOutside(187, 59))
	assert.Equal(t, 0, CurrentlyOutside(3, 7))
	assert.Equal(t, 0, CurrentlyOutside(0, 0))
}

func TestMatches(t *testing.T) {
	names := []string{"John Doe", "Jolene Smith", "Mark Jones", "Alice"}
	var hits []string
	for _, n := range names {
		if Matches("jo", n) {
			hits = append(hits, n)
		}
	}
	assert.Equal(t, []string{"John Doe", "Jolene Smith", "Mark Jones"}, hits)

	assert.True(t, Matches("", "anything"))
	assert.True(t, Matches("  ", "anything"))
	assert.True(t, Matches("EXAMPLE", "nobody", "bob@example.com"))
	assert.False(t, Matches("zzz", "John", "john@example.com"))
}

func TestFilter(t *testing.T) {
	type row struct{ name, email string }
	rows := []row{{"John Doe", "john@x.io"}, {"Alice", "alice@x.io"}, {"Bob", "jolly@x.io"}}
	fields := func(r row) []string { return []string{r.name, r.email} }

	got := Filter(rows, "jo", fields)
	assert.Len(t, got, 2)
	assert.Equal(t, "John Doe", got[0].name)
	assert.Equal(t, "Bob", got[1].name)

	assert.Len(t, Filter(rows, "", fields), 3)
	assert.Empty(t, Filter(rows, "nobody", fields))
	assert.NotNil(t, Filter(rows, "nobody", fields))
}

func TestDaysAndMeals(t *testing.T) {
	assert.True(t, ValidDay("monday"))
	assert.True(t, ValidDay(" Sunday "))
	assert.False(t, ValidDay("funday"))
	assert.Equal(t, 0, DayIndex("monday"))
	assert.Equal(t, 6, DayIndex("sunday"))

	assert.True(t, ValidMealType(models.MealSnacks))
	assert.False(t, ValidMealType("brunch"))

	assert.Equal(t, "saturday", DayOf(time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)))
}

func TestCurrentMeal(t *testing.T) {
	at := func(h, m int) time.Time { return time.Date(2026, 10, 18, h, m, 0, 0, time.UTC) }
	cases := []struct {
		t    time.Time
		want models.MealType
	}{
		{at(6, 59), ""},
		{at(7, 0), models.MealBreakfast},
		{at(9, 59), models.MealBreakfast},
		{at(10, 0), ""},
		{at(13, 30), models.MealLunch},
		{at(16, 15), models.MealSnacks},
		{at(18, 30), ""},
		{at(21, 59), models.MealDinner},
		{at(22, 0), ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CurrentMeal(tc.t), tc.t.Format("15:04"))
	}
}

func TestRouteForRole(t *testing.T) {
	assert.Equal(t, "/admin", RouteForRole(models.RoleAdmin))
	assert.Equal(t, "/student", RouteForRole(models.RoleStudent))
	assert.Equal(t, "/security", RouteForRole(models.RoleSecurity))
	assert.Equal(t, "/mess", RouteForRole(models.RoleMess))
	assert.Equal(t, "/hostels", RouteForRole(models.RoleHostel))
	assert.Equal(t, "/auth", RouteForRole(models.RoleNone))
	assert.Equal(t, "/auth", RouteForRole("janitor"))
}

func TestThemeAndNav(t *testing.T) {
	assert.Equal(t, "theme-mess", ThemeForRole(models.RoleMess))
	assert.Equal(t, "", ThemeForRole(models.RoleNone))

	nav := NavForRole(models.RoleStudent)
	assert.NotEmpty(t, nav)
	assert.Equal(t, RouteStudent, nav[0].Path)

	nav[0].Label = "changed"
	assert.NotEqual(t, "changed", NavForRole(models.RoleStudent)[0].Label)
	assert.Empty(t, NavForRole(models.RoleNone))
}
