package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/affistats/insights-manager/internal/entity"
)

func TestDashboard_GetSet(t *testing.T) {
	c := NewDashboard(time.Minute)

	_, ok := c.Get("k")
	assert.False(t, ok)

	dd := &entity.DashboardData{TotalCount: 3}
	c.Set("k", dd)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Same(t, dd, got)
}

func TestDashboard_Expiry(t *testing.T) {
	c := NewDashboard(10 * time.Millisecond)
	c.Set("k", &entity.DashboardData{})

	_, ok := c.Get("k")
	require.True(t, ok)

	time.Sleep(20 * time.Millisecond)
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestDashboard_Invalidate(t *testing.T) {
	c := NewDashboard(time.Minute)
	c.Set("a", &entity.DashboardData{})
	c.Set("b", &entity.DashboardData{})

	c.Invalidate()
	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.False(t, ok)
}

func TestKey(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	base := entity.AnalyticsQuery{
		DateRange: entity.DateRange{From: from, To: to},
		Limit:     10,
	}
	assert.Equal(t, Key(base), Key(base))

	withFilters := base
	withFilters.Filters = map[string]string{"source": "google", "medium": "cpc"}
	same := base
	same.Filters = map[string]string{"medium": "cpc", "source": "google"}
	assert.Equal(t, Key(withFilters), Key(same))
	assert.NotEqual(t, Key(base), Key(withFilters))

	sorted := base
	sorted.OrderBy = &entity.OrderBy{Field: entity.FieldClicks, Factor: entity.Descending}
	assert.NotEqual(t, Key(base), Key(sorted))
}
