package report

import (
	"sort"
	"strings"

	"bizops/internal/core"
)

// KeyFunc extracts a grouping key from a booking.
type KeyFunc func(core.Booking) string

// ByCustomer groups by customer name.
func ByCustomer(b core.Booking) string { return b.CustomerName }

// ByPlatform groups by sales platform.
func ByPlatform(b core.Booking) string { return b.Platform }

// ByCategory groups by booking category.
func ByCategory(b core.Booking) string { return string(b.Category) }

// UnknownKey stands in for bookings whose key is blank.
const UnknownKey = "Unknown"

// TopEntities sums booking revenue per key, largest first, keeping at most
// limit entries (limit <= 0 keeps all). Ties keep first-seen order.
func TopEntities(bookings []core.Booking, key KeyFunc, limit int) []core.CategoryAmount {
	index := make(map[string]int)
	var out []core.CategoryAmount
	for _, b := range bookings {
		k := strings.TrimSpace(key(b))
		if k == "" {
			k = UnknownKey
		}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, core.CategoryAmount{Name: k})
		}
		out[i].Amount = out[i].Amount.Add(b.TotalRevenue)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[j].Amount.LessThan(out[i].Amount)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
