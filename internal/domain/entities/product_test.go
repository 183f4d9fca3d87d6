package entities

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDeriveProductStatus(t *testing.T) {
	cases := []struct {
		name     string
		stock    int
		minStock int
		want     ProductStatus
	}{
		{"zero stock", 0, 0, ProductStatusOutOfStock},
		{"negative stock", -3, 5, ProductStatusOutOfStock},
		{"zero stock with threshold", 0, 10, ProductStatusOutOfStock},
		{"at threshold", 5, 5, ProductStatusLowStock},
		{"below threshold", 1, 5, ProductStatusLowStock},
		{"above threshold", 6, 5, ProductStatusInStock},
		{"default threshold", 1, 0, ProductStatusInStock},
		{"large stock", 10000, 15, ProductStatusInStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeriveProductStatus(tc.stock, tc.minStock))
		})
	}
}

func TestDeriveProductStatus_Properties(t *testing.T) {
	for stock := -5; stock <= 40; stock++ {
		for minStock := 0; minStock <= 30; minStock++ {
			got := DeriveProductStatus(stock, minStock)
			switch {
			case stock <= 0:
				assert.Equal(t, ProductStatusOutOfStock, got)
			case stock <= minStock:
				assert.Equal(t, ProductStatusLowStock, got)
			default:
				assert.Equal(t, ProductStatusInStock, got)
			}
		}
	}
}

func TestProductStatusLabelsAndParse(t *testing.T) {
	assert.Equal(t, "In Stock", ProductStatusInStock.Label())
	assert.Equal(t, "Low Stock", ProductStatusLowStock.Label())
	assert.Equal(t, "Out of Stock", ProductStatusOutOfStock.Label())
	assert.Equal(t, "WHATEVER", ProductStatus("WHATEVER").Label())

	for _, in := range []string{"Low Stock", "low_stock", "LOW-STOCK", " LOW_STOCK "} {
		got, ok := ParseProductStatus(in)
		assert.True(t, ok, in)
		assert.Equal(t, ProductStatusLowStock, got)
	}
	got, ok := ParseProductStatus("Out of Stock")
	assert.True(t, ok)
	assert.Equal(t, ProductStatusOutOfStock, got)

	_, ok = ParseProductStatus("discontinued")
	assert.False(t, ok)

	assert.True(t, ProductStatusLowStock.NeedsAttention())
	assert.True(t, ProductStatusOutOfStock.NeedsAttention())
	assert.False(t, ProductStatusInStock.NeedsAttention())
}

func TestProductProfitMarginAndValue(t *testing.T) {
	p := &Product{Price: decimal.NewFromInt(15), CostPrice: decimal.NewFromInt(10), Stock: 4}
	assert.Equal(t, "50.0%", p.ProfitMargin())
	assert.True(t, decimal.NewFromInt(40).Equal(p.StockValue()))

	p.Price = decimal.RequireFromString("10.333")
	p.CostPrice = decimal.NewFromInt(3)
	assert.Equal(t, "244.4%", p.ProfitMargin())

	p.CostPrice = decimal.Zero
	assert.Equal(t, "N/A", p.ProfitMargin())
}

func TestProductRefreshStatus(t *testing.T) {
	p := &Product{Stock: 3, MinStock: 5, Status: ProductStatusInStock}
	p.RefreshStatus()
	assert.Equal(t, ProductStatusLowStock, p.Status)
}

func TestOrderStatus(t *testing.T) {
	assert.Equal(t, "Completed", OrderStatusCompleted.Label())
	assert.Equal(t, "Pending", OrderStatusPending.Label())
	assert.Equal(t, "Canceled", OrderStatusCanceled.Label())

	s, ok := ParseOrderStatus("cancelled")
	assert.True(t, ok)
	assert.Equal(t, OrderStatusCanceled, s)
	_, ok = ParseOrderStatus("shipped")
	assert.False(t, ok)
}

func TestSettingsFromUser(t *testing.T) {
	u := &User{Name: "Ada", Email: "ada@shop.test", Role: UserRoleAdmin, Notifications: DefaultNotificationSettings()}
	s := SettingsFromUser(u)
	assert.Equal(t, "Ada", s.Profile.FullName)
	assert.Equal(t, "", s.Profile.Phone)
	assert.Nil(t, s.Profile.Avatar)
	assert.True(t, s.Notifications.OrderAlerts)
	assert.True(t, s.Notifications.LowStockWarnings)
	assert.False(t, s.Notifications.WeeklyReports)
}

func TestSummarizeReportInput(t *testing.T) {
	var nilIn *SummarizeReportInput
	assert.True(t, nilIn.IsEmpty())
	assert.True(t, (&SummarizeReportInput{}).IsEmpty())

	n := int64(7)
	in := &SummarizeReportInput{TotalProducts: &n, TopCategories: []string{"Tools"}}
	assert.False(t, in.IsEmpty())
	s := in.Summary()
	assert.Equal(t, int64(7), s.TotalProducts)
	assert.Equal(t, int64(0), s.TotalStock)
	assert.Equal(t, []string{"Tools"}, s.TopCategories)
}
