package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"stock-tracker.backend/internal/domain/entities"
	"stock-tracker.backend/internal/infrastructure/models"
	"stock-tracker.backend/pkg/utils"
)

// OrderRepository implements OrderRepository
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, order *entities.Order) error {
	m := &models.Order{
		ID:         order.ID,
		OrderNo:    order.OrderNo,
		CustomerID: order.CustomerID,
		Amount:     order.Amount,
		Status:     string(order.Status),
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.CreatedAt,
	}
	return GetDB(ctx, r.db).Omit("Customer").Create(m).Error
}

// List returns orders newest first.
func (r *OrderRepository) List(ctx context.Context, filter entities.OrderFilter, pagination utils.PaginationParams) ([]*entities.Order, int64, error) {
	db := GetDB(ctx, r.db)

	var total int64
	if err := applyOrderFilter(db.Model(&models.Order{}), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := applyOrderFilter(db.Model(&models.Order{}), filter).
		Order("orders.created_at DESC").Order("orders.order_no ASC")
	if pagination.Limit > 0 {
		query = query.Offset(pagination.CalculateOffset()).Limit(pagination.Limit)
	}

	var ms []models.Order
	if err := query.Preload("Customer").Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	return toOrderEntities(ms), total, nil
}

func applyOrderFilter(query *gorm.DB, filter entities.OrderFilter) *gorm.DB {
	query = query.Joins("JOIN customers ON customers.id = orders.customer_id")
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		query = query.Where("(LOWER(orders.order_no) LIKE ? OR LOWER(customers.name) LIKE ?)", like, like)
	}
	if filter.Status != nil {
		query = query.Where("orders.status = ?", string(*filter.Status))
	}
	if filter.Since != nil {
		query = query.Where("orders.created_at >= ?", filter.Since.UTC())
	}
	return query
}

func (r *OrderRepository) Recent(ctx context.Context, limit int) ([]*entities.Order, error) {
	var ms []models.Order
	err := GetDB(ctx, r.db).Preload("Customer").
		Order("created_at DESC").Order("order_no ASC").
		Limit(limit).Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return toOrderEntities(ms), nil
}

// Stats computes order counters and completed revenue. LowStockItems and
// FulfillmentRate are left for the caller.
func (r *OrderRepository) Stats(ctx context.Context) (*entities.DashboardStats, error) {
	var row struct {
		TotalOrders     int64
		PendingOrders   int64
		CompletedOrders int64
		TotalRevenue    decimal.NullDecimal
	}
	completed := string(entities.OrderStatusCompleted)
	err := GetDB(ctx, r.db).Model(&models.Order{}).Select(
		"COUNT(*) AS total_orders, "+
			"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS pending_orders, "+
			"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS completed_orders, "+
			"SUM(CASE WHEN status = ? THEN amount ELSE 0 END) AS total_revenue",
		string(entities.OrderStatusPending), completed, completed,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}

	revenue := decimal.Zero
	if row.TotalRevenue.Valid {
		revenue = row.TotalRevenue.Decimal.Round(2)
	}
	return &entities.DashboardStats{
		TotalRevenue:    revenue,
		TotalOrders:     row.TotalOrders,
		PendingOrders:   row.PendingOrders,
		CompletedOrders: row.CompletedOrders,
	}, nil
}

// MonthlyRevenue buckets completed orders since the given time by UTC month.
// Bucketing happens here so the query stays portable across dialects.
func (r *OrderRepository) MonthlyRevenue(ctx context.Context, since time.Time) ([]entities.MonthlyRevenue, error) {
	var rows []struct {
		Amount    decimal.Decimal
		CreatedAt time.Time
	}
	err := GetDB(ctx, r.db).Model(&models.Order{}).
		Select("amount, created_at").
		Where("status = ? AND created_at >= ?", string(entities.OrderStatusCompleted), since.UTC()).
		Order("created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	var out []entities.MonthlyRevenue
	index := map[string]int{}
	for _, row := range rows {
		month := row.CreatedAt.UTC().Format("2006-01")
		i, ok := index[month]
		if !ok {
			index[month] = len(out)
			out = append(out, entities.MonthlyRevenue{Month: month, Revenue: decimal.Zero})
			i = len(out) - 1
		}
		out[i].Revenue = out[i].Revenue.Add(row.Amount)
		out[i].Orders++
	}
	return out, nil
}

func toOrderEntities(ms []models.Order) []*entities.Order {
	out := make([]*entities.Order, 0, len(ms))
	for i := range ms {
		m := &ms[i]
		out = append(out, &entities.Order{
			ID:           m.ID,
			OrderNo:      m.OrderNo,
			CustomerID:   m.CustomerID,
			CustomerName: m.Customer.Name,
			Amount:       m.Amount,
			Status:       entities.OrderStatus(m.Status),
			CreatedAt:    m.CreatedAt,
		})
	}
	return out
}

// CustomerRepository implements CustomerRepository
type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, customer *entities.Customer) error {
	m := &models.Customer{
		ID:        customer.ID,
		Name:      customer.Name,
		Email:     customer.Email,
		Phone:     customer.Phone,
		CreatedAt: customer.CreatedAt,
	}
	return GetDB(ctx, r.db).Create(m).Error
}

func (r *CustomerRepository) List(ctx context.Context) ([]*entities.Customer, error) {
	var ms []models.Customer
	if err := GetDB(ctx, r.db).Order("name ASC").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*entities.Customer, 0, len(ms))
	for _, m := range ms {
		out = append(out, &entities.Customer{
			ID:        m.ID,
			Name:      m.Name,
			Email:     m.Email,
			Phone:     m.Phone,
			CreatedAt: m.CreatedAt,
		})
	}
	return out, nil
}
