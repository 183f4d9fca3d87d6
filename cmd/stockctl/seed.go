package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"stock-tracker.backend/internal/domain/entities"
	domainerrors "stock-tracker.backend/internal/domain/errors"
	domainrepos "stock-tracker.backend/internal/domain/repositories"
	"stock-tracker.backend/internal/infrastructure/repositories"
	"stock-tracker.backend/internal/usecases"
	"stock-tracker.backend/pkg/utils"
)

type seedOptions struct {
	AdminEmail    string
	AdminPassword string
}

type seedReport struct {
	AdminCreated bool
	Products     int
	Customers    int
	Orders       int
}

func (r seedReport) String() string {
	admin := "admin kept"
	if r.AdminCreated {
		admin = "admin created"
	}
	return fmt.Sprintf("seed complete: %s, %d products, %d customers, %d orders", admin, r.Products, r.Customers, r.Orders)
}

type seeder struct {
	users     domainrepos.UserRepository
	customers domainrepos.CustomerRepository
	orders    domainrepos.OrderRepository
	products  *usecases.ProductUsecase
	uow       domainrepos.UnitOfWork
	now       func() time.Time
}

func newSeeder(db *gorm.DB) *seeder {
	return &seeder{
		users:     repositories.NewUserRepository(db),
		customers: repositories.NewCustomerRepository(db),
		orders:    repositories.NewOrderRepository(db),
		products:  newProductUsecase(db),
		uow:       repositories.NewUnitOfWork(db),
		now:       time.Now,
	}
}

func (s *seeder) Run(ctx context.Context, opts seedOptions) (seedReport, error) {
	var report seedReport

	created, err := s.seedAdmin(ctx, opts)
	if err != nil {
		return report, err
	}
	report.AdminCreated = created

	result, err := s.products.BulkImport(ctx, demoProducts())
	if err != nil {
		return report, fmt.Errorf("seeding products: %w", err)
	}
	report.Products = result.Count

	existing, err := s.customers.List(ctx)
	if err != nil {
		return report, err
	}
	if len(existing) > 0 {
		return report, nil
	}

	err = s.uow.Do(ctx, func(ctx context.Context) error {
		customers, err := s.seedCustomers(ctx)
		if err != nil {
			return err
		}
		report.Customers = len(customers)
		report.Orders, err = s.seedOrders(ctx, customers)
		return err
	})
	return report, err
}

func (s *seeder) seedAdmin(ctx context.Context, opts seedOptions) (bool, error) {
	if len(opts.AdminPassword) < 8 {
		return false, errors.New("admin password must be at least 8 characters")
	}
	hash, err := hashPassword(opts.AdminPassword)
	if err != nil {
		return false, err
	}

	now := s.now().UTC()
	err = s.users.Create(ctx, &entities.User{
		ID:            utils.GenerateUUIDv7(),
		Email:         strings.ToLower(strings.TrimSpace(opts.AdminEmail)),
		Name:          "Demo Admin",
		PasswordHash:  hash,
		Role:          entities.UserRoleAdmin,
		EmailVerified: true,
		Notifications: entities.DefaultNotificationSettings(),
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if errors.Is(err, domainerrors.ErrEmailTaken) {
		return false, nil
	}
	return err == nil, err
}

func (s *seeder) seedCustomers(ctx context.Context) ([]*entities.Customer, error) {
	names := []string{"Ayu Lestari", "Budi Santoso", "Citra Dewi", "Dimas Pratama", "Eka Putri"}
	out := make([]*entities.Customer, 0, len(names))
	for _, name := range names {
		c := &entities.Customer{
			ID:        utils.GenerateUUIDv7(),
			Name:      name,
			Email:     null.StringFrom(strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com"),
			CreatedAt: s.now().UTC(),
		}
		if err := s.customers.Create(ctx, c); err != nil {
			return nil, fmt.Errorf("seeding customer %q: %w", name, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// seedOrders spreads orders over the trailing six months so reports have data.
func (s *seeder) seedOrders(ctx context.Context, customers []*entities.Customer) (int, error) {
	statuses := []entities.OrderStatus{
		entities.OrderStatusCompleted,
		entities.OrderStatusCompleted,
		entities.OrderStatusPending,
		entities.OrderStatusCompleted,
		entities.OrderStatusCanceled,
	}
	now := s.now().UTC()
	n := 0
	for month := 5; month >= 0; month-- {
		for i := 0; i < 3; i++ {
			placed := now.AddDate(0, -month, 0).Add(-time.Duration(i*26) * time.Hour)
			if month == 0 && i == 0 {
				placed = now.Add(-2 * time.Hour)
			}
			order := &entities.Order{
				ID:         utils.GenerateUUIDv7(),
				OrderNo:    uuid.NewString(),
				CustomerID: customers[n%len(customers)].ID,
				Amount:     decimal.NewFromInt(int64(45 + 37*n%180)).Add(decimal.RequireFromString("0.99")),
				Status:     statuses[n%len(statuses)],
				CreatedAt:  placed,
			}
			if month == 0 && i == 0 {
				order.Status = entities.OrderStatusPending
			}
			if err := s.orders.Create(ctx, order); err != nil {
				return n, fmt.Errorf("seeding order %d: %w", n, err)
			}
			n++
		}
	}
	return n, nil
}

func demoProducts() []entities.ImportRow {
	type p struct {
		name, category, sku, unit, supplier string
		cost, price                         string
		stock, minStock                     int
	}
	catalog := []p{
		{"Cordless Drill", "Tools", "TL-001", "pcs", "Makita Supply", "650000", "899000", 14, 5},
		{"Claw Hammer", "Tools", "TL-002", "pcs", "Makita Supply", "45000", "79000", 3, 5},
		{"Measuring Tape 5m", "Tools", "TL-003", "pcs", "Stanley Direct", "18000", "35000", 0, 4},
		{"LED Bulb 9W", "Electrical", "EL-001", "pcs", "Philips Dist", "12000", "22000", 120, 30},
		{"Extension Cord 3m", "Electrical", "EL-002", "pcs", "Philips Dist", "38000", "65000", 8, 10},
		{"Wall Paint White 5L", "Paint", "PT-001", "can", "Dulux Partner", "210000", "285000", 22, 6},
		{"Paint Roller 9in", "Paint", "PT-002", "pcs", "Dulux Partner", "15000", "29000", 40, 10},
		{"Wood Screws 100pk", "Fasteners", "FS-001", "box", "", "9000", "18000", 65, 15},
		{"Wall Plugs 50pk", "Fasteners", "FS-002", "box", "", "6000", "12500", 2, 10},
		{"Safety Gloves", "Safety", "SF-001", "pair", "3M Indonesia", "14000", "27000", 35, 12},
	}
	rows := make([]entities.ImportRow, 0, len(catalog))
	for _, c := range catalog {
		rows = append(rows, entities.ImportRow{
			"name":      c.name,
			"category":  c.category,
			"sku":       c.sku,
			"unit":      c.unit,
			"supplier":  c.supplier,
			"costprice": c.cost,
			"price":     c.price,
			"stock":     strconv.Itoa(c.stock),
			"minstock":  strconv.Itoa(c.minStock),
		})
	}
	return rows
}
