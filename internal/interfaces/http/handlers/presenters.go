package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"

	"stock-tracker.backend/internal/domain/entities"
	"stock-tracker.backend/pkg/utils"
)

type productView struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Price        decimal.Decimal `json:"price"`
	CostPrice    decimal.Decimal `json:"costPrice"`
	Stock        int             `json:"stock"`
	MinStock     int             `json:"minStock"`
	Unit         string          `json:"unit"`
	SKU          null.String     `json:"sku"`
	Barcode      null.String     `json:"barcode"`
	Supplier     null.String     `json:"supplier"`
	Location     null.String     `json:"location"`
	Description  null.String     `json:"description"`
	Status       string          `json:"status"`
	ProfitMargin string          `json:"profitMargin"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func presentProduct(p *entities.Product) productView {
	return productView{
		ID:           p.ID,
		Name:         p.Name,
		Category:     p.CategoryName,
		Price:        p.Price,
		CostPrice:    p.CostPrice,
		Stock:        p.Stock,
		MinStock:     p.MinStock,
		Unit:         p.Unit,
		SKU:          p.SKU,
		Barcode:      p.Barcode,
		Supplier:     p.Supplier,
		Location:     p.Location,
		Description:  p.Description,
		Status:       p.Status.Label(),
		ProfitMargin: p.ProfitMargin(),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func presentProducts(products []*entities.Product) []productView {
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, presentProduct(p))
	}
	return out
}

type orderView struct {
	ID       string          `json:"id"`
	Customer string          `json:"customer"`
	Amount   decimal.Decimal `json:"amount"`
	Status   string          `json:"status"`
	Date     time.Time       `json:"date"`
}

func presentOrders(orders []*entities.Order) []orderView {
	out := make([]orderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, orderView{
			ID:       o.OrderNo,
			Customer: o.CustomerName,
			Amount:   o.Amount,
			Status:   o.Status.Label(),
			Date:     o.CreatedAt,
		})
	}
	return out
}

func presentUser(u *entities.User) gin.H {
	return gin.H{
		"id":            u.ID,
		"email":         u.Email,
		"name":          u.Name,
		"role":          u.Role,
		"emailVerified": u.EmailVerified,
	}
}

func paginated(data interface{}, meta utils.PaginationMeta) gin.H {
	return gin.H{
		"data": data,
		"meta": meta,
	}
}
