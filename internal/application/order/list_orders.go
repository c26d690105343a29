package order

import (
	"context"
	"time"

	"github.com/xiebiao/mall/internal/domain/order"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// ListOrdersUseCase 我的订单
type ListOrdersUseCase struct {
	orderRepo order.Repository
}

func NewListOrdersUseCase(orderRepo order.Repository) *ListOrdersUseCase {
	return &ListOrdersUseCase{orderRepo: orderRepo}
}

// OrderResponse 订单(总金额由明细汇总)
type OrderResponse struct {
	ID          uint                `json:"id"`
	OrderNo     string              `json:"order_no"`
	Status      string              `json:"status"`
	TotalAmount string              `json:"total_amount"`
	Items       []OrderItemResponse `json:"items"`
	CreatedAt   string              `json:"created_at"`
}

type OrderItemResponse struct {
	ProductID uint   `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

// ListOrdersRequest 订单列表请求
type ListOrdersRequest struct {
	UserID   uint
	Page     int // 页码(从1开始)
	PageSize int // 每页数量
}

// ListOrdersResponse 订单分页
type ListOrdersResponse struct {
	List       []OrderResponse `json:"list"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

// Execute 查询当前用户的订单,最新的在前
func (uc *ListOrdersUseCase) Execute(ctx context.Context, req ListOrdersRequest) (*ListOrdersResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = defaultPageSize
	}
	if req.PageSize > maxPageSize {
		req.PageSize = maxPageSize
	}

	orders, total, err := uc.orderRepo.ListByUserID(ctx, req.UserID, req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}

	list := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		items := make([]OrderItemResponse, len(o.Items))
		for i, item := range o.Items {
			items[i] = OrderItemResponse{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice.StringFixed(2),
				LineTotal: item.LineTotal().StringFixed(2),
			}
		}
		list = append(list, OrderResponse{
			ID:          o.ID,
			OrderNo:     o.OrderNo,
			Status:      o.Status.String(),
			TotalAmount: o.TotalAmount().StringFixed(2),
			Items:       items,
			CreatedAt:   o.CreatedAt.Format(time.RFC3339),
		})
	}

	totalPages := int(total) / req.PageSize
	if int(total)%req.PageSize != 0 {
		totalPages++
	}

	return &ListOrdersResponse{
		List:       list,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
	}, nil
}
