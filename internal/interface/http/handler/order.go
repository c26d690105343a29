package handler

import (
	"github.com/gin-gonic/gin"

	apporder "github.com/xiebiao/mall/internal/application/order"
	"github.com/xiebiao/mall/internal/interface/http/middleware"
	"github.com/xiebiao/mall/pkg/response"
)

// OrderHandler 订单HTTP处理器
type OrderHandler struct {
	checkoutUseCase   *apporder.CheckoutUseCase
	listOrdersUseCase *apporder.ListOrdersUseCase
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(checkout *apporder.CheckoutUseCase, list *apporder.ListOrdersUseCase) *OrderHandler {
	return &OrderHandler{checkoutUseCase: checkout, listOrdersUseCase: list}
}

// Checkout 结算购物车
// @Summary      结算
// @Description  将当前购物车整体下单:校验实时库存和状态,按加购快照价成交,扣减库存,累加卖家统计,清空购物车
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Success      201 {object} response.Response{data=apporder.CheckoutResponse} "下单成功"
// @Failure      400 {object} response.Response "购物车为空/商品不可售/库存不足"
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "没有可结算的购物车"
// @Failure      500 {object} response.Response "系统繁忙,请重试"
// @Router       /api/v1/checkout [post]
func (h *OrderHandler) Checkout(c *gin.Context) {
	result, err := h.checkoutUseCase.Execute(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// ListOrders 我的订单
// @Summary      我的订单
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(10)
// @Success      200 {object} response.Response{data=apporder.ListOrdersResponse}
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	result, err := h.listOrdersUseCase.Execute(c.Request.Context(), apporder.ListOrdersRequest{
		UserID:   middleware.GetUserID(c),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 10),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
