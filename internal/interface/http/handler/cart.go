package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	appcart "github.com/xiebiao/mall/internal/application/cart"
	"github.com/xiebiao/mall/internal/domain/cart"
	"github.com/xiebiao/mall/internal/interface/http/dto"
	"github.com/xiebiao/mall/internal/interface/http/middleware"
	"github.com/xiebiao/mall/pkg/response"
)

// CartHandler 购物车HTTP处理器
type CartHandler struct {
	addUseCase    *appcart.AddToCartUseCase
	viewUseCase   *appcart.ViewCartUseCase
	removeUseCase *appcart.RemoveItemUseCase
}

// NewCartHandler 创建购物车处理器
func NewCartHandler(
	add *appcart.AddToCartUseCase,
	view *appcart.ViewCartUseCase,
	remove *appcart.RemoveItemUseCase,
) *CartHandler {
	return &CartHandler{addUseCase: add, viewUseCase: view, removeUseCase: remove}
}

// AddToCart 加入购物车
// @Summary      加入购物车
// @Description  数量为1-100的整数(数字或数字字符串),省略时为1;已在购物车中的商品合并数量并刷新快照价
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        productId path int true "商品ID"
// @Param        request body dto.AddToCartRequest false "加购数量"
// @Success      201 {object} response.Response{data=appcart.AddToCartResponse} "新增明细"
// @Success      200 {object} response.Response{data=appcart.AddToCartResponse} "合并到已有明细"
// @Failure      400 {object} response.Response "参数错误/商品不可售/超出库存"
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /api/v1/add-to-cart/{productId} [post]
func (h *CartHandler) AddToCart(c *gin.Context) {
	productID, err := pathID(c, "productId")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, bindError(err))
		return
	}
	quantity := cart.DefaultQuantity
	if req.Quantity != nil {
		quantity = int(*req.Quantity)
	}

	result, err := h.addUseCase.Execute(c.Request.Context(), appcart.AddToCartRequest{
		UserID:    middleware.GetUserID(c),
		ProductID: productID,
		Quantity:  quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if result.Created {
		response.Created(c, result)
		return
	}
	response.Success(c, result)
}

// GetCart 查看购物车
// @Summary      查看购物车
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appcart.CartResponse}
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "购物车不存在"
// @Router       /api/v1/cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	result, err := h.viewUseCase.Execute(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// RemoveItem 删除购物车明细
// @Summary      删除购物车明细
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "明细ID"
// @Success      200 {object} response.Response
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "明细不存在"
// @Router       /api/v1/cart-item/{id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	itemID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.removeUseCase.Execute(c.Request.Context(), middleware.GetUserID(c), itemID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"id": itemID})
}
