package handler

import (
	"github.com/gin-gonic/gin"

	appproduct "github.com/xiebiao/mall/internal/application/product"
	"github.com/xiebiao/mall/internal/interface/http/dto"
	"github.com/xiebiao/mall/internal/interface/http/middleware"
	"github.com/xiebiao/mall/pkg/response"
)

// ProductHandler 商品HTTP处理器
type ProductHandler struct {
	publishUseCase *appproduct.PublishUseCase
	getUseCase     *appproduct.GetUseCase
}

// NewProductHandler 创建商品处理器
func NewProductHandler(publish *appproduct.PublishUseCase, get *appproduct.GetUseCase) *ProductHandler {
	return &ProductHandler{publishUseCase: publish, getUseCase: get}
}

// Create 商品上架
// @Summary      商品上架
// @Description  卖家发布商品（需先开通店铺）
// @Tags         商品
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateProductRequest true "商品信息"
// @Success      201 {object} response.Response{data=appproduct.Response}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      401 {object} response.Response "未登录"
// @Failure      403 {object} response.Response "未开通店铺"
// @Failure      409 {object} response.Response "标题重复"
// @Router       /api/v1/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	result, err := h.publishUseCase.Execute(c.Request.Context(), appproduct.PublishRequest{
		UserID:        middleware.GetUserID(c),
		Title:         req.Title,
		Description:   req.Description,
		Price:         req.Price,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		Stock:         req.StockQuantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Get 商品详情
// @Summary      商品详情
// @Tags         商品
// @Produce      json
// @Param        id path int true "商品ID"
// @Success      200 {object} response.Response{data=appproduct.Response}
// @Failure      400 {object} response.Response "ID非法"
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /api/v1/products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.getUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
