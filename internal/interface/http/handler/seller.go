package handler

import (
	"github.com/gin-gonic/gin"

	appseller "github.com/xiebiao/mall/internal/application/seller"
	"github.com/xiebiao/mall/internal/interface/http/dto"
	"github.com/xiebiao/mall/internal/interface/http/middleware"
	"github.com/xiebiao/mall/pkg/response"
)

// SellerHandler 店铺HTTP处理器
type SellerHandler struct {
	onboardUseCase    *appseller.OnboardUseCase
	getProfileUseCase *appseller.GetProfileUseCase
}

func NewSellerHandler(onboard *appseller.OnboardUseCase, getProfile *appseller.GetProfileUseCase) *SellerHandler {
	return &SellerHandler{onboardUseCase: onboard, getProfileUseCase: getProfile}
}

// Onboard 开通店铺
// @Summary      开通店铺
// @Tags         店铺
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.OnboardSellerRequest true "店铺信息"
// @Success      201 {object} response.Response{data=appseller.ProfileResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      401 {object} response.Response "未登录"
// @Failure      409 {object} response.Response "已开通或店铺名重复"
// @Router       /api/v1/sellers [post]
func (h *SellerHandler) Onboard(c *gin.Context) {
	var req dto.OnboardSellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	result, err := h.onboardUseCase.Execute(c.Request.Context(), appseller.OnboardRequest{
		UserID:   middleware.GetUserID(c),
		ShopName: req.ShopName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Me 我的店铺(含累计销售额和订单数)
// @Summary      我的店铺
// @Tags         店铺
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appseller.ProfileResponse}
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "未开通店铺"
// @Router       /api/v1/sellers/me [get]
func (h *SellerHandler) Me(c *gin.Context) {
	result, err := h.getProfileUseCase.Execute(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
