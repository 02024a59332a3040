package handler

import (
	"net/http"

	"food_order_api/internal/domain/order/model"
	"food_order_api/internal/domain/order/service"
	userModel "food_order_api/internal/domain/user/model"
	"food_order_api/internal/pkg/middleware"
	"food_order_api/pkg/response"
	"food_order_api/pkg/utils"

	"github.com/gin-gonic/gin"
)

// OrderHandler 订单处理器
type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

// PlaceOrderInput 下单请求体
type PlaceOrderInput struct {
	Items []service.OrderItemInput `json:"items" binding:"required"`
}

func (h *OrderHandler) place(c *gin.Context, paymentMethod string) {
	var input PlaceOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID := middleware.GetUserID(c)
	result, err := h.service.PlaceOrder(userID, paymentMethod, input.Items)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Created(c, "Order placed successfully", result)
}

// PlaceCash 货到付款下单
// @Summary 货到付款下单
// @Tags Order
// @Router /order/place/cash [post]
func (h *OrderHandler) PlaceCash(c *gin.Context) {
	h.place(c, model.PaymentCash)
}

// PlaceOnline 在线支付下单
// @Summary 在线支付下单
// @Tags Order
// @Router /order/place/online [post]
func (h *OrderHandler) PlaceOnline(c *gin.Context) {
	h.place(c, model.PaymentOnline)
}

func bindPagination(c *gin.Context) (utils.Pagination, bool) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameter")
		return p, false
	}
	return p, true
}

// ListPending 待接单列表
// @Summary 待接单列表
// @Tags Order
// @Router /order/pending [get]
func (h *OrderHandler) ListPending(c *gin.Context) {
	p, ok := bindPagination(c)
	if !ok {
		return
	}

	result, err := h.service.ListPending(p)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, "Pending orders fetched successfully", result)
}

// ListAccepted 制作中列表
// @Summary 制作中列表
// @Tags Order
// @Router /order/accepted [get]
func (h *OrderHandler) ListAccepted(c *gin.Context) {
	p, ok := bindPagination(c)
	if !ok {
		return
	}

	result, err := h.service.ListAccepted(p)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, "Accepted orders fetched successfully", result)
}

// ListMine 当前顾客订单历史
// @Summary 我的订单
// @Tags Order
// @Router /order/user/all [get]
func (h *OrderHandler) ListMine(c *gin.Context) {
	p, ok := bindPagination(c)
	if !ok {
		return
	}

	result, err := h.service.ListByUser(middleware.GetUserID(c), p)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, "Orders fetched successfully", result)
}

// ListMinePending 当前顾客进行中订单
// @Summary 我的进行中订单
// @Tags Order
// @Router /order/user/pending [get]
func (h *OrderHandler) ListMinePending(c *gin.Context) {
	orders, err := h.service.ListPendingByUser(middleware.GetUserID(c))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, "Pending orders fetched successfully", orders)
}

func (h *OrderHandler) transition(c *gin.Context, to, message string) {
	actorID := middleware.GetUserID(c)
	admin := middleware.GetRole(c) == userModel.RoleAdmin

	order, err := h.service.Transition(c.Param("id"), to, actorID, admin)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, message, order)
}

// Accept 接单
// @Summary 接单
// @Tags Order
// @Router /order/accept/{id} [post]
func (h *OrderHandler) Accept(c *gin.Context) {
	h.transition(c, model.StatusCooking, "Order accepted successfully")
}

// Reject 取消订单（店家任意可取消的状态；顾客仅限自己的 PENDING 订单）
// @Summary 取消订单
// @Tags Order
// @Router /order/reject/{id} [post]
func (h *OrderHandler) Reject(c *gin.Context) {
	h.transition(c, model.StatusCancelled, "Order cancelled successfully")
}

// Delivered 完成交付
// @Summary 完成交付
// @Tags Order
// @Router /order/delivered/{id} [post]
func (h *OrderHandler) Delivered(c *gin.Context) {
	h.transition(c, model.StatusDelivered, "Order delivered successfully")
}

// SearchByDate 按日检索
// @Summary 按日检索订单
// @Tags Order
// @Router /order/search/date [get]
func (h *OrderHandler) SearchByDate(c *gin.Context) {
	p, ok := bindPagination(c)
	if !ok {
		return
	}

	result, err := h.service.SearchByDate(c.Query("date"), p)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, "Orders fetched successfully", result)
}

// SearchByMonth 按月检索
// @Summary 按月检索订单
// @Tags Order
// @Router /order/search/monthly [get]
func (h *OrderHandler) SearchByMonth(c *gin.Context) {
	p, ok := bindPagination(c)
	if !ok {
		return
	}

	result, err := h.service.SearchByMonth(c.Query("month"), p)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, "Orders fetched successfully", result)
}

// SearchByName 按顾客姓名检索
// @Summary 按顾客姓名检索订单
// @Tags Order
// @Router /order/search/name [get]
func (h *OrderHandler) SearchByName(c *gin.Context) {
	p, ok := bindPagination(c)
	if !ok {
		return
	}

	result, err := h.service.SearchByCustomerName(c.Query("name"), p)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, "Orders fetched successfully", result)
}

// MonthlyStats 月度经营统计
// @Summary 月度经营统计
// @Tags Order
// @Router /order/stats/monthly [get]
func (h *OrderHandler) MonthlyStats(c *gin.Context) {
	stats, err := h.service.MonthlyStats(c.Query("month"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, "Monthly stats fetched successfully", stats)
}
