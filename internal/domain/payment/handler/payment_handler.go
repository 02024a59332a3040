package handler

import (
	"net/http"

	"food_order_api/internal/domain/payment/service"
	"food_order_api/pkg/response"

	"github.com/gin-gonic/gin"
)

// PaymentHandler 支付处理器
type PaymentHandler struct {
	service service.PaymentService
}

func NewPaymentHandler(s service.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: s}
}

// Webhook 网关异步回调
// 验签针对原始报文，不能走 ShouldBindJSON
// @Summary 支付回调
// @Tags Payment
// @Router /payment/webhook [post]
func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Failed to read request body")
		return
	}

	signature := c.GetHeader("X-Razorpay-Signature")
	if err := h.service.HandleWebhook(body, signature); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, "Webhook processed", nil)
}

// VerifyInput 客户端验签请求体
type VerifyInput struct {
	RazorpayOrderID   string `json:"razorpayOrderId" binding:"required"`
	RazorpayPaymentID string `json:"razorpayPaymentId" binding:"required"`
	RazorpaySignature string `json:"razorpaySignature" binding:"required"`
}

// Verify 客户端支付完成后验签
// @Summary 支付验签
// @Tags Payment
// @Router /payment/verify [post]
func (h *PaymentHandler) Verify(c *gin.Context) {
	var input VerifyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, "All fields are required")
		return
	}

	order, err := h.service.VerifyPayment(input.RazorpayOrderID, input.RazorpayPaymentID, input.RazorpaySignature)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, "Payment verified successfully", order)
}

// CancelInput 取消未支付订单请求体
type CancelInput struct {
	OrderID         string `json:"orderId"`
	RazorpayOrderID string `json:"razorpayOrderId"`
}

// Cancel 放弃支付，取消未支付订单
// @Summary 取消未支付订单
// @Tags Payment
// @Router /payment/cancel [post]
func (h *PaymentHandler) Cancel(c *gin.Context) {
	var input CancelInput
	if err := c.ShouldBindJSON(&input); err != nil || (input.OrderID == "" && input.RazorpayOrderID == "") {
		response.Error(c, http.StatusBadRequest, "orderId or razorpayOrderId is required")
		return
	}

	if err := h.service.CancelUnpaidOrder(input.OrderID, input.RazorpayOrderID); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, "Order cancelled successfully", nil)
}
