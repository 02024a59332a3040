package gateway

import (
	"errors"
	"fmt"

	"food_order_api/internal/pkg/config"

	razorpay "github.com/razorpay/razorpay-go"
)

// RazorpayGateway Razorpay 实现
type RazorpayGateway struct {
	client *razorpay.Client
	config config.RazorpayConfig
}

func NewRazorpayGateway() (*RazorpayGateway, error) {
	cfg := config.GlobalConfig.Razorpay
	if cfg.KeyID == "" || cfg.KeySecret == "" {
		return nil, errors.New("razorpay config missing")
	}

	return &RazorpayGateway{
		client: razorpay.NewClient(cfg.KeyID, cfg.KeySecret),
		config: cfg,
	}, nil
}

// CreateOrder 注册网关订单
func (g *RazorpayGateway) CreateOrder(amountMinor int64, receipt string, notes map[string]interface{}) (string, error) {
	data := map[string]interface{}{
		"amount":   amountMinor,
		"currency": g.config.Currency,
		"receipt":  receipt,
		"notes":    notes,
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return "", err
	}

	id, ok := body["id"].(string)
	if !ok || id == "" {
		return "", fmt.Errorf("unexpected gateway response: missing order id")
	}
	return id, nil
}

func (g *RazorpayGateway) KeyID() string {
	return g.config.KeyID
}

var _ PaymentGateway = (*RazorpayGateway)(nil)
