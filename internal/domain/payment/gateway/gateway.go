package gateway

// PaymentGateway 在线支付网关
// 下单时以最小货币单位注册网关订单，返回网关订单号，用于后续对账
type PaymentGateway interface {
	// CreateOrder 注册网关订单
	// amountMinor: 最小货币单位金额（如 paise）
	// receipt: 本地收据号；notes 随回调原样带回，用于定位本地订单
	CreateOrder(amountMinor int64, receipt string, notes map[string]interface{}) (string, error)

	// KeyID 客户端发起支付所需的公开 key
	KeyID() string
}
