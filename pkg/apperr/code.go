package apperr

// 业务状态码
const (
	CodeSuccess = 0

	// 用户模块错误 100xx
	CodeUserExists   = 10001
	CodeUserNotFound = 10002
	CodeAuthFailed   = 10003
	CodeTokenInvalid = 10004
	CodeNoPermission = 10005
	CodeOTPInvalid   = 10006

	// 门店模块错误 200xx
	CodeStoreNotFound = 20001
	CodeStoreExists   = 20002
	CodeStoreClosed   = 20003

	// 菜单模块错误 300xx
	CodeCategoryNotFound = 30001
	CodeProductNotFound  = 30002

	// 订单模块错误 400xx
	CodeOrderNotFound     = 40001
	CodeEmptyOrder        = 40002
	CodeInvalidTransition = 40003
	CodeInvalidQuery      = 40004

	// 支付模块错误 600xx
	CodeSignatureMismatch = 60001
	CodeAlreadyPaid       = 60002
	CodeGatewayError      = 60003

	// 系统错误 500xx
	CodeServerInternal  = 50001
	CodeInvalidParam    = 50002
	CodeTooManyRequests = 50003
)
