package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"food_order_api/internal/pkg/config"
	"food_order_api/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// OTPService 手机验证码服务
type OTPService interface {
	Send(phone string) (string, error)
	Verify(phone, code string) bool
}

type otpService struct {
	rdb *redis.Client
}

func NewOTPService(rdb *redis.Client) OTPService {
	return &otpService{rdb: rdb}
}

func otpKey(phone string) string {
	return fmt.Sprintf("otp:%s", phone)
}

// Send 生成并发送验证码
// 真实场景下应调用短信服务商接口，这里生成 6 位随机数存入 Redis 并打印到日志
func (s *otpService) Send(phone string) (string, error) {
	// 频率限制：5分钟有效期，剩余 > 4分钟说明刚发不久
	key := otpKey(phone)
	ttl, err := s.rdb.TTL(context.Background(), key).Result()
	if err == nil && ttl > 4*time.Minute {
		return "", fmt.Errorf("please wait before sending again")
	}

	code := config.GlobalConfig.App.TestOTPCode
	if code == "" {
		n, err := rand.Int(rand.Reader, big.NewInt(1000000))
		if err != nil {
			return "", err
		}
		code = fmt.Sprintf("%06d", n.Int64())
	}

	if err := s.rdb.Set(context.Background(), key, code, 5*time.Minute).Err(); err != nil {
		return "", err
	}

	logger.Log.Info("[OTP] code sent", zap.String("phone", phone))
	return code, nil
}

// Verify 验证验证码
// 验证成功后立即删除，防止重放
func (s *otpService) Verify(phone, code string) bool {
	key := otpKey(phone)
	val, err := s.rdb.Get(context.Background(), key).Result()
	if err != nil {
		return false
	}

	if val == code {
		s.rdb.Del(context.Background(), key)
		return true
	}
	return false
}
