package service

import (
	"errors"
	"gateway/config"
	"gateway/lalamove"
	"gateway/redis"
	"gateway/zenpay"
	"strings"

	"github.com/valyala/fasthttp"
)

const maxBodySize = 16 << 20 // 16 MB

const blAtKeyPrefix = "bl:at:"

var ErrNoAccessToken = errors.New("no access-token")
var ErrAccessTokenExpired = errors.New("access-token expired")
var ErrRedis = errors.New("redis error")

// Service wires the signed carrier/gateway clients and webhook secrets into
// the HTTP handlers. Secrets are injected once at construction; handlers
// never read ambient configuration.
type Service struct {
	config        *config.Config
	carrier       *lalamove.Client
	gateway       *zenpay.Client
	webhookSecret string
}

func NewService(config *config.Config, carrier *lalamove.Client, gateway *zenpay.Client, webhookSecret string) *Service {
	return &Service{
		config:        config,
		carrier:       carrier,
		gateway:       gateway,
		webhookSecret: webhookSecret,
	}
}

func (s *Service) NewServer() *fasthttp.Server {
	basePath := strings.Trim(s.config.BasePath, "/")
	srv := &fasthttp.Server{
		Handler: func(ctx *fasthttp.RequestCtx) {
			parts := strings.Split(strings.Trim(string(ctx.Path()), "/"), "/")
			if len(parts) < 2 || parts[0] != basePath {
				ctx.Error("not found", fasthttp.StatusNotFound)
				return
			}

			switch parts[1] {
			case "webhook":
				// Inbound callbacks authenticate by signature, not bearer token.
				if len(parts) != 3 {
					ctx.Error("not found", fasthttp.StatusNotFound)
					return
				}
				switch parts[2] {
				case "lalamove":
					s.carrierWebhook(ctx)
				case "zenpay":
					s.gatewayWebhook(ctx)
				default:
					ctx.Error("not found", fasthttp.StatusNotFound)
				}
			case "payment":
				if len(parts) == 3 && parts[2] == "return" {
					s.paymentReturn(ctx)
				} else {
					ctx.Error("not found", fasthttp.StatusNotFound)
				}
			case "quotation", "create_order", "update_webhook", "mock_status", "checkout":
				if len(parts) != 2 {
					ctx.Error("not found", fasthttp.StatusNotFound)
					return
				}

				if err := authMiddleware(ctx); err != nil {
					handleError(ctx, err, fasthttp.StatusUnauthorized)
					return
				}

				switch parts[1] {
				case "quotation":
					s.getQuotation(ctx)
				case "create_order":
					s.createOrder(ctx)
				case "update_webhook":
					s.updateWebhook(ctx)
				case "mock_status":
					s.mockStatus(ctx)
				case "checkout":
					s.createCheckout(ctx)
				}
			case "order", "cancel_order", "dispatch", "priority_fee", "edit_order":
				if len(parts) != 3 {
					ctx.Error("not found", fasthttp.StatusNotFound)
					return
				}

				if err := authMiddleware(ctx); err != nil {
					handleError(ctx, err, fasthttp.StatusUnauthorized)
					return
				}

				switch parts[1] {
				case "order":
					s.getOrder(ctx, parts[2])
				case "cancel_order":
					s.cancelOrder(ctx, parts[2])
				case "dispatch":
					s.dispatchOrder(ctx, parts[2])
				case "priority_fee":
					s.addPriorityFee(ctx, parts[2])
				case "edit_order":
					s.editOrder(ctx, parts[2])
				}
			case "health":
				healthCheckHandler(ctx)
			default:
				ctx.Error("not found", fasthttp.StatusNotFound)
			}
		},

		MaxRequestBodySize: maxBodySize,
		ReadTimeout:        s.config.ServerConfig.ReadTimeout,
		WriteTimeout:       s.config.ServerConfig.WriteTimeout,
		IdleTimeout:        s.config.ServerConfig.IdleTimeout,
		Concurrency:        s.config.ServerConfig.Concurrency,
	}

	return srv
}

func authMiddleware(ctx *fasthttp.RequestCtx) error {
	authHeader := string(ctx.Request.Header.Peek("Authorization"))
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ErrNoAccessToken
	}

	claims, err := parseToken(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		return err
	}

	exists, err := redis.Client.CheckTokenBlacklist(blAtKeyPrefix, claims)
	if err != nil && !errors.Is(err, redis.ErrNil) {
		return ErrRedis
	}

	// Token was logged out; a new login is required.
	if exists {
		return ErrAccessTokenExpired
	}

	return nil
}
