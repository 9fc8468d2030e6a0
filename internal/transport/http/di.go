package http

import (
	"context"
	"fmt"
	"net/http"

	appauthz "github.com/orderhub/authz-gateway/internal/app/authz"
	appordrs "github.com/orderhub/authz-gateway/internal/app/orders"
	"github.com/orderhub/authz-gateway/internal/config"
	authzdomain "github.com/orderhub/authz-gateway/internal/domain/authz"
	ordersdomain "github.com/orderhub/authz-gateway/internal/domain/orders"
	"github.com/orderhub/authz-gateway/internal/domain/token"
	"github.com/orderhub/authz-gateway/internal/infra/cache"
	"github.com/orderhub/authz-gateway/internal/infra/permissions"
	ordershandler "github.com/orderhub/authz-gateway/internal/transport/http/handler"
	"github.com/orderhub/authz-gateway/pkg/logger"
	"github.com/orderhub/authz-gateway/pkg/otel"
	"github.com/orderhub/authz-gateway/pkg/tracer"
)

type Server struct {
	httpServer *http.Server
}

const (
	idleTimeoutMultiplier = 2
	serviceName           = "authz-gateway"
)

func NewServer(cfg *config.Config) (*Server, error) {
	logger.InitLogger(cfg.Observability.LogLevel, cfg.Observability.Format, cfg.Observability.LogSource)

	otelCfg := otel.Config{
		ServiceName:        serviceName,
		EndpointURL:        cfg.Observability.TracingEndpointURL,
		Enabled:            cfg.Observability.TraceEnabled,
		SampleRatio:        1.0,
		Insecure:           true,
		ResourceAttributes: make(map[string]string),
	}
	if err := tracer.InitTracer(serviceName, otelCfg); err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}

	redisClient, err := cache.NewRedisClient(cfg.Redis.URL, cfg.Redis.PoolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}
	decisionCache := cache.NewDecisionCache(redisClient)

	keyProvider, err := token.NewJWKSProvider(
		context.Background(),
		cfg.Auth.Issuer.JWKSURL,
		cfg.Auth.Issuer.KeySetTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS provider: %w", err)
	}

	verifier := token.NewVerifier(token.Config{
		Issuer:    cfg.Auth.Issuer.URL,
		ClientID:  cfg.Auth.Issuer.ClientID,
		ClockSkew: cfg.Auth.Issuer.ClockSkew,
	}, keyProvider)

	resolver := permissions.NewClient(
		cfg.Auth.PermissionsAPI.BaseURL,
		cfg.Auth.PermissionsAPI.Timeout,
	)

	pipeline := authzdomain.NewService(verifier, resolver)
	appService := appauthz.NewService(pipeline, decisionCache)

	ordersService := ordersdomain.NewService()
	ordersQueries := appordrs.NewQueryService(ordersService)
	ordersCommands := appordrs.NewCommandService(ordersService)
	ordersHandler := ordershandler.NewOrdersHandler(ordersQueries, ordersCommands)

	handler := NewHandler(appService, cfg)
	router := NewRouter(handler, ordersHandler, appService, cfg)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout * idleTimeoutMultiplier,
	}

	return &Server{
		httpServer: httpServer,
	}, nil
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
