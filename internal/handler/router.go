package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kube-rca/incident-classifier/docs"
)

type RouterConfig struct {
	ServiceName        string
	CORSAllowedOrigins []string

	// JWTSecret, APIKeyHash 모두 비어있으면 /predict 인증 비활성화
	JWTSecret  string
	APIKeyHash string

	Predictor predictor
	Artifacts artifactWarmer

	// Metrics 가 nil 이면 /metrics 미등록
	Metrics http.Handler
	Logger  *zap.Logger
}

// NewRouter - 라우트 등록
//
//	GET  /, /health   liveness
//	GET  /ping
//	GET  /ready       아티팩트 로드 여부
//	GET  /metrics     Prometheus
//	GET  /openapi.json
//	POST /predict
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(logger))
	if len(cfg.CORSAllowedOrigins) > 0 {
		router.Use(CORSMiddleware(cfg.CORSAllowedOrigins, false))
	}

	health := NewHealthHandler(cfg.ServiceName, cfg.Artifacts, logger)
	router.GET("/", health.Health)
	router.GET("/health", health.Health)
	router.GET("/ping", Ping)
	router.GET("/ready", health.Ready)
	router.GET("/openapi.json", openAPIDoc)
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics))
	}

	predict := NewPredictHandler(cfg.Predictor, logger)
	if cfg.JWTSecret != "" || cfg.APIKeyHash != "" {
		router.POST("/predict", AuthMiddleware([]byte(cfg.JWTSecret), []byte(cfg.APIKeyHash)), predict.Predict)
	} else {
		router.POST("/predict", predict.Predict)
	}

	return router
}

// openAPIDoc - swag 로 등록된 문서 그대로 반환
func openAPIDoc(c *gin.Context) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(docs.SwaggerInfo.ReadDoc()))
}
