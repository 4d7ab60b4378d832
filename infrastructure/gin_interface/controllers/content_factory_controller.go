package controllers

import (
	"context"
	"errors"
	"net/http"

	"content-factory/application/ports/inbound"
	"content-factory/application/ports/outbound"
	"content-factory/domain"
	"content-factory/infrastructure/gin_interface/dto"
	"content-factory/middleware"

	"github.com/gin-gonic/gin"
)

type ContentFactoryController interface {
	CreateContent(c *gin.Context)
	CreateContentBatch(c *gin.Context)
	RegisterRoutes(g *gin.Engine)
}

type contentFactoryController struct {
	logger      outbound.LoggerPort
	pipeline    inbound.ContentFactoryPipelinePort
	batchRunner inbound.BatchRunnerPort
}

func NewContentFactoryController(
	logger outbound.LoggerPort,
	pipeline inbound.ContentFactoryPipelinePort,
	batchRunner inbound.BatchRunnerPort) ContentFactoryController {
	return &contentFactoryController{
		logger:      logger,
		pipeline:    pipeline,
		batchRunner: batchRunner,
	}
}

func (ctrl *contentFactoryController) CreateContent(c *gin.Context) {
	var createContentRequest dto.CreateContentRequest
	newCtx, cancel := context.WithCancel(c)
	defer cancel()
	if err := c.ShouldBindJSON(&createContentRequest); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := createContentRequest.ToPipelineRequest()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "publish_at must be an RFC 3339 timestamp"})
		return
	}

	result, err := ctrl.pipeline.Run(newCtx, request)
	if err != nil {
		ctrl.abortWithPipelineError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (ctrl *contentFactoryController) CreateContentBatch(c *gin.Context) {
	var createBatchRequest dto.CreateBatchRequest
	newCtx, cancel := context.WithCancel(c)
	defer cancel()
	if err := c.ShouldBindJSON(&createBatchRequest); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := createBatchRequest.ToPipelineRequest()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "publish_at must be an RFC 3339 timestamp"})
		return
	}

	items, err := ctrl.batchRunner.Run(newCtx, inbound.BatchParams{
		Request: request,
		Count:   createBatchRequest.Count,
	})
	if err != nil {
		ctrl.logger.Error(err, "failed to start batch")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to start batch"})
		return
	}

	for item := range items {
		select {
		case <-newCtx.Done():
			return
		default:
		}

		if item.Err != nil {
			c.SSEvent("run_failed", gin.H{
				"index": item.Index,
				"kind":  string(domain.KindOf(item.Err)),
				"error": item.Err.Error(),
			})
		} else {
			c.SSEvent("run_complete", gin.H{
				"index":  item.Index,
				"result": item.Result,
			})
		}
		c.Writer.Flush()
	}

	c.SSEvent("batch_complete", nil)
	c.Writer.Flush()
}

func (ctrl *contentFactoryController) abortWithPipelineError(c *gin.Context, err error) {
	kind := domain.KindOf(err)

	status := http.StatusInternalServerError
	switch kind {
	case domain.ErrValidationFailed:
		status = http.StatusBadRequest
	case domain.ErrGenerationTimeout:
		status = http.StatusGatewayTimeout
	case domain.ErrGenerationFailed, domain.ErrUploadFailed:
		status = http.StatusBadGateway
	case domain.ErrAuthFailed:
		status = http.StatusUnauthorized
	case domain.ErrConfigurationMissing:
		status = http.StatusServiceUnavailable
	}

	ctrl.logger.ErrorWithFields(err, "pipeline run failed", map[string]interface{}{
		"kind": string(kind),
	})

	body := gin.H{"error": err.Error(), "kind": string(kind)}
	var pipelineErr *domain.PipelineError
	if errors.As(err, &pipelineErr) && pipelineErr.Detail != nil {
		body["detail"] = pipelineErr.Detail
	}

	c.AbortWithStatusJSON(status, body)
}

func (ctrl *contentFactoryController) RegisterRoutes(g *gin.Engine) {
	g.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	g.POST("/generate", ctrl.CreateContent)
	g.POST("/generate/batch", middleware.SSEMiddleware(), ctrl.CreateContentBatch)
}
