package handlers

import (
	"net/http"
	"time"

	"lireddit/internal/metrics"

	"github.com/gin-gonic/gin"
	graphql "github.com/graph-gophers/graphql-go"
	"go.uber.org/zap"
)

type GraphQLHandler struct {
	schema     *graphql.Schema
	metrics    *metrics.Metrics
	log        *zap.Logger
	playground bool
}

func NewGraphQLHandler(schema *graphql.Schema, m *metrics.Metrics, log *zap.Logger, playground bool) *GraphQLHandler {
	return &GraphQLHandler{schema: schema, metrics: m, log: log, playground: playground}
}

type graphqlRequest struct {
	Query         string                 `json:"query" binding:"required"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Serve executes one GraphQL request. Errors from resolvers come back in
// the response body with status 200.
func (h *GraphQLHandler) Serve(c *gin.Context) {
	var req graphqlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"errors": []gin.H{{"message": "request body must be JSON with a query"}},
		})
		return
	}

	start := time.Now()
	resp := h.schema.Exec(c.Request.Context(), req.Query, req.OperationName, req.Variables)
	h.metrics.ObserveOperation(req.OperationName, len(resp.Errors) == 0, time.Since(start))

	if len(resp.Errors) > 0 {
		h.log.Debug("GraphQL errors",
			zap.String("operation", req.OperationName),
			zap.Int("count", len(resp.Errors)),
			zap.String("first", resp.Errors[0].Message),
		)
	}
	c.JSON(http.StatusOK, resp)
}

// Playground serves an in-browser IDE pointed at the same path.
func (h *GraphQLHandler) Playground(c *gin.Context) {
	if !h.playground {
		RenderError(c, http.StatusNotFound, "The GraphQL playground is disabled.")
		return
	}
	c.HTML(http.StatusOK, "playground.html", gin.H{"Endpoint": c.Request.URL.Path})
}
