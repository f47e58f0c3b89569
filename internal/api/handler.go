package api

import (
	"net/http" // HTTP status codes
	"strings"  // Panic message detection

	"shop_api/internal/domain" // Error codes and safe messages

	"github.com/gin-gonic/gin"            // Gin web framework
	"github.com/graph-gophers/graphql-go" // Schema execution
	"github.com/sirupsen/logrus"          // Logging
)

// GraphQLRequest is the standard POST body
type GraphQLRequest struct {
	Query         string                 `json:"query" binding:"required"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// GraphQLHandler executes POSTed queries and mutations against schema
func GraphQLHandler(schema *graphql.Schema) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GraphQLRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"errors": []gin.H{{"message": "Invalid GraphQL request body"}}})
			return
		}
		// Resolvers write the session cookie through the response writer
		ctx := WithResponseWriter(c.Request.Context(), c.Writer)
		resp := schema.Exec(ctx, req.Query, req.OperationName, req.Variables)
		sanitizeErrors(resp, req.OperationName)
		c.JSON(http.StatusOK, resp) // Errors travel in the body per GraphQL convention
	}
}

// sanitizeErrors replaces resolver error text with the client safe message and
// attaches the error code. Internal failures are logged with their cause.
func sanitizeErrors(resp *graphql.Response, operation string) {
	for _, qe := range resp.Errors {
		if qe.ResolverError == nil {
			if strings.HasPrefix(qe.Message, "panic occurred") {
				qe.Message = domain.ErrorMessage(qe)
				qe.Extensions = map[string]interface{}{"code": domain.EINTERNAL}
			}
			continue // Syntax and validation errors are safe as they are
		}
		code := domain.ErrorCode(qe.ResolverError)
		entry := logrus.WithFields(logrus.Fields{
			"operation": operation,
			"path":      qe.Path,
			"code":      code,
			"error":     qe.ResolverError.Error(),
		})
		if code == domain.EINTERNAL {
			entry.Error("GraphQL resolver failed")
		} else {
			entry.Debug("GraphQL resolver rejected request")
		}
		qe.Message = domain.ErrorMessage(qe.ResolverError)
		qe.Extensions = map[string]interface{}{"code": code}
	}
}
