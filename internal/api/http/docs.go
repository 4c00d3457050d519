package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-yaml"

	"github.com/GriffinCanCode/pingchain/internal/infrastructure/config"
)

// APIVersion is the version advertised in the OpenAPI document.
const APIVersion = "1.0.0"

// Document is the subset of OpenAPI 3 used to describe the service.
type Document struct {
	OpenAPI string              `json:"openapi" yaml:"openapi"`
	Info    Info                `json:"info" yaml:"info"`
	Paths   map[string]PathItem `json:"paths" yaml:"paths"`
}

// Info describes the API.
type Info struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Version     string `json:"version" yaml:"version"`
}

// PathItem holds the operations of one path.
type PathItem struct {
	Get *Operation `json:"get,omitempty" yaml:"get,omitempty"`
}

// Operation describes one endpoint.
type Operation struct {
	Summary     string              `json:"summary" yaml:"summary"`
	OperationID string              `json:"operationId" yaml:"operationId"`
	Responses   map[string]Response `json:"responses" yaml:"responses"`
}

// Response describes one status code of an operation.
type Response struct {
	Description string `json:"description" yaml:"description"`
}

// NewDocument describes the routes served by a node named after service.
func NewDocument(service config.ServiceConfig) *Document {
	return &Document{
		OpenAPI: "3.0.3",
		Info: Info{
			Title:       service.Name,
			Description: "Ping chain node with W3C trace context propagation",
			Version:     APIVersion,
		},
		Paths: map[string]PathItem{
			"/": {Get: &Operation{
				Summary:     "Redirect to the API documentation",
				OperationID: "root",
				Responses:   map[string]Response{"307": {Description: "Redirect to /docs"}},
			}},
			"/ping": {Get: &Operation{
				Summary:     "Answer pong or forward to the next service",
				OperationID: "ping",
				Responses: map[string]Response{
					"200": {Description: "pong, or this service wrapping the next service's response"},
					"500": {Description: "The next service could not be reached or answered with an error"},
				},
			}},
			"/health": {Get: &Operation{
				Summary:     "Liveness check",
				OperationID: "health",
				Responses:   map[string]Response{"200": {Description: "Service is healthy"}},
			}},
			"/metrics": {Get: &Operation{
				Summary:     "Prometheus metrics",
				OperationID: "metrics",
				Responses:   map[string]Response{"200": {Description: "Prometheus exposition format"}},
			}},
		},
	}
}

// Docs serves the OpenAPI document as YAML
func (h *Handlers) Docs(c *gin.Context) {
	body, err := yaml.Marshal(h.docs)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Data(http.StatusOK, "application/yaml; charset=utf-8", body)
}

// OpenAPI serves the OpenAPI document as JSON
func (h *Handlers) OpenAPI(c *gin.Context) {
	c.JSON(http.StatusOK, h.docs)
}
