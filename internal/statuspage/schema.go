package statuspage

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed summary.yaml
var summarySpec []byte

const (
	summaryPath   = "/api/v2/summary.json"
	summaryStatus = "200"
)

var (
	schemaOnce sync.Once
	schema     *openapi3.Schema
	schemaErr  error
)

// summarySchema loads the response schema of the summary operation from the
// embedded OpenAPI document. The document is parsed once per process.
func summarySchema() (*openapi3.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = loadSummarySchema(summarySpec)
	})
	return schema, schemaErr
}

func loadSummarySchema(data []byte) (*openapi3.Schema, error) {
	loader := openapi3.NewLoader()

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse summary schema: %w", err)
	}

	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("summary schema validation failed: %w", err)
	}

	pathItem := doc.Paths.Value(summaryPath)
	if pathItem == nil || pathItem.Get == nil {
		return nil, fmt.Errorf("summary schema has no GET %s", summaryPath)
	}

	response, exists := pathItem.Get.Responses.Map()[summaryStatus]
	if !exists || response == nil || response.Value == nil {
		return nil, fmt.Errorf("response %s not found", summaryStatus)
	}

	jsonContent := response.Value.Content.Get("application/json")
	if jsonContent == nil || jsonContent.Schema == nil || jsonContent.Schema.Value == nil {
		return nil, fmt.Errorf("no application/json schema defined")
	}

	return jsonContent.Schema.Value, nil
}

// validateSummary checks a decoded JSON document against the summary schema.
func validateSummary(doc interface{}) error {
	s, err := summarySchema()
	if err != nil {
		return err
	}
	return s.VisitJSON(doc)
}
