package statuspage

import (
	"encoding/json"
	"fmt"

	"github.com/leslieo2/status-lights/internal/constants"
)

// Parse builds a Snapshot from a summary response body.
//
// Components whose name is not a string are dropped, then the aggregate
// entry named aggregateName. The first constants.MaxServices remaining
// components are kept in received order; those among them with a string
// status populate the mapping.
func Parse(body []byte, aggregateName string) (Snapshot, error) {
	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return Snapshot{}, fmt.Errorf("%w: decode summary: %v", ErrFetch, err)
	}

	if err := validateSummary(doc); err != nil {
		return Snapshot{}, fmt.Errorf("%w: unexpected summary shape: %v", ErrFetch, err)
	}

	root := doc.(map[string]interface{})
	components := root["components"].([]interface{})

	named := make([]map[string]interface{}, 0, len(components))
	for _, c := range components {
		component, ok := c.(map[string]interface{})
		if !ok {
			continue
		}
		name, ok := component["name"].(string)
		if !ok || name == aggregateName {
			continue
		}
		named = append(named, component)
	}

	if len(named) > constants.MaxServices {
		named = named[:constants.MaxServices]
	}

	services := make(map[string]Status, len(named))
	for _, component := range named {
		status, ok := component["status"].(string)
		if !ok {
			continue
		}
		services[component["name"].(string)] = Status(status)
	}

	snapshot := Snapshot{Services: services}
	if page, ok := root["status"].(map[string]interface{}); ok {
		if description, ok := page["description"].(string); ok {
			snapshot.Description = description
		}
	}

	return snapshot, nil
}
