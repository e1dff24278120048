package handlers

import (
	"bytes"
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/santhosh-tekuri/jsonschema/v5"

	srvErrors "github.com/explorationlab/explorations/pkg/errors"
)

// PayloadField is the form field holding the JSON encoded request payload.
const PayloadField = "payload"

var (
	createExplorationSchema = jsonschema.MustCompileString("create_exploration.json", `{
		"type": "object",
		"required": ["title", "category"],
		"properties": {
			"title": {"type": "string", "minLength": 1},
			"category": {"type": "string", "minLength": 1},
			"exploration_id": {"type": "string", "pattern": "^[A-Za-z0-9_-]+$"}
		}
	}`)

	updateExplorationSchema = jsonschema.MustCompileString("update_exploration.json", `{
		"type": "object",
		"required": ["version"],
		"properties": {
			"version": {"type": "integer", "minimum": 1},
			"title": {"type": "string", "minLength": 1},
			"category": {"type": "string", "minLength": 1},
			"objective": {"type": "string"}
		},
		"additionalProperties": false
	}`)

	registerEditorSchema = jsonschema.MustCompileString("register_editor.json", `{
		"type": "object",
		"required": ["username", "agreed_to_terms"],
		"properties": {
			"username": {"type": "string"},
			"agreed_to_terms": {"type": "boolean"}
		}
	}`)

	adminActionSchema = jsonschema.MustCompileString("admin_action.json", `{
		"type": "object",
		"required": ["action"],
		"properties": {
			"action": {"enum": ["save_config_properties", "import_exploration"]},
			"new_config_property_values": {
				"type": "object",
				"additionalProperties": {"type": "array", "items": {"type": "string"}}
			},
			"url": {"type": "string", "minLength": 1}
		},
		"allOf": [
			{
				"if": {"properties": {"action": {"const": "save_config_properties"}}},
				"then": {"required": ["new_config_property_values"]}
			},
			{
				"if": {"properties": {"action": {"const": "import_exploration"}}},
				"then": {"required": ["url"]}
			}
		]
	}`)
)

type createExplorationRequest struct {
	Title         string `json:"title"`
	Category      string `json:"category"`
	ExplorationID string `json:"exploration_id"`
}

type updateExplorationRequest struct {
	Version   int64   `json:"version"`
	Title     *string `json:"title"`
	Category  *string `json:"category"`
	Objective *string `json:"objective"`
}

type registerEditorRequest struct {
	Username      string `json:"username"`
	AgreedToTerms bool   `json:"agreed_to_terms"`
}

type adminActionRequest struct {
	Action                  string              `json:"action"`
	NewConfigPropertyValues map[string][]string `json:"new_config_property_values"`
	URL                     string              `json:"url"`
}

// bindPayload validates the payload form field against schema and decodes
// it into dst.
func bindPayload(c *gin.Context, schema *jsonschema.Schema, dst any) error {
	raw := c.PostForm(PayloadField)
	if raw == "" {
		return srvErrors.NewValidationError("missing %s", PayloadField)
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return srvErrors.NewValidationError("invalid %s: %v", PayloadField, err)
	}
	if err := schema.Validate(doc); err != nil {
		return srvErrors.NewValidationError("invalid %s: %v", PayloadField, err)
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return srvErrors.NewValidationError("invalid %s: %v", PayloadField, err)
	}
	return nil
}
