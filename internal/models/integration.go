package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Integration kinds
const (
	KindMQTT    = "mqtt"
	KindREST    = "rest"
	KindGraphQL = "graphql"
	KindOPCUA   = "opcua"
)

// IntegrationConnection is one configured external data source for a
// user. Settings is a tagged union discriminated by Kind; each kind has
// its own settings struct and validator.
type IntegrationConnection struct {
	ID        int             `json:"id"`
	UserID    string          `json:"user_id"`
	Kind      string          `json:"kind"`
	Name      string          `json:"name"`
	Enabled   bool            `json:"enabled"`
	Settings  json.RawMessage `json:"settings"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// MQTTSettings configures an MQTT broker connection.
type MQTTSettings struct {
	Broker      string `json:"broker"`
	Port        int    `json:"port"`
	Username    string `json:"username,omitempty"`
	Password    string `json:"password,omitempty"`
	ClientID    string `json:"client_id,omitempty"`
	TopicPrefix string `json:"topic_prefix,omitempty"`
	UseSSL      bool   `json:"use_ssl"`
}

// RESTSettings configures polling of a REST endpoint.
type RESTSettings struct {
	BaseURL         string `json:"base_url"`
	APIKey          string `json:"api_key,omitempty"`
	PollIntervalSec int    `json:"poll_interval_sec,omitempty"`
}

// GraphQLSettings configures polling of a GraphQL endpoint.
type GraphQLSettings struct {
	Endpoint string `json:"endpoint"`
	Query    string `json:"query"`
	APIKey   string `json:"api_key,omitempty"`
}

// OPCUASettings configures an OPC UA server connection.
type OPCUASettings struct {
	EndpointURL string `json:"endpoint_url"`
	NodeID      string `json:"node_id"`
	Username    string `json:"username,omitempty"`
	Password    string `json:"password,omitempty"`
}

// ValidateSettings checks the settings payload against the connection's
// kind. Unknown kinds and malformed payloads are rejected.
func (c *IntegrationConnection) ValidateSettings() error {
	switch c.Kind {
	case KindMQTT:
		var s MQTTSettings
		if err := json.Unmarshal(c.Settings, &s); err != nil {
			return fmt.Errorf("invalid mqtt settings: %w", err)
		}
		if s.Broker == "" {
			return fmt.Errorf("mqtt settings: broker is required")
		}
		if s.Port < 1 || s.Port > 65535 {
			return fmt.Errorf("mqtt settings: port must be between 1 and 65535")
		}
	case KindREST:
		var s RESTSettings
		if err := json.Unmarshal(c.Settings, &s); err != nil {
			return fmt.Errorf("invalid rest settings: %w", err)
		}
		if s.BaseURL == "" {
			return fmt.Errorf("rest settings: base_url is required")
		}
	case KindGraphQL:
		var s GraphQLSettings
		if err := json.Unmarshal(c.Settings, &s); err != nil {
			return fmt.Errorf("invalid graphql settings: %w", err)
		}
		if s.Endpoint == "" {
			return fmt.Errorf("graphql settings: endpoint is required")
		}
		if s.Query == "" {
			return fmt.Errorf("graphql settings: query is required")
		}
	case KindOPCUA:
		var s OPCUASettings
		if err := json.Unmarshal(c.Settings, &s); err != nil {
			return fmt.Errorf("invalid opcua settings: %w", err)
		}
		if s.EndpointURL == "" {
			return fmt.Errorf("opcua settings: endpoint_url is required")
		}
		if s.NodeID == "" {
			return fmt.Errorf("opcua settings: node_id is required")
		}
	default:
		return fmt.Errorf("unknown integration kind: %s", c.Kind)
	}
	return nil
}

// MaskSecrets replaces credential fields in the settings payload so they
// never appear in API responses.
func (c *IntegrationConnection) MaskSecrets() {
	var raw map[string]interface{}
	if err := json.Unmarshal(c.Settings, &raw); err != nil {
		return
	}
	for _, field := range []string{"password", "api_key"} {
		if v, ok := raw[field]; ok {
			if s, ok := v.(string); ok && s != "" {
				raw[field] = "********"
			}
		}
	}
	if masked, err := json.Marshal(raw); err == nil {
		c.Settings = masked
	}
}
