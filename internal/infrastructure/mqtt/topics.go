package mqtt

import "fmt"

// Topic prefixes for jsonvault.
const (
	// TopicPrefix is the base for all jsonvault topics.
	TopicPrefix = "jsonvault"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "jsonvault/system"

	// TopicPrefixItems is the base for item topics.
	TopicPrefixItems = "jsonvault/items"
)

// Topics provides builders for jsonvault MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
type Topics struct{}

// SystemStatus returns the retained topic for service online/offline status.
//
// Example: jsonvault/system/status
func (Topics) SystemStatus() string {
	return TopicPrefixSystem + "/status"
}

// ItemEvent returns the topic for lifecycle events of one item.
//
// Example: jsonvault/items/3e1f.../event
func (Topics) ItemEvent(id string) string {
	return fmt.Sprintf("%s/%s/event", TopicPrefixItems, id)
}
