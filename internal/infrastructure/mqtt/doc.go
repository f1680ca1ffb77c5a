// Package mqtt publishes item lifecycle events to an MQTT broker.
//
// The integration is optional (mqtt.enabled in config.yaml). When enabled,
// jsonvault announces its own status on a retained topic with a Last Will
// for crash detection, and publishes one event per successful item mutation
// or retention purge:
//
//	jsonvault/system/status          {"status":"online",...}   (retained)
//	jsonvault/items/<id>/event       {"action":"created",...}
//
// Consumers can mirror or index items by subscribing to
// jsonvault/items/+/event.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
package mqtt
