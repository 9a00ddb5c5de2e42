package bridge

import "github.com/zoobzio/capitan"

// Bridge signals.
var (
	// BridgeReloading is emitted when a bridge subscribes to a fresh source.
	BridgeReloading = capitan.NewSignal(
		"formz.bridge.reloading",
		"Bridge source subscribed",
	)

	// BridgeLoaded is emitted when a source delivers a value.
	BridgeLoaded = capitan.NewSignal(
		"formz.bridge.loaded",
		"Bridge value delivered",
	)

	// BridgeFailed is emitted when a source delivers an error.
	BridgeFailed = capitan.NewSignal(
		"formz.bridge.failed",
		"Bridge source failed",
	)
)

// KeyGeneration identifies the subscription a bridge event belongs to.
var KeyGeneration = capitan.NewIntKey("generation")
