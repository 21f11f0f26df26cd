package core

import "sync"

type EventContext struct {
	Data struct {
		I64 [2]int64
		U64 [2]uint64
		F64 [2]float64

		I32 [4]int32
		U32 [4]uint32
		F32 [4]float32

		C [4]string
	}
}

// System internal event codes. Application should use codes beyond 255.
type SystemEventCode int

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT SystemEventCode = 0x01

	// A resource finished a load attempt.
	/* Context usage:
	 * u32 resource_id = data.data.u32[0];
	 */
	EVENT_CODE_RESOURCE_LOADED SystemEventCode = 0x02

	// A watched file changed on disk.
	/* Context usage:
	 * c path = data.data.c[0];
	 */
	EVENT_CODE_FILE_MODIFIED SystemEventCode = 0x03

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

// This should be more than enough codes...
const MAX_MESSAGE_CODES = 4096

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

type eventCodeEntry struct {
	events []*registeredEvent
}

// State structure.
type eventSystemState struct {
	// Lookup table for event codes.
	registered [MAX_MESSAGE_CODES]eventCodeEntry
}

/**
 * Event system internal state.
 */
var onceEvent sync.Once
var isInitialized bool = false
var eventState *eventSystemState = nil

// Should return true if handled.
type FnOnEvent func(code SystemEventCode, sender interface{}, listenerInst interface{}, data EventContext) bool

func EventInitialize() bool {
	if isInitialized {
		return false
	}
	onceEvent.Do(func() {
		eventState = &eventSystemState{}
	})
	isInitialized = true
	return true
}

func EventShutdown() error {
	// Free the events arrays. Any objects pointed to should be destroyed on their own.
	for i := 0; i < MAX_MESSAGE_CODES; i++ {
		if len(eventState.registered[i].events) != 0 {
			eventState.registered[i].events = nil
		}
	}
	isInitialized = false
	return nil
}

/**
 * Register to listen for when events are sent with the provided code. Events with duplicate
 * listener/callback combos will not be registered again and will cause this to return FALSE.
 * @param code The event code to listen for.
 * @param listener A pointer to a listener instance. Can be 0/NULL.
 * @param on_event The callback function pointer to be invoked when the event code is fired.
 * @returns TRUE if the event is successfully registered; otherwise false.
 */
func EventRegister(code SystemEventCode, listener interface{}, onEvent FnOnEvent) bool {
	if !isInitialized {
		return false
	}
	for _, e := range eventState.registered[code].events {
		if e.listener == listener {
			// TODO: warn
			return false
		}
	}
	// If at this point, no duplicate was found. Proceed with registration.
	event := &registeredEvent{
		listener: listener,
		callback: onEvent,
	}
	eventState.registered[code].events = append(eventState.registered[code].events, event)
	return true
}

/**
 * Unregister from listening for when events are sent with the provided code. If no matching
 * registration is found, this function returns FALSE.
 * @param code The event code to stop listening for.
 * @param listener A pointer to a listener instance. Can be 0/NULL.
 * @param on_event The callback function pointer to be unregistered.
 * @returns TRUE if the event is successfully unregistered; otherwise false.
 */
func EventUnregister(code SystemEventCode, listener interface{}, onEvent FnOnEvent) bool {
	if !isInitialized {
		return false
	}

	// On nothing is registered for the code, boot out.
	if len(eventState.registered[code].events) == 0 {
		// TODO: warn
		return false
	}

	for i, e := range eventState.registered[code].events {
		if e.listener == listener && e.callback != nil {
			// Found one, remove it
			events := eventState.registered[code].events
			eventState.registered[code].events = append(events[:i], events[i+1:]...)
			return true
		}
	}
	// Not found.
	return false
}

/**
 * Fires an event to listeners of the given code. If an event handler returns
 * TRUE, the event is considered handled and is not passed on to any more listeners.
 * @param code The event code to fire.
 * @param sender A pointer to the sender. Can be 0/NULL.
 * @param data The event data.
 * @returns TRUE if handled, otherwise FALSE.
 */
func EventFire(code SystemEventCode, sender interface{}, context EventContext) bool {
	if !isInitialized {
		return false
	}
	// If nothing is registered for the code, boot out.
	if len(eventState.registered[code].events) == 0 {
		return false
	}
	for _, e := range eventState.registered[code].events {
		if e.callback(code, sender, e.listener, context) {
			// Message has been handled, do not send to other listeners.
			return true
		}
	}
	// Not found.
	return false
}
