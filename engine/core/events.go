package core

import "sync"

// System internal event codes. Application should use codes beyond 255.
type EventCode uint16

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT EventCode = 0x01
	// Keyboard key pressed. Data: *KeyEvent
	EVENT_CODE_KEY_PRESSED EventCode = 0x02
	// Keyboard key released. Data: *KeyEvent
	EVENT_CODE_KEY_RELEASED EventCode = 0x03
	// Mouse button pressed. Data: *MouseEvent
	EVENT_CODE_BUTTON_PRESSED EventCode = 0x04
	// Mouse button released. Data: *MouseEvent
	EVENT_CODE_BUTTON_RELEASED EventCode = 0x05
	// Mouse moved. Data: *MouseEvent
	EVENT_CODE_MOUSE_MOVED EventCode = 0x06
	// Mouse wheel. Data: *MouseEvent
	EVENT_CODE_MOUSE_WHEEL EventCode = 0x07
	// Framebuffer resized. Data: *SystemEvent
	EVENT_CODE_RESIZED EventCode = 0x08
	// An asset on disk changed. Data: *AssetEvent
	EVENT_CODE_ASSET_CHANGED EventCode = 0x09

	MAX_EVENT_CODE EventCode = 0xFF
)

// This should be more than enough codes...
const MAX_MESSAGE_CODES = 16384

type EventContext struct {
	Type EventCode
	Data interface{}
}

type KeyEvent struct {
	KeyCode KeyCode
}

type MouseEvent struct {
	Button Button
	PosX   int32
	PosY   int32
	Scroll int8
}

type SystemEvent struct {
	WindowWidth  uint32
	WindowHeight uint32
}

type AssetEvent struct {
	Path string
}

// Should return true if handled.
type FnOnEvent func(context EventContext) bool

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

type eventSystemState struct {
	// Lookup table for event codes.
	registered [MAX_MESSAGE_CODES][]*registeredEvent
}

var onceEvent sync.Once
var eventsInitialized bool = false
var eventState *eventSystemState = nil

func EventSystemInitialize() bool {
	if eventsInitialized {
		return false
	}
	onceEvent.Do(func() {
		eventState = &eventSystemState{}
	})
	eventsInitialized = true
	return true
}

func EventSystemShutdown() error {
	if eventState == nil {
		return nil
	}
	// Free the events arrays. And objects pointed to should be destroyed on their own.
	for i := range eventState.registered {
		eventState.registered[i] = nil
	}
	eventsInitialized = false
	return nil
}

// EventRegister subscribes listener to code. A listener can only be
// registered once per code; duplicates return false.
func EventRegister(code EventCode, listener interface{}, onEvent FnOnEvent) bool {
	if !eventsInitialized {
		return false
	}
	for _, e := range eventState.registered[code] {
		if e.listener == listener {
			LogWarn("listener already registered for event code %d", code)
			return false
		}
	}
	eventState.registered[code] = append(eventState.registered[code], &registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

func EventUnregister(code EventCode, listener interface{}) bool {
	if !eventsInitialized {
		return false
	}
	events := eventState.registered[code]
	for i, e := range events {
		if e.listener == listener {
			eventState.registered[code] = append(events[:i], events[i+1:]...)
			return true
		}
	}
	// Not found.
	return false
}

// EventFire delivers context to the listeners of its code in registration
// order, stopping at the first one that reports the event handled.
func EventFire(context EventContext) bool {
	if !eventsInitialized {
		return false
	}
	for _, e := range eventState.registered[context.Type] {
		if e.callback(context) {
			// Message has been handled, do not send to other listeners.
			return true
		}
	}
	return false
}
