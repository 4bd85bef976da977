package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/halcyonlabs/halcyon/internal/topicmgr"
)

// Event[T] wraps a topic name and provides type-safe publishing and
// subscribing. It also registers itself with the topic manager so the CLI
// can document every event the application emits.
type Event[T any] struct {
	topicName string
}

// NewEvent creates a typed event and auto-registers it with the Default
// manager. It uses reflection over T's json tags to document the payload.
func NewEvent[T any](name string, description string) Event[T] {
	var zero T
	t := reflect.TypeOf(zero)
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	fields := make([]string, 0)
	typeName := ""
	if t != nil {
		typeName = t.Name()
		if t.Kind() == reflect.Struct {
			for i := 0; i < t.NumField(); i++ {
				jsonTag := t.Field(i).Tag.Get("json")
				if jsonTag == "" || jsonTag == "-" {
					continue
				}
				fields = append(fields, strings.SplitN(jsonTag, ",", 2)[0])
			}
		}
	}

	// The module name is the first dotted segment of the topic
	// (e.g. "about.viewer.jump" -> "about").
	module, _, _ := strings.Cut(name, ".")

	// Events are defined at package level, so a registration failure is a
	// configuration error that should stop startup.
	topicmgr.Default().MustRegister(topicmgr.DefineModule(topicmgr.TopicConfig{
		Name:        name,
		Module:      module,
		Description: description,
		Metadata: map[string]interface{}{
			"payload_fields": fields,
			"type_name":      typeName,
			"is_typed":       true,
		},
	}))

	return Event[T]{topicName: name}
}

// Name returns the topic name.
func (e Event[T]) Name() string {
	return e.topicName
}

// Publish sends a typed event. The compiler ensures 'payload' matches 'T'.
func Publish[T any](ctx context.Context, p Publisher, event Event[T], payload T) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", event.Name(), err)
	}

	return p.Publish(ctx, Message{
		Topic:   event.Name(),
		Payload: data,
	})
}

// Subscribe listens for a typed event, unmarshaling each payload into T
// before invoking the handler. Malformed payloads are reported as handler
// errors rather than dropped silently.
func Subscribe[T any](ctx context.Context, s Subscriber, event Event[T], handler func(ctx context.Context, payload T) error) error {
	return s.Subscribe(ctx, event.Name(), func(ctx context.Context, msg Message) error {
		var payload T
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return fmt.Errorf("failed to unmarshal %s payload: %w", event.Name(), err)
		}
		return handler(ctx, payload)
	})
}
