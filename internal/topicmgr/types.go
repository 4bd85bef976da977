package topicmgr

// Topic represents a strongly-typed topic identifier with compile-time safety.
type Topic interface {
	// Name returns the unique string identifier for this topic.
	Name() string

	// Module returns the module that owns this topic (empty for framework topics).
	Module() string

	// Description returns human-readable documentation.
	Description() string

	// Scope returns whether this is a framework or module topic.
	Scope() TopicScope
}

// TopicScope defines whether a topic belongs to framework or module level.
type TopicScope string

const (
	// ScopeFramework marks core framework topics (websocket routing, analytics).
	ScopeFramework TopicScope = "framework"
	// ScopeModule marks topics owned by an application module.
	ScopeModule TopicScope = "module"
)

// TopicConfig holds configuration for creating a new topic.
type TopicConfig struct {
	Name        string                 `json:"name"`
	Module      string                 `json:"module"`
	Scope       TopicScope             `json:"scope"`
	Description string                 `json:"description"`
	Metadata    map[string]interface{} `json:"metadata"`
}

// TypedTopic is the standard Topic implementation.
type TypedTopic struct {
	name        string
	module      string
	description string
	metadata    map[string]interface{}
	scope       TopicScope
}

// Compile-time interface compliance check.
var _ Topic = (*TypedTopic)(nil)

func (t *TypedTopic) Name() string                     { return t.name }
func (t *TypedTopic) Module() string                   { return t.module }
func (t *TypedTopic) Description() string              { return t.description }
func (t *TypedTopic) Scope() TopicScope                { return t.scope }
func (t *TypedTopic) Metadata() map[string]interface{} { return t.metadata }

// DefineFramework creates a new typed topic for framework services.
func DefineFramework(config TopicConfig) Topic {
	config.Scope = ScopeFramework
	config.Module = "" // Framework topics don't have a module.
	return newTyped(config)
}

// DefineModule creates a new typed topic for modules.
func DefineModule(config TopicConfig) Topic {
	config.Scope = ScopeModule
	return newTyped(config)
}

func newTyped(config TopicConfig) *TypedTopic {
	return &TypedTopic{
		name:        config.Name,
		module:      config.Module,
		description: config.Description,
		metadata:    config.Metadata,
		scope:       config.Scope,
	}
}
