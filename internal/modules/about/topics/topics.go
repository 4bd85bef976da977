// Package topics defines the client actions the About page is allowed to
// send over the WebSocket bridge. The action name doubles as the pub/sub
// topic the bridge publishes on.
package topics

import "github.com/halcyonlabs/halcyon/internal/topicmgr"

var (
	// TopicProgress carries continuous scroll-progress samples for a section.
	TopicProgress = topicmgr.Default().MustRegister(topicmgr.DefineModule(topicmgr.TopicConfig{
		Name:        "about.progress",
		Module:      "about",
		Description: "Scroll progress (0..1) through a tracked section",
		Metadata: map[string]interface{}{
			"source":         "client",
			"payload_fields": []string{"section", "progress"},
		},
	}))

	// TopicIntersect carries viewport-intersection callbacks for one entry.
	TopicIntersect = topicmgr.Default().MustRegister(topicmgr.DefineModule(topicmgr.TopicConfig{
		Name:        "about.intersect",
		Module:      "about",
		Description: "Intersection ratio for one entry of a tracked section",
		Metadata: map[string]interface{}{
			"source":         "client",
			"payload_fields": []string{"section", "index", "ratio", "visible"},
		},
	}))

	// TopicJump carries explicit dot/year/arrow navigation.
	TopicJump = topicmgr.Default().MustRegister(topicmgr.DefineModule(topicmgr.TopicConfig{
		Name:        "about.jump",
		Module:      "about",
		Description: "Explicit navigation to an entry (dot, year, or arrow)",
		Metadata: map[string]interface{}{
			"source":         "client",
			"payload_fields": []string{"section", "index", "direction"},
		},
	}))

	// TopicInteract carries generic interactions that pause autoplay.
	TopicInteract = topicmgr.Default().MustRegister(topicmgr.DefineModule(topicmgr.TopicConfig{
		Name:        "about.interact",
		Module:      "about",
		Description: "User interaction (hover, focus, touch) within a section",
		Metadata: map[string]interface{}{
			"source":         "client",
			"payload_fields": []string{"section", "visible"},
		},
	}))

	// TopicAutoplay carries the explicit autoplay on/off toggle.
	TopicAutoplay = topicmgr.Default().MustRegister(topicmgr.DefineModule(topicmgr.TopicConfig{
		Name:        "about.autoplay",
		Module:      "about",
		Description: "Explicit autoplay toggle for the testimonial carousel",
		Metadata: map[string]interface{}{
			"source":         "client",
			"payload_fields": []string{"section", "enabled"},
		},
	}))

	// TopicMotion reports the visitor's reduced-motion preference: once on
	// connect before any other action, then again whenever the OS-level
	// preference changes mid-visit.
	TopicMotion = topicmgr.Default().MustRegister(topicmgr.DefineModule(topicmgr.TopicConfig{
		Name:        "about.motion",
		Module:      "about",
		Description: "Visitor prefers-reduced-motion preference",
		Metadata: map[string]interface{}{
			"source":         "client",
			"payload_fields": []string{"reduced"},
		},
	}))
)

// ClientActions lists every action the bridge should whitelist for this
// module.
func ClientActions() []string {
	return []string{
		TopicProgress.Name(),
		TopicIntersect.Name(),
		TopicJump.Name(),
		TopicInteract.Name(),
		TopicAutoplay.Name(),
		TopicMotion.Name(),
	}
}
