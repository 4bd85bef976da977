package tracker

import "time"

const (
	// DefaultAutoplayInterval is the pause between automatic advances.
	DefaultAutoplayInterval = 6 * time.Second

	// DefaultResumeDelay is the inactivity window after which a
	// user-paused tracker resumes autoplay.
	DefaultResumeDelay = 12 * time.Second

	// DefaultJumpDebounce covers the duration of the smooth-scroll a jump
	// triggers. The scroll primitive has no completion callback, so observer
	// updates are suppressed for this fixed window instead.
	DefaultJumpDebounce = 800 * time.Millisecond

	// DefaultThreshold is the intersection ratio (within the central
	// viewport band) at which an entry becomes active under PolicyThreshold.
	DefaultThreshold = 0.5
)

type options struct {
	policy           ResolvePolicy
	threshold        float64
	autoplayEnabled  bool
	wrap             bool
	reducedMotion    bool
	autoplayInterval time.Duration
	resumeDelay      time.Duration
	jumpDebounce     time.Duration
	listener         Listener
}

func defaultOptions() options {
	return options{
		policy:           PolicyProgress,
		threshold:        DefaultThreshold,
		autoplayEnabled:  false,
		wrap:             true,
		autoplayInterval: DefaultAutoplayInterval,
		resumeDelay:      DefaultResumeDelay,
		jumpDebounce:     DefaultJumpDebounce,
	}
}

// Option is a function that configures a Tracker.
type Option func(*options)

// WithPolicy selects the active-entry resolution policy.
func WithPolicy(p ResolvePolicy) Option {
	return func(o *options) { o.policy = p }
}

// WithThreshold sets the intersection ratio for PolicyThreshold.
func WithThreshold(ratio float64) Option {
	return func(o *options) { o.threshold = ratio }
}

// WithAutoplay enables timer-driven advancement.
func WithAutoplay(enabled bool) Option {
	return func(o *options) { o.autoplayEnabled = enabled }
}

// WithWrap controls whether advancing past the last entry wraps to the
// first (true, the default) or stops there with the timer halted.
func WithWrap(wrap bool) Option {
	return func(o *options) { o.wrap = wrap }
}

// WithReducedMotion marks the visitor's reduced-motion preference at
// construction. Autoplay then never starts automatically.
func WithReducedMotion(reduced bool) Option {
	return func(o *options) { o.reducedMotion = reduced }
}

// WithAutoplayInterval overrides the advance interval (tests use milliseconds).
func WithAutoplayInterval(d time.Duration) Option {
	return func(o *options) { o.autoplayInterval = d }
}

// WithResumeDelay overrides the inactivity window before autoplay resumes.
func WithResumeDelay(d time.Duration) Option {
	return func(o *options) { o.resumeDelay = d }
}

// WithJumpDebounce overrides the observer-suppression window after a jump.
func WithJumpDebounce(d time.Duration) Option {
	return func(o *options) { o.jumpDebounce = d }
}

// WithListener registers a callback invoked after every observable state
// change. The callback runs outside the tracker's lock; calling back into
// the tracker from it is safe.
func WithListener(l Listener) Option {
	return func(o *options) { o.listener = l }
}
