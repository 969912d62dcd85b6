package mindmap

// Size selects how long a requested topic explanation is.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
)

// ExplanationCache holds at most one topic explanation: the one for the
// most recently selected topic at the current size preference. Selecting a
// different topic or changing the size replaces the whole entry, and a
// response that arrives for any older request is stale and never applied.
type ExplanationCache struct {
	topic   string
	size    Size
	text    string
	err     error
	loading bool
}

// Request makes (topic, size) the current key and enters loading. Whatever
// text was shown before is dropped immediately so it can never sit, stale,
// under a newer topic.
func (c *ExplanationCache) Request(topic string, size Size) {
	c.topic = topic
	c.size = size
	c.text = ""
	c.err = nil
	c.loading = true
}

// Apply installs the outcome of an explanation request. A response whose
// topic or size no longer matches the current key is dropped; the return
// value reports whether it was applied. A failed request leaves the text
// cleared with the error recorded against the current topic.
func (c *ExplanationCache) Apply(topic string, size Size, text string, err error) bool {
	if topic != c.topic || size != c.size {
		return false
	}
	c.loading = false
	if err != nil {
		c.text = ""
		c.err = err
		return true
	}
	c.text = text
	c.err = nil
	return true
}

// Clear forgets the selection entirely, for when a new map or source
// document replaces the current one.
func (c *ExplanationCache) Clear() {
	*c = ExplanationCache{}
}

// Selected reports whether a topic has been selected since the last Clear.
func (c *ExplanationCache) Selected() bool {
	return c.topic != ""
}

// Topic returns the currently selected topic label.
func (c *ExplanationCache) Topic() string {
	return c.topic
}

// Size returns the size preference the current request was issued at.
func (c *ExplanationCache) Size() Size {
	return c.size
}

// Text returns the explanation for the current topic. Empty while a request
// is in flight or after a failure.
func (c *ExplanationCache) Text() string {
	return c.text
}

// Err returns the failure recorded for the current topic, nil when the last
// request succeeded or is still in flight.
func (c *ExplanationCache) Err() error {
	return c.err
}

// Loading reports whether a request for the current key is in flight.
func (c *ExplanationCache) Loading() bool {
	return c.loading
}
