package transport

import (
	"fmt"
	"regexp"
)

const contentTopicPrefix = "wkcht-v1-"

var topicPattern = regexp.MustCompile(`^/waku-chat/(\d+)/wkcht-v1-(dm|group|system)-([^/]+)/proto$`)

// TopicError is returned when a content topic does not match the
// bit-exact grammar required for interop.
type TopicError struct {
	Topic string
}

func (e *TopicError) Error() string {
	return fmt.Sprintf("transport: content topic %q does not match the wkcht-v1 grammar", e.Topic)
}

// DirectTopic builds the content topic for a direct conversation.
func DirectTopic(conversationID string) string {
	return fmt.Sprintf("/waku-chat/1/wkcht-v1-dm-%s/proto", conversationID)
}

// GroupTopic builds the content topic for a group conversation.
func GroupTopic(conversationID string) string {
	return fmt.Sprintf("/waku-chat/1/wkcht-v1-group-%s/proto", conversationID)
}

// SystemTopic builds the content topic for system-to-user delivery.
func SystemTopic(userID string) string {
	return fmt.Sprintf("/waku-chat/1/wkcht-v1-system-%s/proto", userID)
}

// TopicKind is the routing category encoded in a content topic.
type TopicKind string

const (
	TopicDirect TopicKind = "dm"
	TopicGroup  TopicKind = "group"
	TopicSystem TopicKind = "system"
)

// ParsedTopic is the decomposition of a content topic into its
// version, kind, and the conversation or user id it routes to.
type ParsedTopic struct {
	Version int
	Kind    TopicKind
	ID      string
}

// ParseTopic rejects topics that do not match the wkcht-v1 grammar.
func ParseTopic(topic string) (ParsedTopic, error) {
	m := topicPattern.FindStringSubmatch(topic)
	if m == nil {
		return ParsedTopic{}, &TopicError{Topic: topic}
	}
	version := 0
	for _, c := range m[1] {
		version = version*10 + int(c-'0')
	}
	return ParsedTopic{Version: version, Kind: TopicKind(m[2]), ID: m[3]}, nil
}
