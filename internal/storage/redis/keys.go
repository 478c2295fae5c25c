package redis

import (
	"fmt"

	"github.com/mcoot/triviaduel/internal/model"
)

// Key prefix for all trivia data
const keyPrefix = "trivia"

// questionsKey returns the Redis key for the LIST of questions of a topic and difficulty
func questionsKey(normalizedTopic string, difficulty model.Difficulty) string {
	return fmt.Sprintf("%s:questions:%s:%s", keyPrefix, normalizedTopic, difficulty)
}

// topicsKey returns the Redis key for the HASH of normalized topic -> display name
func topicsKey() string {
	return fmt.Sprintf("%s:topics", keyPrefix)
}

// questionListsIndexKey returns the Redis key for the SET of all question list keys
func questionListsIndexKey() string {
	return fmt.Sprintf("%s:idx:question_lists", keyPrefix)
}
