// Package idgen provides short unique ID generation backed by nanoid.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes for generated IDs
const (
	TaskPrefix    = "task-"
	HistoryPrefix = "hist-"
)

// Alphabet defines the character set used for the random portion of the ID.
// Lowercase only so ids stay easy to type on the command line.
var Alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Length is the number of random characters generated (excluding the prefix).
var Length = 8

// Generate returns a new task ID.
func Generate() (string, error) {
	return GenerateWithPrefix(TaskPrefix)
}

// GenerateWithPrefix returns a new unique ID with the given prefix.
func GenerateWithPrefix(prefix string) (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}
