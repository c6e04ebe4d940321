package store

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxTitleLength mirrors the width of tasks.title.
const MaxTitleLength = 100

var (
	// ErrTitleEmpty is returned when a task title is blank.
	ErrTitleEmpty = errors.New("title is required")

	// ErrTitleTooLong is returned when a task title does not fit the column.
	ErrTitleTooLong = fmt.Errorf("title must be at most %d characters", MaxTitleLength)
)

// NormalizeTitle trims title and checks it against the column constraints.
func NormalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrTitleEmpty
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", ErrTitleTooLong
	}
	return title, nil
}
