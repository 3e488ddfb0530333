package enums

import "fmt"

// BookCover represents the physical cover type of a catalog book.
type BookCover string

const (
	BookCoverHard BookCover = "HARD"
	BookCoverSoft BookCover = "SOFT"
)

var validBookCovers = []BookCover{
	BookCoverHard,
	BookCoverSoft,
}

// String implements fmt.Stringer.
func (b BookCover) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BookCover.
func (b BookCover) IsValid() bool {
	for _, candidate := range validBookCovers {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBookCover converts raw input into a BookCover.
func ParseBookCover(value string) (BookCover, error) {
	for _, candidate := range validBookCovers {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid book cover %q", value)
}
