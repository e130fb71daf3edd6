package builder

import "errors"

// Sentinel errors carried by Builder panics.
var (
	// ErrEmptyStack indicates EndTag was called with no open tag.
	ErrEmptyStack = errors.New("builder: end tag with empty tag stack")

	// ErrUnclosedTags indicates Result was called while tags were still open.
	ErrUnclosedTags = errors.New("builder: unclosed tags at finalization")

	// ErrFinalized indicates the Builder was used after Result.
	ErrFinalized = errors.New("builder: already finalized")
)
