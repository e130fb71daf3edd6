package knots

import "github.com/alnah/go-knots/internal/builder"

// Sentinel errors carried by Render panics. A panic means the renderer
// produced unbalanced markup, which is a bug in this package, never a
// problem with the input document.
var (
	ErrEmptyStack   = builder.ErrEmptyStack
	ErrUnclosedTags = builder.ErrUnclosedTags
	ErrFinalized    = builder.ErrFinalized
)
