package docfile

import "errors"

// Sentinel errors for tree decoding. Structural errors carry the path of
// the offending node, e.g. "root.children[2]: unknown node kind".
var (
	ErrDecode          = errors.New("invalid tree file")
	ErrMissingRoot     = errors.New("missing root node")
	ErrMissingKind     = errors.New("missing node kind")
	ErrUnknownKind     = errors.New("unknown node kind")
	ErrUnexpectedField = errors.New("field not allowed for node kind")
	ErrMissingField    = errors.New("missing required field")
	ErrMisplacedItem   = errors.New("list items must be of kind item")
)
