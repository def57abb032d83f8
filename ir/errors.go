package ir

import "errors"

// Structural error categories returned by Code.Check. Each is a
// sentinel that a caller can test for with errors.Is; the accompanying
// message (built with fmt.Errorf and %w) names the offending instruction.
var (
	ErrIndexMismatch        = errors.New("instruction index does not match its position")
	ErrVariableNeverDefined = errors.New("variable is never defined")
	ErrVariableNotVisible   = errors.New("variable is not visible anymore")
	ErrVariableRedefined    = errors.New("variable is already defined")
	ErrNonContiguousNumbering = errors.New("variable numbering is not contiguous")
	ErrBlockNeverStarted    = errors.New("block end has no matching block start")
	ErrBlockEndMismatch     = errors.New("block end does not match block start")
	ErrInvalidContext       = errors.New("operation used outside its required context")
	ErrForLoopHeaderMismatch = errors.New("for-loop header is inconsistent")
	ErrClassMissingMethods  = errors.New("class missing method definitions")
	ErrDuplicateSingular    = errors.New("singular operation occurs more than once in its enclosing context")
	ErrUnfinishedBlocks     = errors.New("code ends with unfinished blocks")
)
