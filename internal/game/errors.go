package game

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput rejects blank actions and system messages before any
	// oracle call is made.
	ErrEmptyInput = errors.New("input is empty")

	// ErrPromptTooShort rejects adventure prompts below the minimum length.
	ErrPromptTooShort = fmt.Errorf("adventure prompt must be at least %d characters", minPromptLen)

	// ErrSessionEnded rejects operations on a finished session.
	ErrSessionEnded = errors.New("the session has ended")

	// errNoNarration marks an oracle result missing its required narration.
	errNoNarration = errors.New("oracle returned no narration")

	// errNegativeScore marks a state patch that would spend score below zero.
	errNegativeScore = errors.New("state patch has a negative score")
)

// OracleError wraps a collaborator failure. The orchestrators convert every
// oracle error into one of these at the boundary; nothing propagates into
// the session store, and the prior state stays committed.
type OracleError struct {
	Op  string
	Err error
}

func (e *OracleError) Error() string {
	return fmt.Sprintf("oracle %s: %v", e.Op, e.Err)
}

func (e *OracleError) Unwrap() error {
	return e.Err
}
