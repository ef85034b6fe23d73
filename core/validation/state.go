// Package validation carries the rejection sink every Check/Execute path
// reports through: a DoS-scored reason code, mirroring the shape of the
// original CValidationState without adopting its C++ types. The teacher
// repo has no analogous type (its Executor just returns bool); this is
// grounded directly on original_source/src/tx/tx.cpp's pervasive
// `state.DoS(...)` calls.
package validation

import "fmt"

// Code classifies why a transaction was rejected, for callers deciding
// whether to ban a peer (out of scope here, kept only as a stable label).
type Code string

const (
	RejectInvalid       Code = "REJECT_INVALID"
	RejectMalformed     Code = "REJECT_MALFORMED"
	UpdateAccountFail   Code = "UPDATE_ACCOUNT_FAIL"
	ReadAccountFail     Code = "READ_ACCOUNT_FAIL"
)

// State accumulates the outcome of validating a single transaction. A
// fresh State is Valid until DoS is called.
type State struct {
	valid  bool
	score  int
	reason string
	code   Code
	tag    string
}

// New returns a State that starts out valid.
func New() *State { return &State{valid: true} }

// DoS records a rejection: score is the misbehavior weight a peer-scoring
// layer would apply (not used internally, carried for the caller),
// reason is a short machine label, code classifies the failure, and tag is
// the human-readable detail. It always returns false so callers can
// write `return false, state.DoS(...)`-style single-line rejections at
// each Check step, matching the original's control-flow shape without
// adopting its bool-return signature.
func (s *State) DoS(score int, reason string, code Code, tag string) bool {
	s.valid = false
	s.score = score
	s.reason = reason
	s.code = code
	s.tag = tag
	return false
}

// IsValid reports whether the State is still valid, i.e. DoS has not
// been called.
func (s *State) IsValid() bool { return s.valid }

// Code returns the rejection classification, or "" if still valid.
func (s *State) Code() Code { return s.code }

// Error renders the rejection as an error, or nil if still valid.
func (s *State) Error() error {
	if s.valid {
		return nil
	}
	return fmt.Errorf("%s: %s (%s, score %d)", s.code, s.reason, s.tag, s.score)
}
