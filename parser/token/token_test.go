// Copyright © 2024 The ELPS authors

package token

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeString(t *testing.T) {
	used := make(map[string]bool)
	for tok := Type(0); tok < numTokenTypes; tok++ {
		str := tok.String()
		t.Log(str)
		if str == "" {
			t.Errorf("token type %x has empty string value", tok)
			continue
		}
		if used[str] {
			t.Errorf("token type string used twice: %v", tok)
		}
		used[str] = true
	}
	assert.Equal(t, "invalid", numTokenTypes.String())
}

func TestLocationError(t *testing.T) {
	cause := errors.New("boom")
	err := &LocationError{Err: cause, Source: &Location{File: "x.lisp", Line: 3, Col: 7}}
	assert.Equal(t, "x.lisp:3:7: boom", err.Error())
	assert.ErrorIs(t, err, cause)
}
