package ajimu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStringNames(t *testing.T) {
	assert.Equal(t, "pair", KindPair.String())
	assert.Equal(t, "fixnum", KindFixnum.String())
	assert.Equal(t, "unknown", Kind(255).String())
}

func TestRefSentinels(t *testing.T) {
	assert.Equal(t, Ref(-1), RefNone)
	assert.Equal(t, Ref(0), RefNil)
	assert.NotEqual(t, RefNone, RefNil)
}
