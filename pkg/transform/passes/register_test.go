package passes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/afmark/pkg/transform"
	"github.com/yaklabco/afmark/pkg/transform/passes"
)

func TestRegisterAll(t *testing.T) {
	t.Parallel()

	reg := transform.NewRegistry()
	passes.RegisterAll(reg)

	assert.Equal(t, []string{
		"shadebox",
		"tabs",
		"admonitions",
		"collapsible",
		"table-styles",
		"dnl",
		"uicontrol",
		"badges",
		"meta-badges",
		"header-anchors",
		"link-targets",
		"single-newline",
		"images",
	}, reg.Names())

	for _, pass := range reg.Passes() {
		assert.NotEmpty(t, pass.Description(), pass.Name())
	}
}

func TestDefaultRegistry(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"admonitions", "tabs", "images"} {
		_, ok := transform.DefaultRegistry.Get(name)
		assert.True(t, ok, name)
	}

	chain, err := transform.NewChain(transform.DefaultRegistry, nil)
	require.NoError(t, err)
	assert.False(t, chain.Enabled("single-newline"))
	assert.True(t, chain.Enabled("images"))
}

func TestPasses_NilState(t *testing.T) {
	t.Parallel()

	reg := transform.NewRegistry()
	passes.RegisterAll(reg)

	for _, pass := range reg.Passes() {
		require.ErrorIs(t, pass.Apply(nil), transform.ErrNilState, pass.Name())
	}
}
