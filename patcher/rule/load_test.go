package rule

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
)

const rulesYAML = `rules:
  - name: greet
    pattern: '(hello) (\w+)'
    replacement: '${1}, dear ${2}'
  - name: sign
    pattern: 'bye'
    replacement: '$$bye'
    literal: true
    guard: 'signed'
`

func TestLoad(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	URL := "mem://localhost/patcher/rules.yaml"
	require.NoError(t, fs.Upload(ctx, URL, 0o644, strings.NewReader(rulesYAML)))

	set, err := Load(ctx, fs, URL)
	require.NoError(t, err)
	require.Len(t, set, 2)
	assert.Equal(t, "greet", set[0].Name)
	assert.True(t, set[1].Literal)

	actual, outcomes := set.Apply("hello world bye")
	assert.Equal(t, "hello, dear world $$bye", actual)
	assert.True(t, outcomes[0].Matched)
	assert.True(t, outcomes[1].Matched)
}

func TestLoad_Errors(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()

	_, err := Load(ctx, fs, "mem://localhost/patcher/missing.yaml")
	assert.Error(t, err)

	URL := "mem://localhost/patcher/empty.yaml"
	require.NoError(t, fs.Upload(ctx, URL, 0o644, strings.NewReader("rules: []\n")))
	_, err = Load(ctx, fs, URL)
	assert.ErrorIs(t, err, ErrInvalidRule)

	_, err = Parse([]byte("rules: [name: x"))
	assert.Error(t, err)
}
