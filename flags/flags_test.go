package flags

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestPrefixEnvVar(t *testing.T) {
	assert.Equal(t, []string{"CRUCIBLE_SEED"}, PrefixEnvVar(EnvVarPrefix, "SEED"))
}

func TestFlagsHaveEnvVars(t *testing.T) {
	for _, f := range Flags {
		names := f.Names()
		require.NotEmpty(t, names)
		docFlag, ok := f.(cli.DocGenerationFlag)
		require.True(t, ok, "flag %s", names[0])
		assert.NotEmpty(t, docFlag.GetEnvVars(), "flag %s should be settable via environment", names[0])
	}
}

func newContext(t *testing.T, args ...string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range Flags {
		require.NoError(t, f.Apply(set))
	}
	require.NoError(t, set.Parse(args))
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestCheckExclusive(t *testing.T) {
	assert.NoError(t, CheckExclusive(newContext(t)))
	assert.NoError(t, CheckExclusive(newContext(t, "-filter", "alpha")))
	assert.NoError(t, CheckExclusive(newContext(t, "-filter-location", "a/b.go")))

	err := CheckExclusive(newContext(t, "-filter", "alpha", "-filter-location", "a/b.go"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestDefaults(t *testing.T) {
	ctx := newContext(t)
	assert.Equal(t, "text", ctx.String(ReporterKind.Name))
	assert.Equal(t, "logs", ctx.String(LogDir.Name))
	assert.Equal(t, "info", ctx.String(LogLevel.Name))
	assert.Equal(t, 0, ctx.Int(Concurrency.Name))
	assert.False(t, ctx.IsSet(Seed.Name))
}
