// Package tests drives the compiled pipeline end to end: source text in,
// standard output out, compared against the §8 scenario table's literal
// inputs and expected outputs.
package tests

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orus-lang/orus/pkg/cli"
)

func runSource(t *testing.T, source string) (stdout string, exitCode int) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "main.orus")
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))

	var buf bytes.Buffer
	code := cli.Run(cli.Options{Path: path, Stdout: &buf})
	return buf.String(), code
}

func TestFunctionalScenarios(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "hello world",
			source: `fn main() { print("hello") }`,
			want:   "hello",
		},
		{
			name:   "arithmetic precedence",
			source: `fn main() { let x: i32 = 2 + 3 * 4 ; print("{}", x) }`,
			want:   "14\n",
		},
		{
			name: "factorial recursion",
			source: `fn fact(n: i32) -> i32 { if n <= 1 { return 1 } return n * fact(n - 1) }
fn main() { print("{}", fact(6)) }`,
			want: "720\n",
		},
		{
			name:   "array push and len",
			source: `fn main() { let a = [1,2,3]; push(a, 4); print("{} {}", len(a), a[3]) }`,
			want:   "4 4\n",
		},
		{
			name:   "for over a range",
			source: `fn main() { for i in 0..3 { print("{}", i) } }`,
			want:   "0\n1\n2\n",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, code := runSource(t, tc.source)
			require.Equal(t, cli.ExitOK, code)
			require.Equal(t, tc.want, got)
		})
	}
}

// TestFunctionalCatchUncaughtIndex covers scenario 5: the exact message
// is not pinned down by §8, only that the line begins "caught:".
func TestFunctionalCatchUncaughtIndex(t *testing.T) {
	source := `fn main() { try { let arr = [1]; print("{}", arr[5]) } catch e { print("caught: {}", e) } }`
	got, code := runSource(t, source)
	require.Equal(t, cli.ExitOK, code)
	require.True(t, strings.HasPrefix(got, "caught:"), "got %q", got)
}

func TestFunctionalCompileError(t *testing.T) {
	_, code := runSource(t, `fn main() { let x: i32 = "not a number" }`)
	require.Equal(t, cli.ExitCompile, code)
}

func TestFunctionalRuntimeError(t *testing.T) {
	source := `fn main() { let arr = [1]; print("{}", arr[5]) }`
	_, code := runSource(t, source)
	require.Equal(t, cli.ExitRuntime, code)
}
