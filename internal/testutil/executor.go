// Package testutil holds fakes shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Call records one invocation of FakeExecutor.
type Call struct {
	Dir  string
	Env  []string
	Name string
	Args []string
}

// FakeExecutor implements executor.Executor without spawning processes.
// Handler decides the output of each call.
type FakeExecutor struct {
	Handler func(call Call) (string, error)

	mu    sync.Mutex
	calls []Call
}

func (f *FakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	return f.do(ctx, Call{Name: name, Args: args})
}

func (f *FakeExecutor) ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (string, error) {
	return f.do(ctx, Call{Dir: dir, Name: name, Args: args})
}

func (f *FakeExecutor) ExecuteWithEnv(ctx context.Context, env []string, name string, args ...string) (string, error) {
	return f.do(ctx, Call{Env: env, Name: name, Args: args})
}

func (f *FakeExecutor) do(ctx context.Context, call Call) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
	if f.Handler == nil {
		return "", nil
	}
	return f.Handler(call)
}

// Calls returns a copy of the recorded calls.
func (f *FakeExecutor) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsTo returns the recorded calls to the named binary.
func (f *FakeExecutor) CallsTo(name string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Arg returns the value following flag in args, or "" when absent.
func Arg(args []string, flag string) string {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

// LastArg returns the final argument, which is the output path for ffmpeg.
func LastArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[len(args)-1]
}

func (c Call) String() string {
	return fmt.Sprintf("%s %s", c.Name, strings.Join(c.Args, " "))
}
