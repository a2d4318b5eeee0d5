package dataplane

import (
	"strings"

	"raikou/internal/utils"
)

type fakeResult struct {
	out string
	err error
}

// fakeCommandFactory scripts command results by full command line and
// records every invocation.
type fakeCommandFactory struct {
	results map[string]fakeResult
	calls   []string
}

func newFakeCommandFactory() *fakeCommandFactory {
	return &fakeCommandFactory{results: map[string]fakeResult{}}
}

func (f *fakeCommandFactory) Command(name string, args ...string) utils.CommandExecutor {
	line := strings.TrimSpace(name + " " + strings.Join(args, " "))
	f.calls = append(f.calls, line)
	return &fakeCommand{result: f.results[line]}
}

func (f *fakeCommandFactory) called(line string) bool {
	for _, c := range f.calls {
		if c == line {
			return true
		}
	}
	return false
}

type fakeCommand struct {
	result fakeResult
}

func (c *fakeCommand) Run() error {
	return c.result.err
}

func (c *fakeCommand) Output() ([]byte, error) {
	return []byte(c.result.out), c.result.err
}

func (c *fakeCommand) CombineOutput() ([]byte, error) {
	return []byte(c.result.out), c.result.err
}
