package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"kfly/internal/config"
	"kfly/internal/output"
	"kfly/internal/process"
	"kfly/internal/task"
)

// getMaintainerOutput is sample get_maintainer.pl output: one maintainer, one
// reviewer and a mailing list line that is not a contact.
const getMaintainerOutput = `Jane Doe <jane@x.org> (maintainer:DRIVER)
John Roe <john@x.org> (reviewer)
netdev@vger.kernel.org (open list:NETWORKING DRIVERS)
`

// testApp bundles an [App] with the mocks behind it.
type testApp struct {
	*App
	Executor *process.MockExecutor
	Out      *bytes.Buffer
}

// newTestApp creates an App with a mock executor, captured output, the given
// stdin and the standard test workflow.
func newTestApp(t *testing.T, stdin string) *testApp {
	t.Helper()

	executor := &process.MockExecutor{
		Results: map[string]process.MockResult{
			"perl": {Stdout: getMaintainerOutput},
		},
	}
	out := &bytes.Buffer{}

	return &testApp{
		App: &App{
			Config:   testConfig(t.TempDir()),
			Executor: executor,
			Printer:  output.NewPrinterWithWriter(out),
			Stdin:    strings.NewReader(stdin),
		},
		Executor: executor,
		Out:      out,
	}
}

// testConfig returns a workflow of checkpatch, discovery and mail.
func testConfig(kernelRoot string) *config.Config {
	return &config.Config{
		Settings: config.Settings{
			KernelRoot: kernelRoot,
			TestEmail:  "me@example.org",
			Mail:       config.MailConfig{ToFlag: "--to=", CcFlag: "--cc="},
		},
		Workflow: []config.TaskConfig{
			{Name: "checkpatch", Command: "./scripts/checkpatch.pl", Args: []string{"{patch}"}, FailFast: true},
			{Name: task.NameDiscovery, Command: "scripts/get_maintainer.pl", Args: []string{"{patch}"}, FailFast: true},
			{Name: task.NameMail, Command: "git send-email", Args: []string{"{patch}"}, FailFast: true},
		},
	}
}

// createPatchFile writes a patch into a temporary directory and returns its
// canonical path.
func createPatchFile(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "0001-net-fix-leak.patch")
	if err := os.WriteFile(path, []byte("From: Jane Doe <jane@x.org>\nSubject: [PATCH] net: fix leak\n"), 0644); err != nil {
		t.Fatalf("failed to write patch file: %v", err)
	}

	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("failed to resolve patch path: %v", err)
	}
	return resolved
}

// invocationOf returns the first recorded invocation of the executable name.
func (a *testApp) invocationOf(name string) (process.Invocation, bool) {
	for _, inv := range a.Executor.Invocations {
		if inv.Name == name {
			return inv, true
		}
	}
	return process.Invocation{}, false
}
