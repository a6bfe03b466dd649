// Command kfly runs a patch submission workflow: user-defined checks,
// maintainer discovery and git send-email, driven by kfly.toml.
package main

import "kfly/internal/cli"

func main() {
	cli.Execute()
}
