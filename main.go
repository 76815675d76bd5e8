////////////////////////////////////////////////////////////////////////////////
// daovote: proposals, one vote per member and a token reward for every vote
////////////////////////////////////////////////////////////////////////////////

package main

import (
	"fmt"
	"os"

	"dao_voting/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
