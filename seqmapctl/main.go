// Command seqmapctl exercises sequential-key maps from the command line.
package main

import "github.com/sarchlab/seqmap/seqmapctl/cmd"

func main() {
	cmd.Execute()
}
