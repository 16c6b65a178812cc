package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sarchlab/seqmap/hooking"
	"github.com/sarchlab/seqmap/tracing"
)

// Environment variables read by seqmapctl.
const (
	envRecord   = "SEQMAP_RECORD"
	envKeyWidth = "SEQMAP_KEY_WIDTH"
)

type config struct {
	record   string
	verbose  bool
	keyWidth int
}

// loadConfig merges, from lowest to highest precedence, defaults, the .env
// file in the working directory, the process environment and the flags of
// cmd. A missing .env file is not an error.
func loadConfig(cmd *cobra.Command) (config, error) {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config{}, fmt.Errorf("loading .env: %w", err)
	}

	c := config{keyWidth: 8}
	c.record = os.Getenv(envRecord)

	if w := os.Getenv(envKeyWidth); w != "" {
		c.keyWidth, err = strconv.Atoi(w)
		if err != nil {
			return config{}, fmt.Errorf("%s: %w", envKeyWidth, err)
		}
	}

	flags := cmd.Flags()

	if flags.Changed("record") {
		c.record, _ = flags.GetString("record")
	}

	c.verbose, _ = flags.GetBool("verbose")

	if flags.Changed("width") {
		c.keyWidth, _ = flags.GetInt("width")
	}

	switch c.keyWidth {
	case 8, 16, 32, 64:
	default:
		return config{}, fmt.Errorf("unsupported key width %d", c.keyWidth)
	}

	return c, nil
}

// hooks builds the hooks selected by c.
func (c config) hooks() []hooking.Hook {
	var hooks []hooking.Hook

	if c.verbose {
		hooks = append(hooks, tracing.NewLogHook(log.New(os.Stderr, "", 0)))
	}

	if c.record != "" {
		hooks = append(hooks, tracing.NewSQLiteRecorder(c.record))
	}

	return hooks
}
