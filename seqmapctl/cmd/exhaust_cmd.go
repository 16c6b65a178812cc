package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/seqmap/hooking"
	"github.com/sarchlab/seqmap/idgen"
	"github.com/sarchlab/seqmap/seqmap"
)

var exhaustCmd = &cobra.Command{
	Use:   "exhaust",
	Short: "Reserve keys from a counter-keyed map until it runs out",
	Long: `Reserve keys from a counter-keyed map until it runs out. ` +
		`Widths of 32 and 64 bits take very long from zero; use --start to ` +
		`begin close to the end of the key space.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		c, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		start, _ := cmd.Flags().GetUint64("start")

		var res exhaustResult

		hooks := c.hooks()
		switch c.keyWidth {
		case 8:
			res, err = exhaust[uint8](start, hooks)
		case 16:
			res, err = exhaust[uint16](start, hooks)
		case 32:
			res, err = exhaust[uint32](start, hooks)
		default:
			res, err = exhaust[uint64](start, hooks)
		}

		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if res.count == 0 {
			fmt.Fprintf(out, "width %d: exhausted at start %d\n",
				c.keyWidth, start)

			return nil
		}

		fmt.Fprintf(out, "width %d: %d keys reserved (%d..%d), then exhausted\n",
			c.keyWidth, res.count, res.first, res.last)

		return nil
	},
}

func init() {
	exhaustCmd.Flags().Int("width", 8, "key width in bits: 8, 16, 32 or 64 (env SEQMAP_KEY_WIDTH)")
	exhaustCmd.Flags().Uint64("start", 0, "first key the counter emits")
	rootCmd.AddCommand(exhaustCmd)
}

type exhaustResult struct {
	count       uint64
	first, last uint64
}

func exhaust[K idgen.Unsigned](
	start uint64,
	hooks []hooking.Hook,
) (exhaustResult, error) {
	if start > uint64(^K(0)) {
		return exhaustResult{}, fmt.Errorf("start %d does not fit the key width", start)
	}

	gen := idgen.NewCounter(idgen.WithStart(K(start)))

	m, ok := seqmap.NewWithGenerator[K, struct{}](gen)
	if !ok {
		return exhaustResult{}, errors.New("no map IDs left in this process")
	}

	for _, h := range hooks {
		m.AcceptHook(h)
	}

	var res exhaustResult

	for {
		r, ok := m.Reserve()
		if !ok {
			break
		}

		if res.count == 0 {
			res.first = uint64(r.Key())
		}

		res.last = uint64(r.Key())
		res.count++
	}

	return res, nil
}
