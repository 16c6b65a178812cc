package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sarchlab/seqmap/hooking"
	"github.com/sarchlab/seqmap/seqmap"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Walk through insert, reserve and redeem on two maps",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		c, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		return runDemo(cmd.OutOrStdout(), c.hooks())
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

// runDemo inserts into map A, reserves a key from A, shows that map B turns
// the reservation away, and redeems it against A.
func runDemo(w io.Writer, hooks []hooking.Hook) error {
	a, okA := seqmap.New[uint8, string]()
	b, okB := seqmap.New[uint8, string]()
	if !okA || !okB {
		return errors.New("no map IDs left in this process")
	}

	for _, h := range hooks {
		a.AcceptHook(h)
		b.AcceptHook(h)
	}

	k, ok := a.Insert("x")
	if !ok {
		return fmt.Errorf("map %d is exhausted", a.ID())
	}
	fmt.Fprintf(w, "map %d: insert %q -> key %d\n", a.ID(), "x", k)

	r, ok := a.Reserve()
	if !ok {
		return fmt.Errorf("map %d is exhausted", a.ID())
	}
	fmt.Fprintf(w, "map %d: reserve -> key %d\n", a.ID(), r.Key())

	_, err := b.Redeem(r, "y")

	var foreign *seqmap.ForeignReservationError[uint8]
	if !errors.As(err, &foreign) {
		return fmt.Errorf("map %d accepted a reservation issued by map %d",
			b.ID(), a.ID())
	}
	fmt.Fprintf(w, "map %d: redeem key %d -> rejected, issued by map %d\n",
		b.ID(), foreign.Reservation.Key(), foreign.Reservation.Origin())

	k, err = a.Redeem(foreign.Reservation, "y")
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "map %d: redeem key %d -> stored %q\n", a.ID(), k, "y")

	v, _ := a.Get(k)
	fmt.Fprintf(w, "map %d: get %d -> %q\n", a.ID(), k, v)

	return nil
}
