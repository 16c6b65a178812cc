package seqmap

import (
	"errors"
	"maps"
	"math"
	"slices"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/xid"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/seqmap/hooking"
	"github.com/sarchlab/seqmap/idgen"
)

type eventRecorder struct {
	positions []*hooking.HookPos
	events    []Event
}

func (r *eventRecorder) Func(ctx hooking.HookCtx) {
	r.positions = append(r.positions, ctx.Pos)
	r.events = append(r.events, ctx.Item.(Event))
}

func mustNew[K idgen.Unsigned, V any](opts ...Option) *Map[K, V] {
	m, ok := New[K, V](opts...)
	Expect(ok).To(BeTrue())

	return m
}

var _ = Describe("Map", func() {
	var (
		a *Map[uint8, string]
		b *Map[uint8, string]
	)

	BeforeEach(func() {
		a = mustNew[uint8, string]()
		b = mustNew[uint8, string]()
	})

	It("should give every map its own ID", func() {
		Expect(a.ID()).NotTo(Equal(b.ID()))
	})

	It("should run the reserve and redeem scenario", func() {
		k, ok := a.Insert("x")
		Expect(ok).To(BeTrue())
		Expect(k).To(Equal(uint8(0)))

		r, ok := a.Reserve()
		Expect(ok).To(BeTrue())
		Expect(r.Key()).To(Equal(uint8(1)))
		Expect(r.Origin()).To(Equal(a.ID()))

		_, err := b.Redeem(r, "y")
		Expect(err).To(MatchError(ErrForeignReservation))

		var foreign *ForeignReservationError[uint8]
		Expect(errors.As(err, &foreign)).To(BeTrue())
		Expect(foreign.Reservation).To(Equal(r))
		Expect(foreign.Map).To(Equal(b.ID()))

		k, err = a.Redeem(foreign.Reservation, "y")
		Expect(err).NotTo(HaveOccurred())
		Expect(k).To(Equal(uint8(1)))

		v, ok := a.Get(1)
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("y"))
	})

	It("should reject a foreign reservation the same way every time", func() {
		a.Insert("x")
		r, _ := a.Reserve()

		for i := 0; i < 3; i++ {
			k, err := b.Redeem(r, "y")
			Expect(k).To(BeZero())
			Expect(errors.Is(err, ErrForeignReservation)).To(BeTrue())
			Expect(b.Len()).To(Equal(0))
			Expect(a.Len()).To(Equal(1))
			Expect(b.Owns(r)).To(BeFalse())
			Expect(a.Owns(r)).To(BeTrue())
		}

		_, ok := a.Get(r.Key())
		Expect(ok).To(BeFalse())
	})

	It("should not emit a reserved key again", func() {
		r, _ := a.Reserve()
		k, _ := a.Insert("x")

		Expect(k).NotTo(Equal(r.Key()))
		Expect(a.Contains(r.Key())).To(BeFalse())
	})

	It("should round trip inserted values", func() {
		want := map[uint8]string{}
		for _, v := range []string{"a", "b", "c", "d"} {
			k, ok := a.Insert(v)
			Expect(ok).To(BeTrue())
			want[k] = v
		}

		for k, v := range want {
			got, ok := a.Get(k)
			Expect(ok).To(BeTrue())
			Expect(got).To(Equal(v))
		}

		_, ok := a.Get(200)
		Expect(ok).To(BeFalse())
	})

	It("should emit distinct keys until the generator is exhausted", func() {
		seen := map[uint8]bool{}

		for i := 0; ; i++ {
			var (
				k  uint8
				ok bool
			)

			if i%2 == 0 {
				k, ok = a.Insert("v")
			} else {
				var r Reservation[uint8]
				r, ok = a.Reserve()
				k = r.Key()
			}

			if !ok {
				break
			}

			Expect(seen).NotTo(HaveKey(k))
			seen[k] = true
		}

		Expect(seen).To(HaveLen(math.MaxUint8))

		_, ok := a.Insert("late")
		Expect(ok).To(BeFalse())
		_, ok = a.Reserve()
		Expect(ok).To(BeFalse())
	})

	It("should resolve keys from another map without checking origin", func() {
		ka, _ := a.Insert("from a")
		kb, _ := b.Insert("from b")
		Expect(ka).To(Equal(kb))

		v, ok := b.Get(ka)
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("from b"))
	})

	It("should panic when a reservation is redeemed twice", func() {
		r, _ := a.Reserve()
		_, err := a.Redeem(r, "first")
		Expect(err).NotTo(HaveOccurred())

		Expect(func() { a.Redeem(r, "second") }).To(Panic())

		v, _ := a.Get(r.Key())
		Expect(v).To(Equal("first"))
	})

	It("should redeem a reservation handed to another goroutine", func() {
		r, _ := a.Reserve()

		ch := make(chan Reservation[uint8])
		go func() {
			defer GinkgoRecover()
			ch <- r
		}()

		k, err := a.Redeem(<-ch, "async")
		Expect(err).NotTo(HaveOccurred())
		Expect(k).To(Equal(r.Key()))
	})

	It("should iterate over stored entries", func() {
		a.Insert("x")
		r, _ := a.Reserve()
		a.Insert("z")
		a.Redeem(r, "y")

		Expect(maps.Collect(a.All())).To(Equal(map[uint8]string{
			0: "x", 1: "y", 2: "z",
		}))
		Expect(slices.Sorted(a.Keys())).To(Equal([]uint8{0, 1, 2}))
		Expect(slices.Sorted(a.Values())).To(Equal([]string{"x", "y", "z"}))
		Expect(a.Len()).To(Equal(3))
	})

	It("should report capacity", func() {
		m := mustNew[uint16, int](WithCapacity(16))
		Expect(m.Capacity()).To(Equal(16))

		for i := 0; i < 20; i++ {
			m.Insert(i)
		}

		Expect(m.Capacity()).To(BeNumerically(">=", m.Len()))
	})

	Context("with hooks", func() {
		var rec *eventRecorder

		BeforeEach(func() {
			rec = &eventRecorder{}
			a.AcceptHook(rec)
			b.AcceptHook(rec)
		})

		It("should fire a hook for each operation", func() {
			a.Insert("x")
			r, _ := a.Reserve()
			b.Redeem(r, "y")
			a.Redeem(r, "y")

			Expect(rec.positions).To(Equal([]*hooking.HookPos{
				HookPosInsert, HookPosReserve, HookPosReject, HookPosRedeem,
			}))
			Expect(rec.events[2]).To(Equal(Event{
				Map: b.ID(), Key: uint8(1), Origin: a.ID(),
			}))
			Expect(rec.events[3]).To(Equal(Event{
				Map: a.ID(), Key: uint8(1), Origin: a.ID(),
			}))
		})
	})
})

var _ = Describe("Map with a custom generator", func() {
	var (
		mockCtrl *gomock.Controller
		gen      *MockGenerator[uint32]
		m        *Map[uint32, string]
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		gen = NewMockGenerator[uint32](mockCtrl)

		var ok bool
		m, ok = NewWithGenerator[uint32, string](gen)
		Expect(ok).To(BeTrue())
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should not store anything when the generator is exhausted", func() {
		gen.EXPECT().Next().Return(uint32(0), false).Times(3)

		rec := &eventRecorder{}
		m.AcceptHook(rec)

		_, ok := m.Insert("x")
		Expect(ok).To(BeFalse())
		_, ok = m.Insert("x")
		Expect(ok).To(BeFalse())
		_, ok = m.Reserve()
		Expect(ok).To(BeFalse())

		Expect(m.Len()).To(Equal(0))
		Expect(rec.positions).To(HaveLen(3))
		Expect(rec.positions).To(HaveEach(HookPosExhausted))
	})

	It("should panic when the generator repeats a key on insert", func() {
		gen.EXPECT().Next().Return(uint32(7), true).Times(2)

		k, ok := m.Insert("first")
		Expect(ok).To(BeTrue())
		Expect(k).To(Equal(uint32(7)))

		Expect(func() { m.Insert("second") }).To(Panic())

		v, _ := m.Get(7)
		Expect(v).To(Equal("first"))
	})

	It("should panic when the generator repeats a reserved key", func() {
		gen.EXPECT().Next().Return(uint32(9), true).Times(2)

		m.Insert("first")
		r, ok := m.Reserve()
		Expect(ok).To(BeTrue())

		Expect(func() { m.Redeem(r, "second") }).To(Panic())
	})
})

var _ = Describe("Map keyed by xid", func() {
	It("should reserve and redeem", func() {
		m, ok := NewWithGenerator[xid.ID, int](idgen.NewXIDGenerator())
		Expect(ok).To(BeTrue())

		r, ok := m.Reserve()
		Expect(ok).To(BeTrue())

		k, err := m.Redeem(r, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(k).To(Equal(r.Key()))
		v, ok := m.Get(k)
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(1))
	})
})

var _ = Describe("Instance IDs", func() {
	It("should stay unique when maps are created concurrently", func() {
		const n = 64

		var (
			wg  sync.WaitGroup
			mu  sync.Mutex
			ids = map[InstanceID]bool{}
		)

		for i := 0; i < n; i++ {
			wg.Add(1)

			go func() {
				defer GinkgoRecover()
				defer wg.Done()

				m, ok := New[uint64, struct{}]()
				Expect(ok).To(BeTrue())

				mu.Lock()
				ids[m.ID()] = true
				mu.Unlock()
			}()
		}

		wg.Wait()

		Expect(ids).To(HaveLen(n))
	})

	Context("when the ID space is used up", func() {
		var saved idgen.Counter[uint64]

		BeforeEach(func() {
			instanceMu.Lock()
			saved = instanceIDs
			instanceIDs = *idgen.NewCounter(idgen.WithStart[uint64](math.MaxUint64))
			instanceMu.Unlock()
		})

		AfterEach(func() {
			instanceMu.Lock()
			instanceIDs = saved
			instanceMu.Unlock()
		})

		It("should fail to create a map", func() {
			m, ok := New[uint8, string]()
			Expect(ok).To(BeFalse())
			Expect(m).To(BeNil())

			_, ok = New[uint8, string]()
			Expect(ok).To(BeFalse())
		})
	})
})
