package aml

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestPoolPushNWithinPage(t *testing.T) {
	p := NewPool[int]("test", PoolConfig{GrowCount: 16, ReserveCap: 1024}, zaptest.NewLogger(t))

	a := p.PushN(4)
	b := p.PushN(4)
	require.Len(t, a, 4)
	require.Len(t, b, 4)

	for i := range a {
		a[i] = i + 1
	}
	for i := range b {
		b[i] = 100 + i
	}
	// a and b must not alias.
	require.Equal(t, []int{1, 2, 3, 4}, a)
	require.Equal(t, []int{100, 101, 102, 103}, b)
	require.Equal(t, 16, p.Allocated())
}

func TestPoolPushNGrowsAcrossPages(t *testing.T) {
	p := NewPool[int]("test", PoolConfig{GrowCount: 4, ReserveCap: 1024}, zaptest.NewLogger(t))

	first := p.PushN(4)
	for i := range first {
		first[i] = i
	}
	second := p.PushN(4) // forces a new page
	for i := range second {
		second[i] = 10 + i
	}

	// The first page's slice must still be intact after a new page is installed.
	require.Equal(t, []int{0, 1, 2, 3}, first)
	require.Equal(t, []int{10, 11, 12, 13}, second)
}

func TestPoolPushNOversizedRequestGrowsPageToFit(t *testing.T) {
	p := NewPool[int]("test", PoolConfig{GrowCount: 4, ReserveCap: 1024}, zaptest.NewLogger(t))

	big := p.PushN(10)
	require.Len(t, big, 10)
	require.Equal(t, 10, p.Allocated())
}

func TestPoolPushNExhaustsReserveCap(t *testing.T) {
	p := NewPool[int]("test", PoolConfig{GrowCount: 8, ReserveCap: 8}, zaptest.NewLogger(t))

	p.PushN(8)
	require.Panics(t, func() {
		p.PushN(1)
	})
}

func TestPoolDeinitResetsAccounting(t *testing.T) {
	p := NewPool[int]("test", PoolConfig{GrowCount: 4, ReserveCap: 1024}, zaptest.NewLogger(t))
	p.PushN(4)
	require.Equal(t, 4, p.Allocated())
	p.Deinit()
	require.Equal(t, 0, p.Allocated())
}

func TestPoolPushNZeroIsNil(t *testing.T) {
	p := NewPool[int]("test", DefaultPoolConfig, zaptest.NewLogger(t))
	require.Nil(t, p.PushN(0))
}
