package progressbar

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	p, err := New(&bytes.Buffer{}, 10, 4, time.Second)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(p.String(), "|          | [0.00%"))

	p.Increment()
	p.Increment()
	require.True(t, strings.HasPrefix(p.String(),
		"|"+strings.Repeat("█", 5)+strings.Repeat(" ", 5)+"| [50.00%"))

	for i := 0; i < 10; i++ {
		p.Increment()
	}
	require.Equal(t, 4, p.Progress())
	require.Contains(t, p.String(), "[100.00%")
}

func TestConcurrentIncrement(t *testing.T) {
	var out bytes.Buffer
	p, err := New(&out, 20, 1000, time.Millisecond)
	require.NoError(t, err)
	p.Display()

	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				p.Increment()
			}
		}()
	}
	wg.Wait()

	require.NoError(t, p.Close())
	require.Equal(t, 500, p.Progress())
	require.Contains(t, out.String(), "[50.00%")
	require.Error(t, p.Close())
}

func TestNewValidation(t *testing.T) {
	_, err := New(&bytes.Buffer{}, 0, 1, time.Second)
	require.Error(t, err)
	_, err = New(&bytes.Buffer{}, 1, 0, time.Second)
	require.Error(t, err)
	_, err = New(&bytes.Buffer{}, 1, 1, 0)
	require.Error(t, err)
}
