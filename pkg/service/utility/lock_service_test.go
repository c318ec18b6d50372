package utility

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItemLocker_SerializesSameItem(t *testing.T) {
	locker := NewItemLocker()

	// 大量并发的同条目临界区：计数器无竞争地递增说明锁生效
	const workers = 50
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			locker.Lock("post", "post-1")
			counter++
			locker.Unlock("post", "post-1")
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, counter)
}

func TestItemLocker_DifferentItemsDoNotBlock(t *testing.T) {
	locker := NewItemLocker()

	locker.Lock("post", "post-1")
	defer locker.Unlock("post", "post-1")

	done := make(chan struct{})
	go func() {
		// 不同条目、以及相同ID但不同类型的条目，锁互不影响
		locker.Lock("post", "post-2")
		locker.Unlock("post", "post-2")
		locker.Lock("project", "post-1")
		locker.Unlock("project", "post-1")
		close(done)
	}()

	<-done
}
