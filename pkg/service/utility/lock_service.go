/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-09-03 10:12:07
 * @LastEditTime: 2026-02-21 14:20:33
 * @LastEditors: 安知鱼
 */
package utility

import "sync"

// ItemLocker 提供了一个基于条目标识（类型+ID）的锁机制。
// 归属记录是互斥的基本单位：对同一条目的保存与迁移串行执行，
// 避免并发写入者之间的更新丢失。
type ItemLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewItemLocker 创建一个新的 ItemLocker 实例。
func NewItemLocker() *ItemLocker {
	return &ItemLocker{
		locks: make(map[string]*sync.Mutex),
	}
}

// Lock 为给定的条目获取一个锁。
// 如果另一个goroutine已经持有了该条目的锁，当前goroutine将会阻塞等待，直到锁被释放。
func (l *ItemLocker) Lock(itemType, itemID string) {
	key := itemType + ":" + itemID

	l.mu.Lock()
	lock, ok := l.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[key] = lock
	}
	l.mu.Unlock()

	lock.Lock()
}

// Unlock 释放给定条目的锁。
func (l *ItemLocker) Unlock(itemType, itemID string) {
	key := itemType + ":" + itemID

	l.mu.Lock()
	if lock, ok := l.locks[key]; ok {
		lock.Unlock()
	}
	// 为避免map无限增长，在实际生产系统中可能需要一个清理策略，
	// 但对于当前场景，保持mutex实例以避免重复分配是可接受的。
	l.mu.Unlock()
}
