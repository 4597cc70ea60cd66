// Package search 实现搜索框的防抖提交：草稿立即更新，停止输入一段时间后才提交。
package search

import (
	"sync"
	"time"
)

// DefaultDelay 为默认防抖间隔。
const DefaultDelay = 500 * time.Millisecond

type timer interface {
	Stop() bool
}

// Debouncer 维护草稿值与一个可重置的计时器，计时器到期时提交草稿。
// 提交值与上次提交相同时不回调。
type Debouncer struct {
	mu        sync.Mutex
	delay     time.Duration
	commit    func(string)
	afterFunc func(time.Duration, func()) timer
	draft     string
	committed string
	pending   timer
	gen       uint64
}

// New 创建 Debouncer，initial 为当前已提交的值。
func New(initial string, delay time.Duration, commit func(string)) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{
		delay:     delay,
		commit:    commit,
		afterFunc: func(d time.Duration, f func()) timer { return time.AfterFunc(d, f) },
		draft:     initial,
		committed: initial,
	}
}

// Type 更新草稿并重新计时。
func (d *Debouncer) Type(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.draft = text
	d.stopLocked()
	gen := d.gen
	d.pending = d.afterFunc(d.delay, func() { d.fire(gen) })
}

// Draft 返回当前草稿。
func (d *Debouncer) Draft() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.draft
}

// Pending 表示是否有尚未提交的草稿。
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Sync 外部修改了已提交值（例如清除筛选），草稿跟随并取消待提交的计时。
func (d *Debouncer) Sync(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.draft = value
	d.committed = value
}

// Flush 立即提交待处理的草稿。
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.pending == nil {
		d.mu.Unlock()
		return
	}
	gen := d.gen
	d.mu.Unlock()
	d.fire(gen)
}

// Stop 取消计时，不提交。
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	d.pending.Stop()
	d.pending = nil
	d.gen++
	if d.draft == d.committed {
		d.mu.Unlock()
		return
	}
	d.committed = d.draft
	value := d.draft
	commit := d.commit
	d.mu.Unlock()

	if commit != nil {
		commit(value)
	}
}

// stopLocked 取消当前计时并使其回调失效。
func (d *Debouncer) stopLocked() {
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
	d.gen++
}
