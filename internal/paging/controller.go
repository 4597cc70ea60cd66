package paging

import "job-portal/internal/model"

// Controller 保存当前页码与模式。页码是临时状态，不写入查询串。
// 筛选条件、排序或模式变化时页码回到 1。
type Controller struct {
	size int
	mode Mode
	page int
	key  string
}

// NewController 创建控制器，size 非正时使用默认页大小。
func NewController(size int) *Controller {
	if size <= 0 {
		size = DefaultPageSize
	}
	return &Controller{size: size, mode: ModePaged, page: 1}
}

// Mode 返回当前模式。
func (c *Controller) Mode() Mode { return c.mode }

// Page 返回当前页码（从 1 开始）。
func (c *Controller) Page() int { return c.page }

// PageSize 返回页大小。
func (c *Controller) PageSize() int { return c.size }

// SetMode 切换模式，模式变化时页码重置。
func (c *Controller) SetMode(m Mode) {
	if m != ModeInfinite {
		m = ModePaged
	}
	if m == c.mode {
		return
	}
	c.mode = m
	c.page = 1
}

// Observe 记录筛选状态指纹（通常是规范化后的查询串），指纹变化时页码重置。
func (c *Controller) Observe(key string) {
	if key == c.key {
		return
	}
	c.key = key
	c.page = 1
}

// Window 返回当前可见窗口。
func (c *Controller) Window(jobs []model.Job) Window {
	return Slice(jobs, c.mode, c.page, c.size)
}

// Next 分页模式下翻到下一页，没有下一页时返回 false。
func (c *Controller) Next(total int) bool {
	if c.page*c.size >= total {
		return false
	}
	c.page++
	return true
}

// Prev 翻到上一页。
func (c *Controller) Prev() bool {
	if c.page <= 1 {
		return false
	}
	c.page--
	return true
}

// GoTo 跳到指定页，越界时夹到 [1, 最后一页]。
func (c *Controller) GoTo(page, total int) {
	last := max((total+c.size-1)/c.size, 1)
	c.page = min(max(page, 1), last)
}

// Advance 无限模式下哨兵进入视口时调用：仍有剩余记录则追加一页。
func (c *Controller) Advance(total int) bool {
	if c.mode != ModeInfinite {
		return false
	}
	if c.page*c.size >= total {
		return false
	}
	c.page++
	return true
}
