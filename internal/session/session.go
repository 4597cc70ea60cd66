// Package session 组合查询串、筛选引擎、分页与防抖搜索，表示一个用户的浏览状态。
package session

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"job-portal/internal/export"
	"job-portal/internal/facet"
	"job-portal/internal/filter"
	"job-portal/internal/metrics"
	"job-portal/internal/model"
	"job-portal/internal/paging"
	"job-portal/internal/query"
	"job-portal/internal/search"
)

// ParamMode 是会话自身维护的查询键，不属于筛选状态，变化时不重置页码。
const ParamMode = "mode"

// Source 提供完整职位集合。
type Source interface {
	Jobs(ctx context.Context) []model.Job
	Facets(ctx context.Context) facet.Options
	Loading() bool
}

// Options 配置会话。
type Options struct {
	PageSize  int
	Debounce  time.Duration
	Now       func() time.Time
	Navigator query.Navigator
}

// View 是渲染一次结果所需的全部数据。
type View struct {
	paging.Window
	State       query.State   `json:"state"`
	Query       string        `json:"query"`
	SearchDraft string        `json:"search_draft"`
	Chips       []filter.Chip `json:"chips"`
	Summary     string        `json:"summary"`
	Facets      facet.Options `json:"facets"`
	Loading     bool          `json:"loading"`
}

// Session 并发安全。查询串是唯一的状态来源，每次读取时重新解码。
type Session struct {
	mu     sync.Mutex
	source Source
	engine *filter.Engine
	pager  *paging.Controller
	nav    query.Navigator
	now    func() time.Time
	values url.Values
	search *search.Debouncer
}

// New 根据初始查询串创建会话，无法解析的查询串视为空。
func New(src Source, rawQuery string, opts Options) *Session {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	values, err := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
	if err != nil {
		values = url.Values{}
	}

	s := &Session{
		source: src,
		engine: filter.New(now),
		pager:  paging.NewController(opts.PageSize),
		nav:    opts.Navigator,
		now:    now,
		values: values,
	}
	s.pager.SetMode(paging.ParseMode(values.Get(ParamMode)))
	s.pager.Observe(s.filterKey())
	s.search = search.New(s.state().Filters.Search, opts.Debounce, s.commitSearch)
	return s
}

// Query 返回当前查询串。
func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values.Encode()
}

// State 返回解码后的筛选与排序状态。
func (s *Session) State() query.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state()
}

// Type 更新搜索框草稿，停止输入一段时间后才提交到查询串。
func (s *Session) Type(text string) {
	s.search.Type(text)
}

// FlushSearch 立即提交待处理的搜索草稿。
func (s *Session) FlushSearch() {
	s.search.Flush()
}

// Close 取消待提交的搜索。
func (s *Session) Close() {
	s.search.Stop()
}

// Update 合并补丁；查询串变化时跳转并把页码重置为 1。
func (s *Session) Update(p query.Patch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(p, true)
}

// RemoveFilter 移除一个筛选标签。
func (s *Session) RemoveFilter(key model.FilterKey, value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(query.RemovePatch(s.state().Filters, key, value), true)
}

// ClearAll 清除全部筛选条件，包括搜索词。
func (s *Session) ClearAll() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(query.ClearPatch(), true)
}

// ResetFilters 重置侧边栏筛选条件，保留搜索词。
func (s *Session) ResetFilters() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(query.ResetPatch(), true)
}

// SetInfinite 切换无限滚动模式，模式写入查询串。
func (s *Session) SetInfinite(on bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	mode := paging.ModePaged
	if on {
		mode = paging.ModeInfinite
	}
	if s.pager.Mode() == mode {
		return false
	}
	s.pager.SetMode(mode)

	next := url.Values{}
	for k, v := range s.values {
		next[k] = append([]string(nil), v...)
	}
	if on {
		next.Set(ParamMode, string(paging.ModeInfinite))
	} else {
		next.Del(ParamMode)
	}
	s.values = next
	if s.nav != nil {
		s.nav.Navigate(next.Encode())
	}
	return true
}

// NextPage 分页模式下翻页。
func (s *Session) NextPage(ctx context.Context) bool {
	total := len(s.results(ctx))
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pager.Mode() != paging.ModePaged {
		return false
	}
	return s.pager.Next(total)
}

// PrevPage 分页模式下回到上一页。
func (s *Session) PrevPage() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pager.Mode() != paging.ModePaged {
		return false
	}
	return s.pager.Prev()
}

// GoTo 跳到指定页；无限模式下表示已加载的页数。
func (s *Session) GoTo(ctx context.Context, page int) {
	total := len(s.results(ctx))
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pager.GoTo(page, total)
}

// LoadMore 无限模式下追加一页，没有更多记录时返回 false。
func (s *Session) LoadMore(ctx context.Context) bool {
	total := len(s.results(ctx))
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pager.Advance(total)
}

// View 计算当前可见结果。
func (s *Session) View(ctx context.Context) View {
	jobs := s.results(ctx)
	metrics.ObserveFilter(len(jobs))

	s.mu.Lock()
	st := s.state()
	v := View{
		Window:  s.pager.Window(jobs),
		State:   st,
		Query:   s.values.Encode(),
		Chips:   filter.Active(st.Filters),
		Summary: filter.SummaryLine(st.Filters),
	}
	s.mu.Unlock()

	v.SearchDraft = s.search.Draft()
	if s.source != nil {
		v.Facets = s.source.Facets(ctx)
		v.Loading = s.source.Loading()
	} else {
		v.Facets = facet.Extract(nil)
	}
	return v
}

// Report 返回完整筛选结果（不分页）用于导出。
func (s *Session) Report(ctx context.Context) export.Report {
	jobs := s.results(ctx)
	return export.Report{Jobs: jobs, Filters: s.State().Filters, Generated: s.now()}
}

func (s *Session) results(ctx context.Context) []model.Job {
	var jobs []model.Job
	if s.source != nil {
		jobs = s.source.Jobs(ctx)
	}
	st := s.State()
	return s.engine.Apply(jobs, st.Filters, st.Sort)
}

// commitSearch 由防抖计时器回调，不再同步草稿，避免覆盖之后的输入。
func (s *Session) commitSearch(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(query.Patch{Search: &text}, false)
}

// apply 需持有 mu。
func (s *Session) apply(p query.Patch, syncDraft bool) bool {
	next, changed := query.Commit(s.nav, s.values, p)
	if changed {
		s.values = next
		s.pager.Observe(s.filterKey())
	}
	if syncDraft && p.Search != nil && s.search != nil {
		s.search.Sync(s.state().Filters.Search)
	}
	return changed
}

func (s *Session) state() query.State {
	return query.Decode(s.values)
}

// filterKey 是规范化后的筛选状态，不含模式等非筛选键。
func (s *Session) filterKey() string {
	return query.Encode(s.state()).Encode()
}
