package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"job-portal/internal/export"
	"job-portal/internal/model"
	"job-portal/internal/query"
	"job-portal/internal/session"
	"job-portal/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Refresher 抽象手动刷新。
type Refresher interface {
	RunOnce(ctx context.Context) (int, error)
}

// JobStore 按 ID 查询快照中的职位。
type JobStore interface {
	GetJob(ctx context.Context, id string) (*model.Job, error)
}

// Options 配置 HTTP 处理器。
type Options struct {
	PageSize int
	// RefreshPerMinute 为 0 时不限制刷新频率。
	RefreshPerMinute int
	LogWriter        io.Writer
	Now              func() time.Time
}

// SortChoice 是排序下拉框的一项。
type SortChoice struct {
	Value model.SortOption `json:"value"`
	Label string           `json:"label"`
}

// FacetsResponse 暴露筛选面板所需的全部选项。
type FacetsResponse struct {
	Categories      []string     `json:"categories"`
	Locations       []string     `json:"locations"`
	EmploymentTypes []string     `json:"employment_types"`
	SortOptions     []SortChoice `json:"sort_options"`
	CreatedWithin   []int        `json:"created_within"`
	SalaryMin       float64      `json:"salary_min"`
	SalaryMax       float64      `json:"salary_max"`
	SalaryStep      float64      `json:"salary_step"`
}

// FilterUpdateResponse 是合并补丁后的查询串。
type FilterUpdateResponse struct {
	Query   string `json:"query"`
	Changed bool   `json:"changed"`
}

type server struct {
	src     session.Source
	refresh Refresher
	store   JobStore
	opts    Options
	limiter *rate.Limiter
	logger  *log.Logger
}

// NewHandler 构造 gin 路由。
func NewHandler(src session.Source, refresh Refresher, store JobStore, opts Options) http.Handler {
	if opts.LogWriter == nil {
		opts.LogWriter = os.Stdout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &server{
		src:     src,
		refresh: refresh,
		store:   store,
		opts:    opts,
		logger:  log.New(opts.LogWriter, "[api] ", log.LstdFlags),
	}
	if opts.RefreshPerMinute > 0 {
		s.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RefreshPerMinute)), opts.RefreshPerMinute)
	}

	r := gin.New()
	r.Use(gin.LoggerWithWriter(opts.LogWriter), gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.GET("/jobs", s.listJobs)
	api.GET("/jobs/:id", s.getJob)
	api.GET("/facets", s.facets)
	api.POST("/filters", s.updateFilters)
	api.GET("/export/:format", s.export)
	api.POST("/refresh", s.refreshJobs)

	return r
}

// newSession 以请求查询串（去掉 page）创建一次性会话。
func (s *server) newSession(c *gin.Context) (*session.Session, int) {
	values := c.Request.URL.Query()
	page := 1
	if p, err := strconv.Atoi(values.Get("page")); err == nil && p > 0 {
		page = p
	}
	values.Del("page")

	sess := session.New(s.src, values.Encode(), session.Options{PageSize: s.opts.PageSize, Now: s.opts.Now})
	return sess, page
}

func (s *server) listJobs(c *gin.Context) {
	sess, page := s.newSession(c)
	defer sess.Close()

	ctx := c.Request.Context()
	if page > 1 {
		sess.GoTo(ctx, page)
	}
	view := sess.View(ctx)

	c.Header("X-Page", strconv.Itoa(view.Page))
	c.Header("X-Total", strconv.Itoa(view.Total))
	c.Header("X-Has-More", strconv.FormatBool(view.HasNext))
	c.JSON(http.StatusOK, view)
}

func (s *server) getJob(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	if s.store != nil {
		job, err := s.store.GetJob(ctx, id)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, job)
			return
		case !errors.Is(err, storage.ErrNotFound):
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	// 快照中不存在时回退到内存集合。
	if s.src != nil {
		for _, job := range s.src.Jobs(ctx) {
			if job.ID == id {
				c.JSON(http.StatusOK, job)
				return
			}
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": storage.ErrNotFound.Error()})
}

func (s *server) facets(c *gin.Context) {
	resp := FacetsResponse{
		CreatedWithin: model.CreatedWithinChoices,
		SalaryMin:     model.DefaultMinSalary,
		SalaryMax:     model.DefaultMaxSalary,
		SalaryStep:    model.SalaryStep,
	}
	if s.src != nil {
		opts := s.src.Facets(c.Request.Context())
		resp.Categories = opts.Categories
		resp.Locations = opts.Locations
		resp.EmploymentTypes = opts.EmploymentTypes
	}
	for _, opt := range model.SortOptions {
		resp.SortOptions = append(resp.SortOptions, SortChoice{Value: opt, Label: opt.Label()})
	}
	c.JSON(http.StatusOK, resp)
}

func (s *server) updateFilters(c *gin.Context) {
	var p query.Patch
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if p.Sort != nil && !p.Sort.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sort option"})
		return
	}
	next, changed := query.Update(c.Request.URL.Query(), p)
	c.JSON(http.StatusOK, FilterUpdateResponse{Query: next.Encode(), Changed: changed})
}

func (s *server) export(c *gin.Context) {
	f, err := export.ParseFormat(c.Param("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, _ := s.newSession(c)
	defer sess.Close()
	report := sess.Report(c.Request.Context())

	var buf bytes.Buffer
	if err := export.Write(&buf, f, report); err != nil {
		s.logger.Printf("export %s failed: %v", f, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+f.Filename(report.Generated)+`"`)
	c.Data(http.StatusOK, f.ContentType(), buf.Bytes())
}

func (s *server) refreshJobs(c *gin.Context) {
	if s.refresh == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "refresh disabled"})
		return
	}
	if s.limiter != nil && !s.limiter.Allow() {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "refresh rate limit exceeded"})
		return
	}
	n, err := s.refresh.RunOnce(c.Request.Context())
	if err != nil {
		s.logger.Printf("manual refresh failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": n})
}
