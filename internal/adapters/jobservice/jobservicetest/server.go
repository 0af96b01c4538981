// Package jobservicetest provides an in-memory job and plan service for tests.
package jobservicetest

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bnema/jobgate/internal/domain"
)

const naiveLayout = "2006-01-02T15:04:05.000000"

const (
	CallList     = "list"
	CallLaunch   = "launch"
	CallStop     = "stop"
	CallSettings = "settings"
)

type planEntry struct {
	plan      string
	expiresAt time.Time
}

type job struct {
	id        int
	account   domain.AccountID
	target    string
	port      int
	method    string
	duration  int
	status    string
	createdAt time.Time
	expiresAt time.Time
}

// Server is a fake job service speaking the same JSON API as the real one.
type Server struct {
	URL   string
	Token string

	mu          sync.Mutex
	now         func() time.Time
	plans       map[domain.AccountID]planEntry
	jobs        []*job
	nextID      int
	failList    bool
	failStop    map[string]bool
	calls       map[string]int
	idempotency map[string]int
	lastKey     string

	httpServer *httptest.Server
}

func NewServer(t testing.TB, token string) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{
		Token:       token,
		now:         func() time.Time { return time.Now().UTC() },
		plans:       map[domain.AccountID]planEntry{},
		nextID:      1,
		failStop:    map[string]bool{},
		calls:       map[string]int{},
		idempotency: map[string]int{},
	}

	engine := gin.New()
	engine.Use(s.authenticate)
	engine.GET("/jobs", s.handleList)
	engine.POST("/jobs", s.handleJobAction)
	engine.GET("/settings", s.handleSettings)

	s.httpServer = httptest.NewServer(engine)
	s.URL = s.httpServer.URL
	t.Cleanup(s.httpServer.Close)

	return s
}

func (s *Server) Client() *http.Client {
	return s.httpServer.Client()
}

func (s *Server) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Server) SetPlan(accountID domain.AccountID, plan string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans[accountID] = planEntry{plan: plan, expiresAt: expiresAt}
}

// AddRunningJob seeds a running job that started at startedAt and returns its id.
func (s *Server) AddRunningJob(accountID domain.AccountID, method string, duration time.Duration, startedAt time.Time) domain.JobID {
	s.mu.Lock()
	defer s.mu.Unlock()

	seconds := int(duration / time.Second)
	j := &job{
		id:        s.nextID,
		account:   accountID,
		target:    "192.0.2.10",
		port:      53,
		method:    strings.ToUpper(method),
		duration:  seconds,
		status:    string(domain.JobStatusRunning),
		createdAt: startedAt.UTC(),
		expiresAt: startedAt.UTC().Add(duration),
	}
	s.nextID++
	s.jobs = append(s.jobs, j)

	return domain.JobID(strconv.Itoa(j.id))
}

func (s *Server) FailList(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failList = fail
}

func (s *Server) FailStop(jobID domain.JobID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStop[string(jobID)] = true
}

func (s *Server) Calls(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

func (s *Server) LastIdempotencyKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastKey
}

// RunningJobs counts jobs the fake still reports as running for accountID.
func (s *Server) RunningJobs(accountID domain.AccountID) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, j := range s.jobs {
		if j.account == accountID && j.status == string(domain.JobStatusRunning) {
			count++
		}
	}
	return count
}

func (s *Server) authenticate(c *gin.Context) {
	if s.Token != "" && c.GetHeader("Authorization") != "Bearer "+s.Token {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	if strings.TrimSpace(c.GetHeader("X-Account-Id")) == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing account"})
		return
	}
	c.Next()
}

func (s *Server) handleList(c *gin.Context) {
	accountID := domain.AccountID(c.GetHeader("X-Account-Id"))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[CallList]++

	if s.failList {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "job store unavailable"})
		return
	}

	jobs := make([]gin.H, 0, len(s.jobs))
	for i := len(s.jobs) - 1; i >= 0; i-- {
		if s.jobs[i].account == accountID {
			jobs = append(jobs, s.jobs[i].payload())
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(jobs), "jobs": jobs})
}

type jobActionRequest struct {
	Action   string `json:"action"`
	Target   string `json:"target"`
	Port     int    `json:"port"`
	Duration int    `json:"duration"`
	Method   string `json:"method"`
	JobID    string `json:"job_id"`
}

func (s *Server) handleJobAction(c *gin.Context) {
	var req jobActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	switch req.Action {
	case "start":
		s.handleStart(c, req)
	case "stop":
		s.handleStop(c, req)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action"})
	}
}

func (s *Server) handleStart(c *gin.Context, req jobActionRequest) {
	accountID := domain.AccountID(c.GetHeader("X-Account-Id"))
	key := c.GetHeader("Idempotency-Key")

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[CallLaunch]++
	s.lastKey = key

	if req.Target == "" || req.Port == 0 || req.Duration == 0 || req.Method == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	if id, ok := s.idempotency[key]; ok && key != "" {
		for _, j := range s.jobs {
			if j.id == id {
				c.JSON(http.StatusOK, gin.H{"success": true, "job": j.payload()})
				return
			}
		}
	}

	now := s.now().UTC()
	j := &job{
		id:        s.nextID,
		account:   accountID,
		target:    req.Target,
		port:      req.Port,
		method:    req.Method,
		duration:  req.Duration,
		status:    string(domain.JobStatusRunning),
		createdAt: now,
		expiresAt: now.Add(time.Duration(req.Duration) * time.Second),
	}
	s.nextID++
	s.jobs = append(s.jobs, j)
	if key != "" {
		s.idempotency[key] = j.id
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "job": j.payload()})
}

func (s *Server) handleStop(c *gin.Context, req jobActionRequest) {
	accountID := domain.AccountID(c.GetHeader("X-Account-Id"))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[CallStop]++

	if s.failStop[req.JobID] {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "runner did not acknowledge stop"})
		return
	}

	for _, j := range s.jobs {
		if strconv.Itoa(j.id) == req.JobID && j.account == accountID {
			j.status = string(domain.JobStatusStopped)
			c.JSON(http.StatusOK, gin.H{"success": true, "status": j.status})
			return
		}
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "job not found or access denied"})
}

func (s *Server) handleSettings(c *gin.Context) {
	accountID := domain.AccountID(c.GetHeader("X-Account-Id"))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[CallSettings]++

	entry, ok := s.plans[accountID]
	if !ok {
		c.JSON(http.StatusOK, gin.H{"plan": "free", "plan_expires_at": nil})
		return
	}

	var expiresAt any
	if !entry.expiresAt.IsZero() {
		expiresAt = entry.expiresAt.UTC().Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, gin.H{"plan": entry.plan, "plan_expires_at": expiresAt})
}

func (j *job) payload() gin.H {
	return gin.H{
		"id":         j.id,
		"target":     j.target,
		"port":       j.port,
		"method":     j.method,
		"duration":   j.duration,
		"status":     j.status,
		"created_at": j.createdAt.Format(naiveLayout),
		"expires_at": j.expiresAt.Format(naiveLayout),
	}
}
