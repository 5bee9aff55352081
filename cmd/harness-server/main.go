// Command harness-server exposes the statistical hash-QA harness over
// a small gin-based JSON control plane: a run is POSTed, its report can
// be polled by id, and a health endpoint reports liveness.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"hashqa/internal/config"
	"hashqa/internal/hut"
	"hashqa/internal/runner"
	"hashqa/internal/vstore"
)

var (
	port   = flag.Int("port", 8080, "HTTP API server port")
	dbPath = flag.String("vdb", "verification.db", "path to the legacy-verification bbolt store")
)

// Server holds the shared verification store and the in-memory table
// of completed runs, guarded by a mutex against concurrent requests.
type Server struct {
	store *vstore.Store

	mu      sync.Mutex
	reports map[string]*runner.Report
	nextID  int
}

func newServer(store *vstore.Store) *Server {
	return &Server{store: store, reports: make(map[string]*runner.Report)}
}

// RunRequest is the JSON body POSTed to /api/v1/run.
type RunRequest struct {
	HUTName         string `json:"hut"`
	Seed            uint64 `json:"seed"`
	RunCollisions   *bool  `json:"run_collisions,omitempty"`
	RunDistribution *bool  `json:"run_distribution,omitempty"`
	RunAvalanche    *bool  `json:"run_avalanche,omitempty"`
	RunBIC          *bool  `json:"run_bic,omitempty"`
	KeyCount        int    `json:"key_count,omitempty"`
	AvalancheReps   int    `json:"avalanche_reps,omitempty"`
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func (s *Server) handleRun(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cfg := config.Default()
	cfg.HUTName = req.HUTName
	cfg.Seed = req.Seed
	cfg.RunCollisions = boolOr(req.RunCollisions, true)
	cfg.RunDistribution = boolOr(req.RunDistribution, true)
	cfg.RunAvalanche = boolOr(req.RunAvalanche, true)
	cfg.RunBIC = boolOr(req.RunBIC, true)

	opts := runner.Options{KeyCount: req.KeyCount, AvalancheReps: req.AvalancheReps}

	rep, err := runner.Run(cfg, opts, io.Discard, s.store)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	s.nextID++
	id := fmt.Sprintf("run-%d", s.nextID)
	s.reports[id] = rep
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"id":     id,
		"report": rep,
	})
}

func (s *Server) handleGetReport(c *gin.Context) {
	id := c.Param("id")
	s.mu.Lock()
	rep, ok := s.reports[id]
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such run id"})
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (s *Server) handleHealth(c *gin.Context) {
	s.mu.Lock()
	stored := len(s.reports)
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"huts":        hut.Names(),
		"runs_stored": stored,
	})
}

func main() {
	flag.Parse()

	store, err := vstore.Open(*dbPath)
	if err != nil {
		log.Fatalf("open verification store: %v", err)
	}
	defer store.Close()

	srv := newServer(store)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api/v1")
	{
		api.POST("/run", srv.handleRun)
		api.GET("/report/:id", srv.handleGetReport)
		api.GET("/health", srv.handleHealth)
	}

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", *port),
		Handler: router,
	}

	go func() {
		log.Printf("harness-server listening on :%d", *port)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("API server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
}
