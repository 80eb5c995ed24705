package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/snkhalik/delivery-distance-checker/internal/config"
	"github.com/snkhalik/delivery-distance-checker/internal/store"
)

const previewPageSize = 50

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Auth.Password == "" || cfg.Auth.SessionSecret == "" {
		log.Fatal("config: auth.password and auth.session_secret must be set")
	}

	gin.SetMode(cfg.Server.GinMode)

	for _, dir := range []string{cfg.Paths.Uploads, cfg.Paths.Output} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("create %s: %v", dir, err)
		}
	}

	st, err := store.Open(cfg.Paths.Database)
	if err != nil {
		log.Fatalf("open result store: %v", err)
	}
	defer st.Close()

	r := newRouter(cfg, st)

	janitorStop := make(chan struct{})
	go janitor(st, cfg, janitorStop)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Delivery distance checker listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	close(janitorStop)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
	log.Println("Server stopped.")
}

func newRouter(cfg *config.Config, st *store.ResultStore) *gin.Engine {
	r := gin.Default()

	sessionStore := cookie.NewStore([]byte(cfg.Auth.SessionSecret))
	r.Use(sessions.Sessions("ddcsession", sessionStore))

	r.LoadHTMLGlob("templates/*")

	authRequired := func(c *gin.Context) {
		session := sessions.Default(c)
		if session.Get("user") == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}

	r.GET("/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "login.html", gin.H{})
	})

	r.POST("/login", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")

		if username == cfg.Auth.User && password == cfg.Auth.Password {
			session := sessions.Default(c)
			session.Set("user", username)
			session.Save()
			c.Redirect(http.StatusFound, "/")
		} else {
			c.HTML(http.StatusOK, "login.html", gin.H{
				"Error": "Invalid username or password",
			})
		}
	})

	r.GET("/logout", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Clear()
		session.Save()
		c.Redirect(http.StatusFound, "/login")
	})

	authorized := r.Group("/")
	authorized.Use(authRequired)
	{
		authorized.GET("/", func(c *gin.Context) {
			c.HTML(http.StatusOK, "index.html", gin.H{
				"DefaultThreshold": cfg.ThresholdMeters,
			})
		})

		authorized.POST("/run", func(c *gin.Context) { handleRun(c, cfg, st) })
		authorized.GET("/logs", handleLogs)
		authorized.GET("/status", handleStatus)
		authorized.GET("/results/:job_id", func(c *gin.Context) { handleResults(c, st) })
		authorized.POST("/jobs/:job_id/delete", func(c *gin.Context) { handleJobDelete(c, cfg, st) })
		authorized.GET("/download-result/:filename", func(c *gin.Context) {
			filename := filepath.Base(c.Param("filename"))
			c.FileAttachment(filepath.Join(cfg.Paths.Output, filename), filename)
		})
		authorized.GET("/download-template", handleTemplate)
	}

	return r
}

func handleRun(c *gin.Context, cfg *config.Config, st *store.ResultStore) {
	file, err := c.FormFile("input_file")
	if err != nil {
		c.HTML(http.StatusOK, "index.html", gin.H{
			"Message":          "Please choose a file to upload.",
			"DefaultThreshold": cfg.ThresholdMeters,
		})
		return
	}

	threshold := cfg.ThresholdMeters
	if raw := c.PostForm("threshold_meters"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 {
			c.HTML(http.StatusOK, "index.html", gin.H{
				"Message":          "Threshold must be a positive number of meters.",
				"DefaultThreshold": cfg.ThresholdMeters,
			})
			return
		}
		threshold = v
	}

	inputPath := filepath.Join(cfg.Paths.Uploads, fmt.Sprintf("%s_%s", uuid.New().String(), filepath.Base(file.Filename)))
	if err := c.SaveUploadedFile(file, inputPath); err != nil {
		c.HTML(http.StatusOK, "index.html", gin.H{
			"Message":          "Upload failed, please retry.",
			"DefaultThreshold": cfg.ThresholdMeters,
		})
		return
	}

	job := NewJob()
	go processJob(job, st, inputPath, file.Filename, cfg.Paths.Output, threshold)

	c.HTML(http.StatusOK, "index.html", gin.H{
		"JobID":            job.ID,
		"Message":          "Validation started...",
		"DefaultThreshold": cfg.ThresholdMeters,
	})
}

func handleLogs(c *gin.Context) {
	job := GetJob(c.Query("job_id"))
	if job == nil {
		c.JSON(http.StatusOK, gin.H{"ok": false, "error": "Job not found"})
		return
	}

	job.Mutex.RLock()
	logs := make([]string, len(job.Logs))
	copy(logs, job.Logs)
	status := job.Status
	progress := job.Progress
	job.Mutex.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"logs":     logs,
		"status":   status,
		"progress": progress,
	})
}

func handleStatus(c *gin.Context) {
	job := GetJob(c.Query("job_id"))
	if job == nil {
		c.JSON(http.StatusOK, gin.H{"ok": false})
		return
	}

	job.Mutex.RLock()
	defer job.Mutex.RUnlock()

	res := gin.H{
		"ok":     true,
		"status": job.Status,
		"error":  job.Error,
	}
	if job.Result != nil {
		res["result"] = job.Result
	}
	c.JSON(http.StatusOK, res)
}

func handleResults(c *gin.Context, st *store.ResultStore) {
	jobID := c.Param("job_id")
	job := GetJob(jobID)
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "Job not found"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * previewPageSize

	total, err := st.CountResults(jobID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	records, err := st.ListResults(jobID, previewPageSize, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	rows := make([]gin.H, 0, len(records))
	for _, r := range records {
		rows = append(rows, gin.H{
			"shipment_code":      r.ShipmentCode,
			"delivery_latitude":  r.Delivery.Lat,
			"delivery_longitude": r.Delivery.Lon,
			"dropoff_latitude":   r.Dropoff.Lat,
			"dropoff_longitude":  r.Dropoff.Lon,
			"distance_meters":    r.DistanceMeters,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":    true,
		"total": total,
		"page":  page,
		"rows":  rows,
	})
}

func handleJobDelete(c *gin.Context, cfg *config.Config, st *store.ResultStore) {
	jobID := c.Param("job_id")
	if job := GetJob(jobID); job == nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "Job not found"})
		return
	}

	if err := st.DeleteJob(jobID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	removeJobFiles(cfg.Paths.Output, jobID)
	DeleteJob(jobID)

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func handleTemplate(c *gin.Context) {
	// A filled-in sample beats an empty skeleton for first-time users.
	sample := "shipment_code,delivery_latitude,delivery_longitude,dropoff_latitude,dropoff_longitude\n" +
		"SHP-001,-6.200000,106.816666,-6.210000,106.816666\n" +
		"SHP-002,-6.914744,107.609810,-6.914744,107.609810\n"
	c.Header("Content-Disposition", `attachment; filename="shipments_template.csv"`)
	c.Data(http.StatusOK, "text/csv", []byte(sample))
}

func removeJobFiles(outputDir, jobID string) {
	for _, ext := range []string{".csv", ".xlsx", ".pdf"} {
		os.Remove(filepath.Join(outputDir, jobID+ext))
	}
}

// janitor drops expired jobs, their stored rows and their export files on
// the retention schedule.
func janitor(st *store.ResultStore, cfg *config.Config, stop <-chan struct{}) {
	interval := cfg.Jobs.Retention() / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-cfg.Jobs.Retention())
			for _, id := range ExpiredJobs(cutoff) {
				removeJobFiles(cfg.Paths.Output, id)
				DeleteJob(id)
			}
			if n, err := st.PurgeBefore(cutoff); err != nil {
				log.Printf("janitor: purge results: %v", err)
			} else if n > 0 {
				log.Printf("janitor: purged %d expired result rows", n)
			}
		}
	}
}
