package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/KeithOmondi/principle-registry/pkg/auth"
	"github.com/KeithOmondi/principle-registry/pkg/gazette"
	"github.com/KeithOmondi/principle-registry/pkg/mailer"
	"github.com/KeithOmondi/principle-registry/pkg/models"
	"github.com/KeithOmondi/principle-registry/pkg/pdftext"
	"github.com/KeithOmondi/principle-registry/pkg/storage/model"
	"github.com/KeithOmondi/principle-registry/pkg/store"
)

var log = logrus.StandardLogger().WithField("package", "registry")

type Config struct {
	Storage    model.RWStorage
	Notifier   mailer.Notifier
	JwtSecret  string
	PdfTimeout time.Duration
	TmpDir     string
}

type Server struct {
	e          *gin.Engine
	courts     *store.Courts
	records    *store.Records
	gazettes   *store.Gazettes
	users      *store.Users
	reconciler *gazette.Reconciler
	storage    model.RWStorage
	notifier   mailer.Notifier
	tokens     *auth.Tokens
	pdfTimeout time.Duration
	tmpDir     string
}

func New(db *gorm.DB, config Config) (*Server, error) {
	if config.JwtSecret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	s := Server{
		e:          gin.New(),
		courts:     store.NewCourts(db),
		records:    store.NewRecords(db),
		gazettes:   store.NewGazettes(db),
		users:      store.NewUsers(db),
		storage:    config.Storage,
		notifier:   config.Notifier,
		tokens:     auth.NewTokens(config.JwtSecret),
		pdfTimeout: config.PdfTimeout,
		tmpDir:     config.TmpDir,
	}
	if s.notifier == nil {
		s.notifier = mailer.Discard{}
	}
	if s.pdfTimeout <= 0 {
		s.pdfTimeout = 30 * time.Second
	}
	if s.tmpDir == "" {
		s.tmpDir = os.TempDir()
	}
	s.reconciler = gazette.NewReconciler(s.courts, s.records, s.gazettes)

	s.initRoutes()
	return &s, nil
}

func (s *Server) Run(addr string) error {
	return s.e.Run(addr)
}

func (s *Server) initRoutes() {
	s.e.Use(gin.Logger())
	s.e.Use(cors.Default())

	g := s.e.Group("/api/v1")
	g.POST("/auth/register", s.handleRegister)
	g.POST("/auth/login", s.handleLogin)

	authed := g.Group("", auth.Middleware(s.tokens))
	authed.GET("/courts", s.handleGetCourts)
	authed.POST("/courts", s.handleSeedCourts)
	authed.POST("/records", s.handleCreateRecord)
	authed.GET("/records", s.handleGetRecords)
	authed.GET("/records/export", s.handleExportRecords)
	authed.GET("/records/:id", s.handleGetRecord)
	authed.PATCH("/records/:id", s.handleUpdateRecord)
	authed.DELETE("/records/:id", s.handleDeleteRecord)
	authed.POST("/records/:id/compliance", s.handleRecordCompliance)
	authed.POST("/gazettes/scan", s.handleScanGazette)
	authed.GET("/gazettes", s.handleGetGazettes)
	authed.GET("/gazettes/:id", s.handleGetGazette)
	authed.GET("/gazettes/:id/file", s.handleGetGazetteFile)
	authed.GET("/scanlogs", s.handleGetScanLogs)
	authed.GET("/dashboard", s.handleDashboard)
}

var badRequest = gin.H{
	"error": "bad request",
}

var internalServerError = gin.H{
	"error": "internal server error",
}

type credentials struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var creds credentials
	if err := c.BindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, badRequest)
		return
	}
	u, err := s.users.Create(c.Request.Context(), creds.Email, creds.Name, creds.Password, models.RoleRegistrar)
	if err != nil {
		log.Warnf("register %s: %v", creds.Email, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to register"})
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (s *Server) handleLogin(c *gin.Context) {
	var creds credentials
	if err := c.BindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, badRequest)
		return
	}
	u, err := s.users.Authenticate(c.Request.Context(), creds.Email, creds.Password)
	if err != nil {
		if errors.Is(err, store.ErrBadCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		log.Errorf("login: %v", err)
		c.JSON(http.StatusInternalServerError, internalServerError)
		return
	}
	token, err := s.tokens.Issue(u)
	if err != nil {
		log.Errorf("issue token: %v", err)
		c.JSON(http.StatusInternalServerError, internalServerError)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": u})
}

// handleScanGazette is the reconciliation entrypoint: multipart PDF in,
// scan report out. The uploaded file is a scoped temporary resource,
// removed on success and failure alike.
func (s *Server) handleScanGazette(c *gin.Context) {
	userID := auth.UserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no acting user"})
		return
	}

	upload, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no gazette file uploaded"})
		return
	}

	scanId := uuid.NewString()
	tmpPath := filepath.Join(s.tmpDir, scanId+".pdf")
	if err := c.SaveUploadedFile(upload, tmpPath); err != nil {
		log.Errorf("saving upload: %v", err)
		c.JSON(http.StatusInternalServerError, internalServerError)
		return
	}
	defer func() {
		if err := os.Remove(tmpPath); err != nil {
			log.Warnf("removing temporary upload %s: %v", tmpPath, err)
		}
	}()

	f, err := os.Open(tmpPath)
	if err != nil {
		log.Errorf("opening upload: %v", err)
		c.JSON(http.StatusInternalServerError, internalServerError)
		return
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.pdfTimeout)
	defer cancel()
	text, err := pdftext.Extract(ctx, f, upload.Size)
	if err != nil {
		log.Errorf("extracting pdf text from %s: %v", upload.Filename, err)
		status := http.StatusInternalServerError
		if errors.Is(err, pdftext.ErrTimeout) {
			status = http.StatusGatewayTimeout
		}
		c.JSON(status, gin.H{"error": "unable to read gazette pdf"})
		return
	}

	report, err := s.reconciler.Reconcile(c.Request.Context(), gazette.ScanInput{
		Text:       pdftext.Normalize(text),
		FileName:   upload.Filename,
		ScanId:     scanId,
		UploadedBy: userID,
	})
	if err != nil {
		s.scanError(c, err)
		return
	}

	s.archiveUpload(scanId, upload.Filename, f)
	go s.notifyCourts(report.Gazette)

	c.JSON(http.StatusOK, report)
}

func (s *Server) scanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gazette.ErrNoUpload):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, gazette.ErrNoUser):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		log.Errorf("scan: %v", err)
		c.JSON(http.StatusInternalServerError, internalServerError)
	}
}

// archiveUpload keeps a copy of the scanned PDF; failure to archive does
// not fail the scan that already persisted.
func (s *Server) archiveUpload(scanId, fileName string, f *os.File) {
	if s.storage == nil {
		return
	}
	if _, err := f.Seek(0, 0); err != nil {
		log.Warnf("rewinding upload for archive: %v", err)
		return
	}
	err := s.storage.Store(models.GazetteFile{
		Reader:   f,
		ScanId:   scanId,
		FileName: fileName,
		Uploaded: time.Now(),
	})
	if err != nil {
		log.Warnf("archiving gazette %s: %v", fileName, err)
	}
}

// notifyCourts mails each resolved station the cases that matched one of
// its records.
func (s *Server) notifyCourts(g *models.Gazette) {
	perCourt := map[uint][]models.GazetteCase{}
	for _, gc := range g.Cases {
		if gc.Matched && gc.CourtStationID != nil {
			perCourt[*gc.CourtStationID] = append(perCourt[*gc.CourtStationID], gc)
		}
	}
	ctx := context.Background()
	for courtID, cases := range perCourt {
		court, err := s.courts.Get(ctx, courtID)
		if err != nil {
			log.Warnf("court %d lookup for notice: %v", courtID, err)
			continue
		}
		if err := s.notifier.PublicationNotice(*court, g, cases); err != nil {
			log.Errorf("publication notice to %s: %v", court.Name, err)
		}
	}
}

func (s *Server) handleGetGazettes(c *gin.Context) {
	gazettes, err := s.gazettes.List(c.Request.Context())
	if err != nil {
		log.Errorf("listing gazettes: %v", err)
		c.JSON(http.StatusInternalServerError, internalServerError)
		return
	}
	c.JSON(http.StatusOK, gazettes)
}

func (s *Server) handleGetGazette(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, badRequest)
		return
	}
	g, err := s.gazettes.Get(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		log.Errorf("getting gazette %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, internalServerError)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (s *Server) handleGetGazetteFile(c *gin.Context) {
	if s.storage == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "archive storage not configured"})
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, badRequest)
		return
	}
	g, err := s.gazettes.Get(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	file, err := s.storage.Retrieve(g.ScanId)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		log.Errorf("retrieving archived gazette %s: %v", g.ScanId, err)
		c.JSON(http.StatusInternalServerError, internalServerError)
		return
	}
	c.Header("Content-Type", "application/pdf")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, file.Reader); err != nil {
		log.Errorf("unable to copy: %v", err)
		return
	}
}

func (s *Server) handleGetScanLogs(c *gin.Context) {
	logs, err := s.gazettes.ListScanLogs(c.Request.Context())
	if err != nil {
		log.Errorf("listing scan logs: %v", err)
		c.JSON(http.StatusInternalServerError, internalServerError)
		return
	}
	c.JSON(http.StatusOK, logs)
}

// handleSeedCourts upserts court stations by name; existing stations are
// left untouched.
func (s *Server) handleSeedCourts(c *gin.Context) {
	var courts []models.Court
	if err := c.BindJSON(&courts); err != nil {
		c.JSON(http.StatusBadRequest, badRequest)
		return
	}
	if err := s.courts.Seed(c.Request.Context(), courts); err != nil {
		log.Errorf("seeding courts: %v", err)
		c.JSON(http.StatusInternalServerError, internalServerError)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleGetCourts(c *gin.Context) {
	courts, err := s.courts.List(c.Request.Context())
	if err != nil {
		log.Errorf("listing courts: %v", err)
		c.JSON(http.StatusInternalServerError, internalServerError)
		return
	}
	c.JSON(http.StatusOK, courts)
}
